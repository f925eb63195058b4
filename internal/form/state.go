package form

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/KaramelBytes/aqicast-cli/internal/dataset"
	"github.com/KaramelBytes/aqicast-cli/internal/pollutant"
)

// numericInput admits partial decimals while typing: "", ".", "12.", ".5".
var numericInput = regexp.MustCompile(`^[0-9]*\.?[0-9]*$`)

// decimalReading is what Snapshot will parse: plain decimal notation with an
// optional sign and exponent. Hex floats and digit separators are not readings.
var decimalReading = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// State holds the pollutant inputs as text, keyed by canonical name.
// It has a single owner and is not safe for concurrent mutation.
type State struct {
	values map[string]string
}

// New returns a State with every pollutant set to "0".
func New() *State {
	s := &State{values: make(map[string]string, len(pollutant.Names))}
	for _, name := range pollutant.Names {
		s.values[name] = "0"
	}
	return s
}

// ValidInput reports whether raw is an acceptable in-progress numeric entry.
func ValidInput(raw string) bool {
	return numericInput.MatchString(raw)
}

// Set stores raw for name when it is a non-negative decimal (or empty).
// Invalid edits and unknown names leave the state untouched and return false.
func (s *State) Set(name, raw string) bool {
	if _, ok := s.values[name]; !ok {
		return false
	}
	if !ValidInput(raw) {
		return false
	}
	s.values[name] = raw
	return true
}

// ApplySample overwrites every pollutant with the sample's value, unvalidated.
func (s *State) ApplySample(rec dataset.SampleRecord) {
	for _, name := range pollutant.Names {
		s.values[name] = rec.Get(name)
	}
}

// Clear empties every pollutant.
func (s *State) Clear() {
	for _, name := range pollutant.Names {
		s.values[name] = ""
	}
}

// Get returns the current text for name.
func (s *State) Get(name string) string { return s.values[name] }

// Values returns a copy of the current inputs.
func (s *State) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Snapshot converts the inputs for submission. Empty or unparseable text
// counts as a zero reading.
func (s *State) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(pollutant.Names))
	for _, name := range pollutant.Names {
		out[name] = parseReading(s.values[name])
	}
	return out
}

func parseReading(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if !decimalReading.MatchString(raw) {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
