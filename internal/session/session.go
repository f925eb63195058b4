package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/KaramelBytes/aqicast-cli/internal/dataset"
	"github.com/KaramelBytes/aqicast-cli/internal/form"
	"github.com/KaramelBytes/aqicast-cli/internal/history"
	"github.com/KaramelBytes/aqicast-cli/internal/predict"
)

// ErrSubmitInFlight is returned when a submit starts while another is outstanding.
var ErrSubmitInFlight = errors.New("a prediction request is already in flight")

// Predictor runs one prediction for a feature snapshot.
type Predictor interface {
	Run(ctx context.Context, features map[string]float64) predict.Outcome
}

// Recorder stores finished prediction attempts.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// Session is one user's working set: loaded samples, the form, and the
// currently selected sample.
type Session struct {
	Form *form.State

	samples   []dataset.SampleRecord
	selected  int
	predictor Predictor
	recorder  Recorder
	logf      func(format string, args ...any)
	inFlight  atomic.Bool
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder records every submit outcome.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithLogf sets the diagnostics sink for recording failures.
func WithLogf(fn func(format string, args ...any)) Option {
	return func(s *Session) {
		if fn != nil {
			s.logf = fn
		}
	}
}

// New builds a session over samples with a fresh form.
func New(samples []dataset.SampleRecord, p Predictor, opts ...Option) *Session {
	if samples == nil {
		samples = []dataset.SampleRecord{}
	}
	s := &Session{
		Form:      form.New(),
		samples:   samples,
		selected:  -1,
		predictor: p,
		logf:      func(string, ...any) {},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Samples returns the loaded samples in city order.
func (s *Session) Samples() []dataset.SampleRecord { return s.samples }

// Select applies sample i to the form and marks it selected.
func (s *Session) Select(i int) error {
	if i < 0 || i >= len(s.samples) {
		return fmt.Errorf("sample index %d out of range (have %d)", i, len(s.samples))
	}
	s.selected = i
	s.Form.ApplySample(s.samples[i])
	return nil
}

// SelectCity applies the sample for the named city.
func (s *Session) SelectCity(name string) error {
	_, idx, ok := dataset.Find(s.samples, name)
	if !ok {
		return fmt.Errorf("no sample for city %q", strings.TrimSpace(name))
	}
	return s.Select(idx)
}

// Selected returns the selected sample and its index.
func (s *Session) Selected() (dataset.SampleRecord, int, bool) {
	if s.selected < 0 || s.selected >= len(s.samples) {
		return nil, -1, false
	}
	return s.samples[s.selected], s.selected, true
}

// ClearSample deselects the sample and empties the form.
func (s *Session) ClearSample() {
	s.selected = -1
	s.Form.Clear()
}

// ActualAQI returns the selected sample's reference AQI, "N/A" when absent.
func (s *Session) ActualAQI() (string, bool) {
	rec, _, ok := s.Selected()
	if !ok {
		return "", false
	}
	if v := rec.AQI(); v != "" {
		return v, true
	}
	return "N/A", true
}

// Busy reports whether a submit is outstanding.
func (s *Session) Busy() bool { return s.inFlight.Load() }

// Submit snapshots the form and runs a prediction. Overlapping submits are refused.
func (s *Session) Submit(ctx context.Context) (predict.Outcome, error) {
	if s.predictor == nil {
		return predict.Outcome{}, errors.New("no predictor configured")
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return predict.Outcome{}, ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	features := s.Form.Snapshot()
	out := s.predictor.Run(ctx, features)
	if s.recorder != nil {
		city := ""
		if rec, _, ok := s.Selected(); ok {
			city = rec.City()
		}
		e, err := history.FromOutcome(city, features, out)
		if err == nil {
			_, err = s.recorder.Record(ctx, e)
		}
		if err != nil {
			s.logf("record prediction: %v", err)
		}
	}
	return out, nil
}
