package dataset

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyDataset indicates the text had no header or no data rows.
var ErrEmptyDataset = errors.New("dataset has no header or no data rows")

// Loader turns raw dataset text into one representative sample per city.
type Loader struct {
	rng        *rand.Rand
	logf       func(format string, args ...any)
	httpClient *http.Client
}

// Option configures a Loader.
type Option func(*Loader)

// WithSeed makes representative selection reproducible. Seed 0 keeps selection random.
func WithSeed(seed uint64) Option {
	return func(l *Loader) {
		if seed != 0 {
			l.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
}

// WithRand injects the random source used for representative selection.
func WithRand(r *rand.Rand) Option {
	return func(l *Loader) {
		if r != nil {
			l.rng = r
		}
	}
}

// WithLogf sets the diagnostics sink for load failures.
func WithLogf(fn func(format string, args ...any)) Option {
	return func(l *Loader) {
		if fn != nil {
			l.logf = fn
		}
	}
}

// WithHTTPClient sets the client used to fetch http(s) dataset sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.httpClient = c
		}
	}
}

// NewLoader builds a Loader. Without options selection is unseeded and diagnostics are dropped.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logf:       func(string, ...any) {},
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Parse splits raw text into header-keyed records. Short rows leave trailing keys absent.
func Parse(raw string) ([]SampleRecord, error) {
	lines := strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' })
	if len(lines) < 2 {
		return nil, ErrEmptyDataset
	}
	header := strings.Split(lines[0], ",")
	for i := range header {
		header[i] = norm.NFC.String(strings.TrimSpace(header[i]))
	}
	rows := make([]SampleRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		rec := make(SampleRecord, len(header))
		for i, h := range header {
			if i >= len(values) {
				break
			}
			rec[h] = strings.TrimSpace(values[i])
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// Load parses raw and keeps one randomly chosen record per distinct City,
// in the order cities were first seen. Rows without a City are skipped.
func (l *Loader) Load(raw string) ([]SampleRecord, error) {
	rows, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	var order []string
	groups := make(map[string][]SampleRecord)
	for _, rec := range rows {
		city := norm.NFC.String(rec.City())
		if city == "" {
			continue
		}
		if _, seen := groups[city]; !seen {
			order = append(order, city)
		}
		groups[city] = append(groups[city], rec)
	}
	out := make([]SampleRecord, 0, len(order))
	for _, city := range order {
		members := groups[city]
		out = append(out, members[l.rng.IntN(len(members))])
	}
	return out, nil
}

// Samples fetches the dataset at source and loads it. Every failure is logged
// and yields an empty slice; callers never see a partial result.
func (l *Loader) Samples(ctx context.Context, source string) []SampleRecord {
	raw, err := Fetch(ctx, l.httpClient, source)
	if err != nil {
		l.logf("load samples from %s: %v", source, err)
		return []SampleRecord{}
	}
	samples, err := l.Load(raw)
	if err != nil {
		l.logf("load samples from %s: %v", source, err)
		return []SampleRecord{}
	}
	return samples
}

// Find returns the sample whose City equals name, ignoring case.
func Find(samples []SampleRecord, name string) (SampleRecord, int, bool) {
	want := norm.NFC.String(strings.TrimSpace(name))
	for i, s := range samples {
		if strings.EqualFold(norm.NFC.String(s.City()), want) {
			return s, i, true
		}
	}
	return nil, -1, false
}

// errorf keeps wrapping uniform across fetch paths.
func errorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
