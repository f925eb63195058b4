package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is where the prediction service listens by default.
const DefaultBaseURL = "http://localhost:5000/api"

// maxResponseBytes bounds how much of a prediction response is read.
const maxResponseBytes = 1 << 20

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Phase is a step of a prediction run.
type Phase int

const (
	PhaseProbing Phase = iota
	PhasePredicting
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseProbing:
		return "probing"
	case PhasePredicting:
		return "predicting"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result is the prediction service's success payload, passed through as-is.
type Result struct {
	Prediction   *float64           `json:"prediction"`
	AQICategory  string             `json:"aqi_category"`
	ModelUsed    string             `json:"model_used"`
	FeaturesUsed map[string]float64 `json:"features_used,omitempty"`
}

// Outcome is the result of one Run: exactly one of Result or Failure is set.
type Outcome struct {
	Result    *Result
	Failure   *Failure
	RequestID string
}

// OK reports whether the run produced a prediction.
func (o Outcome) OK() bool { return o.Failure == nil && o.Result != nil }

// Err returns the failure as an error, or nil on success.
func (o Outcome) Err() error {
	if o.Failure == nil {
		return nil
	}
	return o.Failure
}

type predictRequest struct {
	Features  map[string]float64 `json:"features"`
	ModelType string             `json:"model_type,omitempty"`
}

// Client talks to the prediction service.
type Client struct {
	doer      Doer
	baseURL   string
	modelType string
	onPhase   func(Phase)
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport.
func WithTransport(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithModelType asks the service for a specific model (e.g. random_forest, lstm).
func WithModelType(id string) Option {
	return func(c *Client) { c.modelType = strings.TrimSpace(id) }
}

// WithPhaseHook registers a callback invoked on every phase entered by Run.
func WithPhaseHook(fn func(Phase)) Option {
	return func(c *Client) { c.onPhase = fn }
}

// NewClient creates a client for baseURL (e.g. http://localhost:5000/api).
func NewClient(baseURL string, httpTimeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpTimeout <= 0 {
		httpTimeout = 30 * time.Second
	}
	c := &Client{
		doer:    &http.Client{Timeout: httpTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		onPhase: func(Phase) {},
	}
	for _, o := range opts {
		o(c)
	}
	if c.onPhase == nil {
		c.onPhase = func(Phase) {}
	}
	return c
}

// BaseURL returns the service root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Health probes GET {base}/health. Any 2xx means the service is up.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.doer.Do(req)
	if err != nil {
		return &UnreachableError{Host: c.baseURL, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: "health check failed"}
	}
	return nil
}

// Run probes the service and, only if it is up, requests a prediction for
// features. Every failure is classified; nothing is retried.
func (c *Client) Run(ctx context.Context, features map[string]float64) Outcome {
	out := Outcome{RequestID: uuid.NewString()}
	phase := PhaseProbing
	for phase != PhaseDone {
		c.onPhase(phase)
		switch phase {
		case PhaseProbing:
			if err := c.Health(ctx); err != nil {
				out.Failure = &Failure{Kind: KindBackendUnavailable, Message: MsgBackendUnavailable, Err: err}
				phase = PhaseDone
				continue
			}
			phase = PhasePredicting
		case PhasePredicting:
			out.Result, out.Failure = c.predict(ctx, features, out.RequestID)
			phase = PhaseDone
		}
	}
	c.onPhase(PhaseDone)
	return out
}

func (c *Client) predict(ctx context.Context, features map[string]float64, requestID string) (*Result, *Failure) {
	networkFailure := func(err error) *Failure {
		return &Failure{Kind: KindNetworkError, Message: MsgNetworkError, Err: err}
	}
	if features == nil {
		features = map[string]float64{}
	}
	payload, err := json.Marshal(predictRequest{Features: features, ModelType: c.modelType})
	if err != nil {
		return nil, networkFailure(fmt.Errorf("marshal request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, networkFailure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, networkFailure(&UnreachableError{Host: c.baseURL, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		msg := MsgPredictionFailed
		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err == nil {
			if s, ok := raw["error"].(string); ok && s != "" {
				msg = s
			}
		}
		return nil, &Failure{
			Kind:       KindPredictionRejected,
			Message:    msg,
			StatusCode: resp.StatusCode,
			Err:        &APIError{StatusCode: resp.StatusCode, Message: msg, Raw: raw},
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, networkFailure(fmt.Errorf("read response: %w", err))
	}
	// Unmarshal rejects trailing data after the top-level value.
	var res *Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &Failure{Kind: KindMalformedResponse, Message: err.Error(), StatusCode: resp.StatusCode, Err: err}
	}
	if res == nil {
		err := errors.New("response body is null")
		return nil, &Failure{Kind: KindMalformedResponse, Message: err.Error(), StatusCode: resp.StatusCode, Err: err}
	}
	return res, nil
}
