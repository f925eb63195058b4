package predict

import "fmt"

// Kind classifies why a prediction run failed.
type Kind int

const (
	// KindBackendUnavailable means the liveness probe failed.
	KindBackendUnavailable Kind = iota + 1
	// KindPredictionRejected means the service answered the predict call with a non-2xx status.
	KindPredictionRejected
	// KindMalformedResponse means a 2xx predict response could not be decoded.
	KindMalformedResponse
	// KindNetworkError means the predict call failed at the transport level.
	KindNetworkError
)

func (k Kind) String() string {
	switch k {
	case KindBackendUnavailable:
		return "backend_unavailable"
	case KindPredictionRejected:
		return "prediction_rejected"
	case KindMalformedResponse:
		return "malformed_response"
	case KindNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// User-facing failure messages.
const (
	MsgBackendUnavailable = "Backend server is not responding"
	MsgPredictionFailed   = "Prediction failed"
	MsgNetworkError       = "Failed to connect to the prediction server. Please try again."
)

// Failure is a classified prediction failure. Message is safe to display.
type Failure struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (f *Failure) Error() string {
	if f == nil {
		return "prediction failure"
	}
	return f.Message
}

// Unwrap exposes the transport or decode error behind the failure, if any.
func (f *Failure) Unwrap() error { return f.Err }

// Detail renders the failure with its cause for debug output.
func (f *Failure) Detail() string {
	if f == nil {
		return ""
	}
	s := fmt.Sprintf("%s: %s", f.Kind, f.Message)
	if f.StatusCode != 0 {
		s += fmt.Sprintf(" (status=%d)", f.StatusCode)
	}
	if f.Err != nil {
		s += fmt.Sprintf(": %v", f.Err)
	}
	return s
}

// APIError represents a non-2xx answer from a catalog endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Raw        map[string]any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status=%d", e.StatusCode)
}

// UnreachableError indicates the service could not be reached at all.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.Host != "" {
		return fmt.Sprintf("endpoint unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("endpoint unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
