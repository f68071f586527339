package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying invocation failures.
// Providers wrap these in ProviderError; callers should use errors.Is.
var (
	// ErrNoAPIKey indicates no API key is configured. Returned before
	// any network activity.
	ErrNoAPIKey = errors.New("api key not configured")

	// ErrToolNotInvoked indicates the provider responded but did not
	// call the expected tool. Retry-eligible.
	ErrToolNotInvoked = errors.New("tool not invoked")

	// ErrMalformedResponse indicates the response JSON violates the
	// expected envelope shape. Non-retryable.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrOverloaded indicates a transient provider capacity condition.
	// Retry-eligible with backoff.
	ErrOverloaded = errors.New("provider overloaded")

	// ErrUnauthorized indicates an authentication or permission failure.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadRequest indicates the provider rejected the request.
	ErrBadRequest = errors.New("bad request")

	// ErrServer indicates a non-overload provider-side failure.
	ErrServer = errors.New("provider server error")

	// ErrNetwork indicates a network-level failure (timeout, DNS,
	// connection reset).
	ErrNetwork = errors.New("network error")

	// ErrDecode indicates a response body could not be decoded.
	ErrDecode = errors.New("decode error")

	// ErrExhausted indicates the retry budget was consumed without
	// success.
	ErrExhausted = errors.New("retry budget exhausted")
)

// ProviderError carries provider-specific failure context for one HTTP
// attempt. Err wraps one of the sentinel errors above so callers can
// classify with errors.Is without parsing messages.
type ProviderError struct {
	Provider string
	Status   int
	Code     string
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (status %d, code %q)", e.Provider, e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Unwrap returns the sentinel error for errors.Is checks.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ReasonCode is the provider-agnostic failure classification exposed to
// callers at the Invoke boundary.
type ReasonCode string

const (
	ReasonPrecondition ReasonCode = "precondition"
	ReasonToolMiss     ReasonCode = "tool_not_invoked"
	ReasonOverloaded   ReasonCode = "overloaded"
	ReasonTransport    ReasonCode = "transport"
	ReasonMalformed    ReasonCode = "malformed_response"
	ReasonExhausted    ReasonCode = "exhausted"
)

// InvocationFailure is the single failure type returned by Invoke.
// All underlying failure classes collapse into it; Reason and Attempts
// give callers enough to log and surface a user-facing message.
type InvocationFailure struct {
	Reason   ReasonCode
	Message  string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (f *InvocationFailure) Error() string {
	return fmt.Sprintf("invocation failed (%s after %d attempt(s)): %s", f.Reason, f.Attempts, f.Message)
}

// Unwrap returns the underlying cause, which may itself wrap a sentinel.
func (f *InvocationFailure) Unwrap() error {
	return f.Err
}

// failure builds an InvocationFailure from an underlying error.
func failure(reason ReasonCode, attempts int, err error) *InvocationFailure {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &InvocationFailure{
		Reason:   reason,
		Message:  msg,
		Attempts: attempts,
		Err:      err,
	}
}

// reasonFor classifies an attempt-level error into a ReasonCode.
func reasonFor(err error) ReasonCode {
	switch {
	case errors.Is(err, ErrToolNotInvoked):
		return ReasonToolMiss
	case errors.Is(err, ErrOverloaded):
		return ReasonOverloaded
	case errors.Is(err, ErrMalformedResponse):
		return ReasonMalformed
	default:
		return ReasonTransport
	}
}
