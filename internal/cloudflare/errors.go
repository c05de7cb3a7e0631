package cloudflare

import (
	"encoding/json"
	"fmt"
)

// APIError is returned when the API was reached but rejected the request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError is returned when no usable response was obtained: network
// or DNS failure, cancellation, or a body that is not JSON.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// envelope is the Cloudflare response convention shared by every endpoint.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// newAPIError builds an APIError from the first errors[].message in the body,
// or fallback when none is present.
func newAPIError(res *Result, fallback string) *APIError {
	msg := fallback
	var env envelope
	if err := res.Decode(&env); err == nil && len(env.Errors) > 0 && env.Errors[0].Message != "" {
		msg = env.Errors[0].Message
	}
	return &APIError{StatusCode: res.StatusCode, Message: msg}
}

// decodeResult unmarshals the body's result member into v.
// A missing or null result leaves v untouched.
func decodeResult(res *Result, v any) error {
	var env envelope
	if err := res.Decode(&env); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}
	if isNull(env.Result) {
		return nil
	}
	if err := json.Unmarshal(env.Result, v); err != nil {
		return fmt.Errorf("unexpected result shape: %w", err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
