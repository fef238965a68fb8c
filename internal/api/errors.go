package api

import "fmt"

// AuthError means no valid bearer token could be obtained for a
// protected call. The request was refused client-side and never sent.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "authentication required but token is missing"
	}
	return "authentication required: " + e.Reason
}

// HTTPError is a non-2xx response. Message carries the response body
// when present, otherwise the status line.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with %d", e.StatusCode)
}

// NetworkError is a transport-level failure before any response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
