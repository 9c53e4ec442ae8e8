package lnmarkets

import "fmt"

// APIError is returned when the API answers with a non-2xx status.
// It is not retried automatically; retry policy belongs to the caller.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lnmarkets: api returned status %d: %s", e.StatusCode, e.Body)
}

// NetworkError is returned on transport-level failures (DNS, timeout,
// connection reset) before any HTTP status was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("lnmarkets: request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
