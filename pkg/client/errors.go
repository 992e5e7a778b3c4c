package client

import "errors"

var (
	// ErrSaveFailed is returned when the server rejects a save batch
	ErrSaveFailed = errors.New("save failed")

	// ErrRequestFailed is returned for any other non-success response
	ErrRequestFailed = errors.New("request failed")

	// ErrNetworkError is returned when the server cannot be reached
	ErrNetworkError = errors.New("network error")

	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid client config")
)

// ResponseError carries the server's message verbatim so it can be shown
// to the editor as is.
type ResponseError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *ResponseError) Error() string {
	return e.Message
}

func (e *ResponseError) Unwrap() error {
	return e.kind
}
