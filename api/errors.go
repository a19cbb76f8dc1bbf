package api

import (
	"errors"
	"fmt"
)

// APIError is the single error shape produced by the client for failed calls.
// Status is the HTTP status code, or 0 when the request never got a response.
type APIError struct {
	Status  int
	Message string
	Details any

	cause error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Message returns the text a user should see for err: the API message when
// err carries one, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
