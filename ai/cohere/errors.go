package cohere

import (
	"errors"
	"fmt"
)

// ErrAPIKeyRequired is returned when a client is constructed without an
// API key.
var ErrAPIKeyRequired = errors.New("cohere: API key required")

// APIError is a non-200 response from the Cohere API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cohere: API error %d: %s", e.StatusCode, e.Message)
}
