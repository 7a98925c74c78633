package cmsadapter

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidConfig is returned when connection settings are incomplete.
var ErrInvalidConfig = errors.New("invalid cms config")

// APIError is a non-2xx response from a provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
