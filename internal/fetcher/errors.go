package fetcher

import (
	"errors"
	"fmt"
)

// Common fetch errors
var (
	ErrInvalidPage = errors.New("page number must be >= 1")
	ErrNetwork     = errors.New("network error")
	ErrStatus      = errors.New("unexpected response status")
	ErrParse       = errors.New("failed to parse response")
)

// FetchError describes a failed page retrieval
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %s", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the failure kind
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrStatus:
		return e.StatusCode != 0
	case ErrNetwork:
		return e.StatusCode == 0 && !errors.Is(e.Err, ErrParse)
	}
	return false
}

// GetStatusCode returns the HTTP status that failed the fetch, or 0
func (e *FetchError) GetStatusCode() int {
	return e.StatusCode
}
