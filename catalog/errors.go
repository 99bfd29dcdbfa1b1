package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors, test with errors.Is.
var (
	// ErrFetch indicates a catalog source could not be retrieved or parsed
	ErrFetch = errors.New("unable to fetch catalog source")
	// ErrStore indicates the catalog file could not be written
	ErrStore = errors.New("unable to store catalog")
)

// Error is returned by catalog operations touching the network or the
// cache file.
type Error struct {
	Kind Kind   // catalog the operation was working on
	Op   string // "fetch", "store" or "flush"
	Err  error  // underlying error, may combine several
}

func (e *Error) Error() string {
	return fmt.Sprintf("catalog %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPError represents an HTTP error response.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %s: %s", e.URL, e.Status)
}

// IsNotFound returns true if this is a 404 error.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == 404
}
