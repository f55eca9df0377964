package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure categories a run can end with.
var (
	// ErrInvalidSource means the input URL failed host/path validation
	// before any network call was made.
	ErrInvalidSource = errors.New("not a valid vendor catalog URL")

	// ErrNotFound means the vehicle id could not be resolved, or every
	// extraction strategy came back with zero products.
	ErrNotFound = errors.New("not found")
)

// FetchError wraps a single strategy's or detail request's network/HTTP
// failure. It is always absorbed by the owning component: a strategy
// failure triggers fallback, an enrichment failure skips the item.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps a failure to interpret a retrieved payload.
type ParseError struct {
	URL  string
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (%s): %v", e.URL, e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExportError wraps a failure to render or persist output. Unlike fetch
// and parse errors it terminates the run.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error (%s): %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
