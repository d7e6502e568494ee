package browser

import (
	"errors"
	"fmt"
)

// ErrSessionClosed is returned when a primitive is called on a closed session.
var ErrSessionClosed = errors.New("browser session is closed")

// SetupError indicates the browser could not be initialized with the
// required anti-detection overrides. It is fatal: a session without the
// overrides would be detected on the first request, so the run aborts
// before any fetching.
type SetupError struct {
	// Reason describes which part of setup failed.
	Reason string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SetupError) Error() string {
	return fmt.Sprintf("evasion setup failed (%s): %v", e.Reason, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *SetupError) Unwrap() error {
	return e.Err
}

// NavigationError indicates a page failed to load: a timeout, a transport
// failure, or a non-content final status. It is transient and subject to
// the orchestrator's retry policy.
type NavigationError struct {
	// URL is the page that failed to load.
	URL string

	// Status is the final HTTP status, 0 when no response arrived.
	Status int64

	// Err is the underlying error, nil for pure status failures.
	Err error
}

// Error implements the error interface.
func (e *NavigationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("navigation to %s failed with status %d", e.URL, e.Status)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *NavigationError) Unwrap() error {
	return e.Err
}
