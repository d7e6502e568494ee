package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrUnknownMode is returned when the browser mode is not one of
	// visible, minimized, or headless. There is no fallback between modes,
	// so an unknown mode cannot be silently corrected.
	ErrUnknownMode = errors.New("unknown browser mode: must be visible, minimized, or headless")

	// ErrInvalidMaxArticles is returned when the article cap is not positive.
	// A cap of zero would mean a run that fetches nothing.
	ErrInvalidMaxArticles = errors.New("invalid max articles: must be positive")

	// ErrInvalidMaxPages is returned when the search page cap is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidTimeout is returned when the page-load timeout is not positive.
	// A zero timeout would fail every navigation immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when an inter-request delay is negative.
	// Use 0 to disable a delay floor (not recommended against this target).
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidRetryAttempts is returned when the retry cap is not positive.
	ErrInvalidRetryAttempts = errors.New("invalid retry attempts: must be positive")

	// ErrConflictingTargets is returned when both --search and --url are
	// specified. A run fetches either search results or one explicit URL.
	ErrConflictingTargets = errors.New("conflicting targets: --search and --url cannot be used together")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --csv, and --markdown is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: only one of --json, --csv, --markdown may be used")
)
