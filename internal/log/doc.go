// Package log provides logging for nriscan with automatic sanitization of
// session-identifying values, built on top of the standard slog package.
//
// A stealth crawl run carries material that must never land in shared logs:
// the WordPress session cookie when a run is authenticated, and the
// per-session fingerprint (user-agent, viewport) that makes a crawl
// linkable across runs. The SecureHandler masks cookie and credential
// attributes before they reach the underlying handler, even in verbose mode.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
