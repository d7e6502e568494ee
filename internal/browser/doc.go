// Package browser owns the single evasion-hardened Chrome session a crawl
// run drives. It exposes navigate/wait/execute-script primitives with
// human-like timing and applies anti-detection overrides before any page
// script runs.
//
// # Architecture
//
// The Session type wraps a chromedp browser context. One Session exists per
// run, owned exclusively by the crawl orchestrator; it is driven strictly
// sequentially and released on every exit path.
//
// Design decision: We build on chromedp rather than driving the DevTools
// protocol directly because:
//  1. It manages the Chrome process lifecycle (launch, attach, teardown)
//  2. Its allocator options map one-to-one onto the Chrome flags the
//     evasion profile needs
//  3. Script injection before document start (the core evasion mechanism)
//     is a single cdproto call away
//
// # Modes
//
// Visible and minimized modes render a real window (minimized keeps it
// off-screen, not headless) and achieve the highest bypass reliability
// against the target's protection layer. Headless skips window rendering
// and is documented as lower-reliability. The controller never falls back
// between modes; the caller selects one for the whole run.
//
// # Failure semantics
//
// Navigation and script-execution failures surface as typed errors. The
// Session never retries internally: retry and backoff live in the
// orchestrator so delay discipline stays centralized.
package browser
