package browser

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/nriscan/nriscan/internal/config"
)

// Mode selects how the browser window is rendered.
type Mode int

// Browser modes.
const (
	// ModeVisible renders a normal on-screen window.
	ModeVisible Mode = iota

	// ModeMinimized renders a real window parked off-screen.
	// Highest bypass reliability without a visible window.
	ModeMinimized

	// ModeHeadless never renders a window. Lower reliability against
	// this target's bot detection; kept for CI and constrained hosts.
	ModeHeadless
)

// String returns the mode's flag-level name.
func (m Mode) String() string {
	switch m {
	case ModeVisible:
		return config.ModeVisible
	case ModeMinimized:
		return config.ModeMinimized
	case ModeHeadless:
		return config.ModeHeadless
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name from configuration into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case config.ModeVisible:
		return ModeVisible, nil
	case config.ModeMinimized:
		return ModeMinimized, nil
	case config.ModeHeadless:
		return ModeHeadless, nil
	default:
		return 0, fmt.Errorf("unknown browser mode %q", s)
	}
}

// Session is a live evasion-hardened browser instance.
//
// A Session is owned exclusively by the crawl orchestrator for the lifetime
// of one run and driven strictly sequentially; it is not safe for
// concurrent use and does not need to be.
type Session struct {
	// mode is the window mode selected for the whole run.
	mode Mode

	// fp is the per-session randomized fingerprint.
	fp Fingerprint

	// timing produces human-like pauses between actions.
	timing TimingPolicy

	// timeout bounds each navigation and script execution.
	timeout time.Duration

	// logger for structured logging.
	logger *slog.Logger

	// rng drives interaction randomization (scroll depths, mouse targets).
	rng *rand.Rand

	// ctx is the chromedp browser context; cancel tears down the tab,
	// allocCancel tears down the Chrome process.
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	// requests counts navigations, monotonically increasing. Feeds the
	// timing policy so jitter varies over the session.
	requests int64

	closed bool
}

// Option configures a Session.
type Option func(*sessionSettings)

// sessionSettings collects pre-open configuration.
type sessionSettings struct {
	evasion config.Evasion
	timing  TimingPolicy
	timeout time.Duration
	logger  *slog.Logger
	seed    int64
}

// WithEvasion sets the evasion profile. Defaults to the built-in profile.
func WithEvasion(ev config.Evasion) Option {
	return func(s *sessionSettings) {
		s.evasion = ev
	}
}

// WithTiming sets the timing policy. Defaults to NewHumanTiming.
func WithTiming(p TimingPolicy) Option {
	return func(s *sessionSettings) {
		s.timing = p
	}
}

// WithTimeout sets the per-navigation timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *sessionSettings) {
		s.timeout = d
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *sessionSettings) {
		s.logger = logger
	}
}

// Open launches Chrome in the given mode with the evasion profile applied.
//
// The document-start overrides are registered before the first navigation,
// so no page script ever observes the unpatched navigator. If any part of
// setup fails, Open returns a *SetupError and no browser process is leaked.
//
// There is no fallback between modes: if the requested mode cannot start,
// the error surfaces to the caller.
func Open(ctx context.Context, mode Mode, opts ...Option) (*Session, error) {
	settings := &sessionSettings{
		evasion: config.DefaultProfile().Evasion,
		timeout: config.DefaultTimeout,
		seed:    time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(settings)
	}
	if settings.timing == nil {
		settings.timing = NewHumanTiming()
	}
	if settings.logger == nil {
		settings.logger = slog.Default()
	}

	rng := rand.New(rand.NewSource(settings.seed)) //nolint:gosec // fingerprint variation, not cryptography
	fp := randomFingerprint(rng, settings.evasion)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(mode, fp)...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		mode:        mode,
		fp:          fp,
		timing:      settings.timing,
		timeout:     settings.timeout,
		logger:      settings.logger,
		rng:         rng,
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}

	// Register the overrides and start the browser in one shot. Using
	// AddScriptToEvaluateOnNewDocument guarantees the spoofs run before
	// any page script on every navigation, not just the first.
	script := stealthScript(settings.evasion)
	err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		if script == "" {
			return nil
		}
		_, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx)
		return err
	}))
	if err != nil {
		s.release()
		return nil, &SetupError{Reason: "document-start overrides", Err: err}
	}

	s.logger.Debug("browser session opened",
		"mode", mode.String(),
		"viewport", fmt.Sprintf("%dx%d", fp.Width, fp.Height),
	)

	return s, nil
}

// Mode returns the mode the session was opened in.
func (s *Session) Mode() Mode { return s.mode }

// Fingerprint returns the session's randomized fingerprint.
func (s *Session) Fingerprint() Fingerprint { return s.fp }

// Requests returns the number of navigations performed so far.
func (s *Session) Requests() int64 { return s.requests }

// Navigate loads a URL and waits out the human-like settle pause.
// It returns a *NavigationError on timeout, transport failure, or a
// non-2xx final status. Redirects Chrome follows resolve to their final
// response; a 3xx as the final status means the redirect went nowhere.
// Challenge pages served with status 200 are not detected here; that is
// a content-level concern handled by the caller.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.requests++

	navCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	resp, err := chromedp.RunResponse(navCtx, chromedp.Navigate(url))
	if err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	if resp != nil && !statusOK(resp.Status) {
		return &NavigationError{URL: url, Status: resp.Status}
	}

	return s.pause(ctx, ActionSettle)
}

// statusOK reports whether a final navigation status counts as success.
func statusOK(status int64) bool {
	return status >= 200 && status < 300
}

// WaitReady polls until the selector is present in the DOM or the timeout
// expires. Returns false on expiry; expiry is not an error because partial
// pages are extracted best-effort.
func (s *Session) WaitReady(ctx context.Context, selector string, timeout time.Duration) bool {
	if s.closed {
		return false
	}

	waitCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	// Honor caller cancellation as well as the poll timeout.
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	}()

	select {
	case <-ctx.Done():
		cancel()
		<-done
		return false
	case err := <-done:
		return err == nil
	}
}

// HTML returns the full serialized DOM of the current page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	htmlCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	var out string
	if err := chromedp.Run(htmlCtx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture page HTML: %w", err)
	}
	return out, nil
}

// Evaluate runs a script in the page and unmarshals its result into out.
// Pass nil when the result is not needed.
func (s *Session) Evaluate(ctx context.Context, script string, out any) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	evalCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	if err := chromedp.Run(evalCtx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("script execution failed: %w", err)
	}
	return nil
}

// SimulateReading performs the randomized human-like interaction injected
// before extraction: incremental scrolls with jittered pauses and an
// occasional idle mouse movement. Depths vary per call so no two pages
// receive the same interaction trace.
func (s *Session) SimulateReading(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}

	depths := []float64{
		0.15 + s.rng.Float64()*0.2,
		0.45 + s.rng.Float64()*0.3,
		0,
	}

	for _, depth := range depths {
		if err := s.Evaluate(ctx, scrollScript(depth), nil); err != nil {
			return err
		}
		if err := s.pause(ctx, ActionScroll); err != nil {
			return err
		}
	}

	// Roughly every other page, drift the mouse somewhere harmless.
	if s.rng.Intn(2) == 0 {
		if err := s.moveMouse(ctx); err != nil {
			return err
		}
	}

	return nil
}

// moveMouse dispatches a mouse-move event to a random point inside the
// viewport.
func (s *Session) moveMouse(ctx context.Context) error {
	if err := s.pause(ctx, ActionMouse); err != nil {
		return err
	}

	x := float64(s.rng.Intn(s.fp.Width))
	y := float64(s.rng.Intn(s.fp.Height))

	moveCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	return chromedp.Run(moveCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
	}))
}

// pause sleeps for the timing policy's duration, honoring cancellation.
func (s *Session) pause(ctx context.Context, action Action) error {
	d := s.timing.Pause(action, s.requests)
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Close releases the browser. Safe to call more than once; the orchestrator
// defers it so a crash mid-run cannot leak the Chrome process.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.release()
	s.logger.Debug("browser session closed", "requests", s.requests)
}

// release tears down the tab and the Chrome process.
func (s *Session) release() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}
