package browser

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/nriscan/nriscan/internal/config"
)

// Fingerprint holds the per-session randomized identity. One fingerprint
// is chosen when the session opens and held for the whole run: changing
// mid-run would itself be a detection signal.
type Fingerprint struct {
	// UserAgent is the user-agent string for this session.
	UserAgent string

	// Width and Height are the viewport dimensions.
	Width  int
	Height int
}

// randomFingerprint draws a fingerprint from the evasion profile's ranges.
// The pool and ranges stay inside what real desktop Chrome installs report;
// an exotic viewport is as identifying as the webdriver flag.
func randomFingerprint(rng *rand.Rand, ev config.Evasion) Fingerprint {
	fp := Fingerprint{
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		Width:     1366,
		Height:    768,
	}

	if len(ev.UserAgents) > 0 {
		fp.UserAgent = ev.UserAgents[rng.Intn(len(ev.UserAgents))]
	}
	if ev.ViewportMaxWidth > ev.ViewportMinWidth && ev.ViewportMinWidth > 0 {
		fp.Width = ev.ViewportMinWidth + rng.Intn(ev.ViewportMaxWidth-ev.ViewportMinWidth+1)
	}
	if ev.ViewportMaxHeight > ev.ViewportMinHeight && ev.ViewportMinHeight > 0 {
		fp.Height = ev.ViewportMinHeight + rng.Intn(ev.ViewportMaxHeight-ev.ViewportMinHeight+1)
	}

	return fp
}

// allocatorOptions builds the Chrome launch flags for a mode and fingerprint.
//
// Design decision: The flag set follows what reliably passes the target's
// protection layer in practice:
//  1. disable-blink-features=AutomationControlled removes the primary
//     automation marker before any page loads
//  2. Headless uses the "new" headless mode, whose fingerprint is much
//     closer to headful Chrome than the legacy one
//  3. Minimized mode positions a real window far off-screen rather than
//     using headless, because the target scores headless sessions higher
func allocatorOptions(mode Mode, fp Fingerprint) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.UserAgent(fp.UserAgent),
		chromedp.WindowSize(fp.Width, fp.Height),
	}

	switch mode {
	case ModeHeadless:
		opts = append(opts,
			chromedp.Flag("headless", "new"),
			chromedp.Flag("disable-gpu", true),
		)
	case ModeMinimized:
		// A real rendered window, parked where no one sees it.
		opts = append(opts,
			chromedp.Flag("headless", false),
			chromedp.Flag("window-position", "-32000,-32000"),
		)
	case ModeVisible:
		opts = append(opts,
			chromedp.Flag("headless", false),
			chromedp.Flag("window-position", "0,0"),
		)
	}

	return opts
}

// stealthScript assembles the document-start override script from the
// evasion profile. The overrides run before any page script, so the page
// never observes the unpatched values.
func stealthScript(ev config.Evasion) string {
	if len(ev.Scripts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("(() => {\n")
	for _, s := range ev.Scripts {
		// Each override is isolated: one failing spoof must not take
		// down the rest of the profile.
		fmt.Fprintf(&b, "try { %s; } catch (e) {}\n", s)
	}
	b.WriteString("})();")

	return b.String()
}

// scrollScript returns a script scrolling the viewport to the given
// fraction of the document height.
func scrollScript(fraction float64) string {
	return fmt.Sprintf("window.scrollTo(0, document.body.scrollHeight * %.2f);", fraction)
}
