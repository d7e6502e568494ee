package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the pacing the target site tolerates in practice;
// lowering the delays risks tripping the site's rate heuristics.
const (
	// DefaultBaseURL is the news site this tool targets. The crawler is
	// deliberately single-site: evasion tuning is site-specific.
	DefaultBaseURL = "https://www.nrinow.news"

	// DefaultTimeout is the per-request page-load timeout. The site sits
	// behind a challenge layer that can hold a connection for several
	// seconds before serving content, so this is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxArticles caps how many articles one run fetches.
	DefaultMaxArticles = 5

	// DefaultMaxPages caps how many search result pages are consulted.
	// Popular search terms on the site span 10+ pages of ~7 results each.
	DefaultMaxPages = 15

	// DefaultPageDelayMin is the mandatory minimum pause between discovery
	// page fetches. The timing policy adds jitter on top of this floor.
	DefaultPageDelayMin = 2 * time.Second

	// DefaultArticleDelayMin is the mandatory minimum pause between
	// article fetches. Larger than the page delay: article loads are the
	// bulk of the traffic and pace the whole run.
	DefaultArticleDelayMin = 3 * time.Second

	// DefaultRetryAttempts is the retry cap for transient failures
	// (timeouts, navigation errors, challenge pages).
	DefaultRetryAttempts = 3

	// AppName is the application name used for XDG directory paths.
	AppName = "nriscan"
)

// Browser mode names accepted by the --mode flag.
// Visible and minimized render a real window and have the highest bypass
// reliability; headless is documented as lower-reliability against this
// target's bot detection. The controller never falls back between modes.
const (
	ModeVisible   = "visible"
	ModeMinimized = "minimized"
	ModeHeadless  = "headless"
)

// Config holds all configuration options for nriscan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., BrowserConfig, CrawlConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// BaseURL is the root URL of the target site.
	BaseURL string

	// Mode selects the browser mode: visible, minimized, or headless.
	// The caller selects one mode for the whole run; there is no fallback.
	Mode string

	// Keyword, when non-empty, switches discovery to search mode.
	// Empty means listing mode.
	Keyword string

	// ArticleURL, when non-empty, skips discovery entirely and fetches
	// the single given article.
	ArticleURL string

	// MaxArticles is the hard cap on articles fetched per run.
	MaxArticles int

	// MaxPages is the hard cap on search result pages consulted.
	// Only meaningful in search mode.
	MaxPages int

	// Timeout is the per-request page-load timeout.
	Timeout time.Duration

	// PageDelayMin is the minimum pause between discovery page fetches.
	// This is a lower bound the retry policy must also respect.
	PageDelayMin time.Duration

	// ArticleDelayMin is the minimum pause between article fetches.
	ArticleDelayMin time.Duration

	// RetryAttempts is the retry cap for transient fetch failures.
	RetryAttempts int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON output of the article records.
	// Mutually exclusive with CSVReport and MarkdownReport.
	JSONReport bool

	// CSVReport enables CSV output of the article records.
	CSVReport bool

	// MarkdownReport enables Markdown output of the article records.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// DBDir is the directory for the SQLite crawl database. When set,
	// records are persisted and already-captured URLs are skipped on
	// later runs. Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to persist records to the database.
	SaveToDB bool

	// Refetch disables the seen-URL skip, so articles captured by
	// earlier runs are fetched again.
	Refetch bool

	// ProfilePath is the path to the YAML site profile (selectors and
	// evasion overrides). Empty means search the standard locations and
	// fall back to the built-in profile.
	ProfilePath string

	// Profile holds the loaded site profile.
	Profile *Profile
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
func NewConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Mode:            ModeMinimized,
		MaxArticles:     DefaultMaxArticles,
		MaxPages:        DefaultMaxPages,
		Timeout:         DefaultTimeout,
		PageDelayMin:    DefaultPageDelayMin,
		ArticleDelayMin: DefaultArticleDelayMin,
		RetryAttempts:   DefaultRetryAttempts,
		Profile:         DefaultProfile(),
	}
}

// XDGDataDir returns the XDG data directory for nriscan.
// On Linux: ~/.local/share/nriscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for nriscan.
// On Linux: ~/.config/nriscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before the browser is launched;
// launching Chrome just to discover a bad flag would waste seconds.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeVisible, ModeMinimized, ModeHeadless:
	default:
		return ErrUnknownMode
	}

	if c.MaxArticles <= 0 {
		return ErrInvalidMaxArticles
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.PageDelayMin < 0 || c.ArticleDelayMin < 0 {
		return ErrInvalidDelay
	}

	if c.RetryAttempts <= 0 {
		return ErrInvalidRetryAttempts
	}

	// A run is either a keyword search or a single URL, never both.
	if c.Keyword != "" && c.ArticleURL != "" {
		return ErrConflictingTargets
	}

	// Only one report format at a time.
	n := 0
	for _, set := range []bool{c.JSONReport, c.CSVReport, c.MarkdownReport} {
		if set {
			n++
		}
	}
	if n > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}
