package config

// Profile describes everything about the target site that was determined
// empirically and may change without notice: the CSS selectors the
// extractor relies on, the evasion overrides the browser session applies,
// and the content signatures that identify a challenge page.
//
// Design decision: The exact set of anti-bot signals this tool evades is
// discovered against a live third-party deployment. We therefore keep the
// signal list in a loadable profile rather than hard-coding it, so a theme
// update or a new detection heuristic is a config change, not a release.
type Profile struct {
	// Selectors are the CSS selectors used for discovery and extraction.
	Selectors Selectors `yaml:"selectors,omitempty"`

	// Evasion configures session-level anti-detection overrides.
	Evasion Evasion `yaml:"evasion,omitempty"`

	// ChallengeSignatures are lowercase substrings whose presence in a
	// page body marks it as a challenge/anti-bot response rather than
	// real content. Matching is content-based because the protection
	// layer serves challenges with a 200 status.
	ChallengeSignatures []string `yaml:"challenge_signatures,omitempty"`
}

// Selectors holds the CSS selectors for the site's theme.
// Fallback chains are ordered: the extractor tries each selector in turn
// and short-circuits on the first that yields content.
type Selectors struct {
	// Title selectors for the article headline, in fallback order.
	Title []string `yaml:"title,omitempty"`

	// Content selectors for the article body container, in fallback order.
	Content []string `yaml:"content,omitempty"`

	// Author selectors for the byline, in fallback order.
	Author []string `yaml:"author,omitempty"`

	// Date selectors for the publish date, in fallback order.
	Date []string `yaml:"date,omitempty"`

	// ResultTitle selects result headings on listing and search pages.
	ResultTitle string `yaml:"result_title,omitempty"`

	// MainContent selects the main content area of listing/search pages,
	// used to scope link harvesting away from navigation menus.
	MainContent string `yaml:"main_content,omitempty"`

	// PageNav selects the pagination block ("Page X of Y").
	PageNav string `yaml:"page_nav,omitempty"`

	// Comments selects the comment thread container.
	Comments string `yaml:"comments,omitempty"`

	// Exclude are subtrees removed from the body container before text
	// extraction: navigation, share widgets, ad slots. Exclusion is by
	// structural position, never by keyword filtering.
	Exclude []string `yaml:"exclude,omitempty"`
}

// Evasion configures the session-level anti-detection overrides.
type Evasion struct {
	// Scripts are JavaScript snippets evaluated on every new document
	// before any page script runs. They remove automation-detectable
	// signals such as navigator.webdriver.
	Scripts []string `yaml:"scripts,omitempty"`

	// UserAgents is the pool of user-agent strings to pick from per
	// session. All entries should be current desktop Chrome strings.
	UserAgents []string `yaml:"user_agents,omitempty"`

	// ViewportWidths and ViewportHeights bound the per-session randomized
	// viewport. Values outside common desktop resolutions are themselves
	// a fingerprinting signal, so the ranges are deliberately narrow.
	ViewportMinWidth  int `yaml:"viewport_min_width,omitempty"`
	ViewportMaxWidth  int `yaml:"viewport_max_width,omitempty"`
	ViewportMinHeight int `yaml:"viewport_min_height,omitempty"`
	ViewportMaxHeight int `yaml:"viewport_max_height,omitempty"`
}

// DefaultProfile returns the built-in profile for the target site's
// current theme (a tagDiv Newspaper WordPress theme) and protection layer.
func DefaultProfile() *Profile {
	return &Profile{
		Selectors: Selectors{
			Title: []string{
				"h1.entry-title",
				".td-post-title h1",
				"h1.td-page-title",
			},
			Content: []string{
				".pf-content",
				".td-post-content",
				".entry-content",
				".post-content",
				"article",
			},
			Author: []string{
				".td-post-author-name a",
				".author-name",
				"span.author",
			},
			Date: []string{
				"time.entry-date",
				".td-post-date time",
				"span.td-post-date",
			},
			ResultTitle: "h3.entry-title a",
			MainContent: ".td-main-content-wrap",
			PageNav:     ".page-nav",
			Comments:    "div#comments",
			Exclude: []string{
				"script", "style", "nav", "aside",
				".sharedaddy", ".jp-relatedposts",
				".td-post-sharing", ".td-post-next-prev",
				".printfriendly", ".code-block",
			},
		},
		Evasion: Evasion{
			Scripts: []string{
				`Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`,
				`Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3, 4, 5]})`,
				`Object.defineProperty(navigator, 'languages', {get: () => ['en-US', 'en']})`,
				`window.chrome = window.chrome || { runtime: {} }`,
				`Object.defineProperty(navigator, 'permissions', {get: () => ({ query: () => Promise.resolve({ state: 'granted' }) })})`,
			},
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
				"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			},
			ViewportMinWidth:  1280,
			ViewportMaxWidth:  1920,
			ViewportMinHeight: 800,
			ViewportMaxHeight: 1080,
		},
		ChallengeSignatures: []string{
			"verify you are human",
			"checking your browser",
			"cloudflare",
			"access denied",
			"challenge-platform",
		},
	}
}

// Merge overlays non-empty fields of other onto p and returns p.
// Used to apply a user profile file on top of the built-in defaults, so a
// profile only needs to state what differs.
func (p *Profile) Merge(other *Profile) *Profile {
	if other == nil {
		return p
	}

	s := &p.Selectors
	o := other.Selectors
	if len(o.Title) > 0 {
		s.Title = o.Title
	}
	if len(o.Content) > 0 {
		s.Content = o.Content
	}
	if len(o.Author) > 0 {
		s.Author = o.Author
	}
	if len(o.Date) > 0 {
		s.Date = o.Date
	}
	if o.ResultTitle != "" {
		s.ResultTitle = o.ResultTitle
	}
	if o.MainContent != "" {
		s.MainContent = o.MainContent
	}
	if o.PageNav != "" {
		s.PageNav = o.PageNav
	}
	if o.Comments != "" {
		s.Comments = o.Comments
	}
	if len(o.Exclude) > 0 {
		s.Exclude = o.Exclude
	}

	e := &p.Evasion
	oe := other.Evasion
	if len(oe.Scripts) > 0 {
		e.Scripts = oe.Scripts
	}
	if len(oe.UserAgents) > 0 {
		e.UserAgents = oe.UserAgents
	}
	if oe.ViewportMinWidth > 0 {
		e.ViewportMinWidth = oe.ViewportMinWidth
	}
	if oe.ViewportMaxWidth > 0 {
		e.ViewportMaxWidth = oe.ViewportMaxWidth
	}
	if oe.ViewportMinHeight > 0 {
		e.ViewportMinHeight = oe.ViewportMinHeight
	}
	if oe.ViewportMaxHeight > 0 {
		e.ViewportMaxHeight = oe.ViewportMaxHeight
	}

	if len(other.ChallengeSignatures) > 0 {
		p.ChallengeSignatures = other.ChallengeSignatures
	}

	return p
}
