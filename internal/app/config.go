package app

import "time"

// Config holds runtime configuration for the tool. Process-wide settings
// (user agent, timeouts, cache location and TTL) are explicit values passed
// into the components at construction time so tests can inject temporary
// directories and fake clocks.
type Config struct {
	UserAgent string
	// Timeout bounds each TCP exchange, dial through final read.
	Timeout time.Duration
	// MaxHops caps redirect following.
	MaxHops int

	CacheDir string
	CacheTTL time.Duration
	// NoCache bypasses lookup and store entirely.
	NoCache bool

	// SearchHost overrides the search provider host, mainly for tests.
	SearchHost string

	// PDFPath, when set, additionally renders the fetched page to a PDF.
	PDFPath string

	// Optional LLM summary of the fetched page.
	Summarize  bool
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	Verbose bool
}
