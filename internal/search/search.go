package search

import "context"

// Result is a single search hit from any provider.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// Fetcher issues one plaintext GET against a host and returns the response
// body. The fetch client satisfies it; tests substitute canned pages.
type Fetcher interface {
	Fetch(ctx context.Context, host, path string) ([]byte, error)
}
