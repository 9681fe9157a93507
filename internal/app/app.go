package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/go2web/go2web/internal/cache"
	"github.com/go2web/go2web/internal/extract"
	"github.com/go2web/go2web/internal/fetch"
	"github.com/go2web/go2web/internal/search"
	"github.com/go2web/go2web/internal/summary"
)

// maxResults is how many search hits the tool shows.
const maxResults = 10

// App wires the cache, the fetch client, and the search provider behind the
// two user-facing operations: fetch a URL and search the web.
type App struct {
	cfg      Config
	log      zerolog.Logger
	client   *fetch.Client
	store    *cache.Store
	provider search.Provider

	// Summarizer is lazily constructed from the LLM config; tests may
	// replace it.
	Summarizer summary.Client
}

// New builds an App from cfg. All state the components need is injected
// here; nothing reads globals.
func New(cfg Config, log zerolog.Logger) *App {
	client := &fetch.Client{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		MaxHops:   cfg.MaxHops,
		Logger:    log,
	}
	a := &App{
		cfg:    cfg,
		log:    log,
		client: client,
		store:  &cache.Store{Dir: cfg.CacheDir, TTL: cfg.CacheTTL},
	}
	a.provider = &search.DuckDuckGo{Host: cfg.SearchHost, Fetcher: clientFetcher{client}}
	return a
}

// clientFetcher adapts the raw TCP client to the search provider's Fetch
// surface.
type clientFetcher struct {
	c *fetch.Client
}

func (f clientFetcher) Fetch(ctx context.Context, host, path string) ([]byte, error) {
	// host may carry an explicit port (stub providers in tests do).
	req, err := fetch.ParseURL(host + path)
	if err != nil {
		return nil, err
	}
	resp, err := f.c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Page is the user-visible result of fetching one URL.
type Page struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// FetchURL resolves, fetches, extracts, and caches one page. The cache is
// consulted first; on a miss the page is fetched over the wire, redirects
// and all, then stored. Cache failures are logged and never abort the fetch.
func (a *App) FetchURL(ctx context.Context, rawURL string) (Page, error) {
	req, err := fetch.ParseURL(rawURL)
	if err != nil {
		return Page{}, err
	}
	key := req.URL()

	if !a.cfg.NoCache {
		if page, ok := a.lookupPage(ctx, key); ok {
			a.log.Debug().Str("url", key).Msg("cache hit")
			return page, nil
		}
	}

	resp, err := a.client.Do(ctx, req)
	if err != nil {
		return Page{}, err
	}
	a.log.Debug().Str("url", key).Int("status", resp.StatusCode).Int("bytes", len(resp.Body)).Msg("fetched")

	doc := extract.FromHTML(decodeBody(resp))
	page := Page{Title: doc.Title, Text: doc.Text}

	if !a.cfg.NoCache {
		payload, err := json.Marshal(page)
		if err == nil {
			err = a.store.Save(ctx, key, payload)
		}
		if err != nil {
			// The fetched content is already in hand; a cache write failure
			// must not lose it.
			a.log.Warn().Err(err).Str("url", key).Msg("cache write failed")
		}
	}
	return page, nil
}

func (a *App) lookupPage(ctx context.Context, key string) (Page, bool) {
	payload, ok := a.store.Lookup(ctx, key)
	if !ok {
		return Page{}, false
	}
	var page Page
	if err := json.Unmarshal(payload, &page); err != nil {
		a.log.Warn().Err(err).Str("url", key).Msg("discarding unreadable cache entry")
		return Page{}, false
	}
	return page, true
}

// Search returns up to ten unique results for query, serving and storing
// them through the same cache as page fetches under a query-derived key.
func (a *App) Search(ctx context.Context, query string) ([]search.Result, error) {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	key := "search:" + query

	if !a.cfg.NoCache {
		if payload, ok := a.store.Lookup(ctx, key); ok {
			var results []search.Result
			if err := json.Unmarshal(payload, &results); err == nil {
				a.log.Debug().Str("query", query).Msg("cache hit")
				return results, nil
			}
		}
	}

	results, err := a.provider.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	if !a.cfg.NoCache {
		payload, err := json.Marshal(results)
		if err == nil {
			err = a.store.Save(ctx, key, payload)
		}
		if err != nil {
			a.log.Warn().Err(err).Str("query", query).Msg("cache write failed")
		}
	}
	return results, nil
}

// Summarize sends the page text to the configured model and returns the
// summary.
func (a *App) Summarize(ctx context.Context, page Page) (string, error) {
	if a.cfg.LLMModel == "" {
		return "", fmt.Errorf("llm model not configured")
	}
	if a.Summarizer == nil {
		a.Summarizer = summary.NewClient(a.cfg.LLMBaseURL, a.cfg.LLMAPIKey)
	}
	return summary.Summarize(ctx, a.Summarizer, a.cfg.LLMModel, page.Title, page.Text, 0)
}

// decodeBody converts the response body to UTF-8 using the declared
// Content-Type charset. Undeclared or unknown charsets pass through as-is.
func decodeBody(resp *fetch.RawResponse) []byte {
	r, err := charset.NewReader(bytes.NewReader(resp.Body), resp.Header("Content-Type"))
	if err != nil {
		return resp.Body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return resp.Body
	}
	return decoded
}
