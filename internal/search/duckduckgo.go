package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/go2web/go2web/internal/extract"
)

const defaultHost = "html.duckduckgo.com"

// DuckDuckGo scrapes the html.duckduckgo.com results page. Result anchors
// carry the result__url / result__title class markers; when a page has none,
// the provider falls back to scanning extracted text for http(s) links.
type DuckDuckGo struct {
	Host    string // defaults to html.duckduckgo.com
	Fetcher Fetcher
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// QueryPath builds the percent-encoded search path for query.
func QueryPath(query string) string {
	return "/html/?q=" + url.QueryEscape(query)
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if limit <= 0 {
		limit = 10
	}
	host := d.Host
	if host == "" {
		host = defaultHost
	}
	body, err := d.Fetcher.Fetch(ctx, host, QueryPath(query))
	if err != nil {
		return nil, err
	}
	results := ParseResults(body, limit)
	if len(results) == 0 {
		results = ScanLinks(extract.FromHTML(body).Text, limit)
	}
	return results, nil
}

// ParseResults walks the result page and collects anchors carrying the
// result class markers, in document order, unique by URL, truncated to
// limit.
func ParseResults(page []byte, limit int) []Result {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil
	}
	seen := map[string]bool{}
	var out []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(out) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			class := attrValue(n, "class")
			if strings.Contains(class, "result__url") || strings.Contains(class, "result__title") {
				u := cleanHref(attrValue(n, "href"))
				if u != "" && !seen[u] {
					seen[u] = true
					title := strings.TrimSpace(collapseWhitespace(textContent(n)))
					if title == "" {
						title = u
					}
					out = append(out, Result{Title: title, URL: u})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// ScanLinks scans extracted plain text for http(s):// tokens. Fallback for
// result pages without recognizable anchors.
func ScanLinks(text string, limit int) []Result {
	seen := map[string]bool{}
	var out []Result
	for _, line := range strings.Split(text, "\n") {
		for _, field := range strings.Fields(line) {
			if !strings.HasPrefix(field, "http://") && !strings.HasPrefix(field, "https://") {
				continue
			}
			u := strings.TrimRight(field, ".,;:)\"'")
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, Result{Title: u, URL: u})
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// cleanHref normalizes a result anchor's href. Protocol-relative links get
// an https scheme; everything else passes through trimmed.
func cleanHref(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
