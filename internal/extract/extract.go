package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is the readable form of a fetched page.
type Document struct {
	Title string
	Text  string
}

// FromHTML converts an HTML body into normalized plain text. It walks the
// parse tree in document order, drops script/style regions entirely, turns
// block-level tags into line breaks, and strips everything else. The result
// carries no markup and no run of more than one blank line; running it
// through FromHTML again is a no-op.
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}

	title := strings.TrimSpace(findTitle(node))
	body := findFirst(node, "body")
	if body == nil {
		body = node
	}
	var b strings.Builder
	collectText(&b, body)
	return Document{Title: title, Text: normalize(b.String())}
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

// textCleaner normalizes raw text-node data. The parser decodes character
// references, so escaped angle brackets (&lt;/&gt;) reach text nodes as
// literal < and >; those are dropped to keep the output free of markup
// characters and stable under re-extraction.
var textCleaner = strings.NewReplacer("\t", " ", "\r", " ", "<", "", ">", "")

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "iframe":
			// Drop the region including its content.
			return
		case "br", "hr":
			b.WriteString("\n")
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "div", "tr", "td", "li", "ul", "ol":
			// Block starts begin a new visual line.
			b.WriteString("\n")
		}
	}

	if n.Type == html.TextNode {
		b.WriteString(textCleaner.Replace(n.Data))
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}

	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6":
			// Paragraph break.
			b.WriteString("\n\n")
		case "div", "tr", "li":
			b.WriteString("\n")
		}
	}
}

// noiseLine reports whether a trimmed line carries no content, only
// punctuation left over from separators and list decorations.
func noiseLine(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		switch r {
		case '*', '=', '-', '_', '+', '.', ',', ';', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// normalize trims each line, collapses internal whitespace runs to single
// spaces, drops punctuation-only lines, and keeps at most one consecutive
// blank line.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if noiseLine(trimmed) {
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, collapseSpaces(trimmed))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	return strings.Join(out, "\n")
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
