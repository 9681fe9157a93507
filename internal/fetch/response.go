package fetch

import (
	"bytes"
	"strconv"
	"strings"
)

// RawResponse is the parsed form of one HTTP/1.1 response. Parsing is
// best-effort: a malformed response yields empty fields, never an error,
// and callers must tolerate an empty body.
type RawResponse struct {
	StatusLine string
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// ParseResponse splits raw bytes on the first header/body boundary and
// parses the status line and headers. Header names are lowercased so
// lookups are case-insensitive; on duplicate names the first value wins.
// A response without the boundary keeps an empty body.
func ParseResponse(raw []byte) *RawResponse {
	resp := &RawResponse{Headers: map[string]string{}}
	head := raw
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		head = raw[:i]
		resp.Body = raw[i+4:]
	}
	lines := strings.Split(string(head), "\r\n")
	if len(lines) == 0 {
		return resp
	}
	resp.StatusLine = lines[0]
	if fields := strings.Fields(lines[0]); len(fields) >= 2 && strings.HasPrefix(fields[0], "HTTP/") {
		if code, err := strconv.Atoi(fields[1]); err == nil {
			resp.StatusCode = code
		}
	}
	for _, line := range lines[1:] {
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(line[:i]))
		if _, ok := resp.Headers[name]; !ok {
			resp.Headers[name] = strings.TrimSpace(line[i+1:])
		}
	}
	return resp
}

// Header returns a header value by case-insensitive name.
func (r *RawResponse) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// IsRedirect reports whether the response asks the client to follow its
// Location header.
func (r *RawResponse) IsRedirect() bool {
	return r.StatusCode == 301 || r.StatusCode == 302
}
