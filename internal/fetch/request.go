package fetch

import (
	"fmt"
	"strconv"
	"strings"
)

// Request describes a single plaintext HTTP exchange. The zero Port means 80.
type Request struct {
	Host            string
	Path            string
	Port            int
	FollowRedirects bool
}

// ParseURL builds a Request from a user-supplied URL. The scheme is accepted
// and discarded: every connection is plaintext, so https URLs are fetched
// over the request port without TLS. The query string stays attached to Path.
func ParseURL(raw string) (Request, error) {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if s == "" {
		return Request{}, fmt.Errorf("empty URL")
	}
	host := s
	path := "/"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		host, path = s[:i], s[i:]
	}
	port := 80
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		p, err := strconv.Atoi(host[i+1:])
		if err != nil || p <= 0 || p > 65535 {
			return Request{}, fmt.Errorf("invalid port in %q", raw)
		}
		host, port = host[:i], p
	}
	if host == "" {
		return Request{}, fmt.Errorf("missing host in %q", raw)
	}
	return Request{Host: host, Path: path, Port: port, FollowRedirects: true}, nil
}

// URL reconstructs the canonical plaintext URL of the request. Equivalent
// requests map to the same string, which the cache uses as its key source.
func (r Request) URL() string {
	port := r.Port
	if port == 0 {
		port = 80
	}
	if port == 80 {
		return "http://" + r.Host + r.Path
	}
	return fmt.Sprintf("http://%s:%d%s", r.Host, port, r.Path)
}

// redirectTarget builds the next request from a Location value. Absolute
// URLs replace host, port and path; host-relative values keep the current
// host; anything else resolves against the directory of the current path.
func (r Request) redirectTarget(loc string) (Request, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return Request{}, fmt.Errorf("empty location")
	}
	if strings.Contains(loc, "://") {
		next, err := ParseURL(loc)
		if err != nil {
			return Request{}, err
		}
		next.FollowRedirects = r.FollowRedirects
		return next, nil
	}
	next := r
	if strings.HasPrefix(loc, "/") {
		next.Path = loc
		return next, nil
	}
	dir := r.Path[:strings.LastIndexByte(r.Path, '/')+1]
	next.Path = dir + loc
	return next, nil
}
