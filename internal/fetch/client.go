package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrRedirectLoop reports a redirect chain that exceeded the hop cap or
// revisited a URL it had already requested.
var ErrRedirectLoop = errors.New("redirect loop")

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; go2web/1.0)"
	defaultTimeout   = 15 * time.Second
	defaultMaxHops   = 10
)

// Client issues plaintext HTTP/1.1 GET requests over raw TCP connections,
// one connection per request, following 301/302 redirects up to MaxHops.
type Client struct {
	UserAgent string
	// Timeout bounds dialing and the full read of each exchange. Zero means
	// the default (15s).
	Timeout time.Duration
	// MaxHops caps redirect following. Zero means the default (10).
	MaxHops int
	Logger  zerolog.Logger
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func (c *Client) maxHops() int {
	if c.MaxHops > 0 {
		return c.MaxHops
	}
	return defaultMaxHops
}

// Do resolves the request, following redirects while req.FollowRedirects is
// set, and returns the terminal response. A redirect status without a usable
// Location header is terminal and returned as-is. Resolution is loop-safe:
// revisiting a URL or exceeding the hop cap fails with ErrRedirectLoop.
func (c *Client) Do(ctx context.Context, req Request) (*RawResponse, error) {
	visited := map[string]bool{}
	cur := req
	for hop := 0; ; hop++ {
		if hop > c.maxHops() {
			return nil, fmt.Errorf("%w: more than %d hops", ErrRedirectLoop, c.maxHops())
		}
		u := cur.URL()
		if visited[u] {
			return nil, fmt.Errorf("%w: revisited %s", ErrRedirectLoop, u)
		}
		visited[u] = true

		raw, err := c.send(ctx, cur)
		if err != nil {
			return nil, err
		}
		resp := ParseResponse(raw)
		if !resp.IsRedirect() || !req.FollowRedirects {
			return resp, nil
		}
		loc := resp.Header("Location")
		if loc == "" {
			return resp, nil
		}
		next, err := cur.redirectTarget(loc)
		if err != nil {
			c.Logger.Debug().Str("url", u).Str("location", loc).Msg("unusable redirect target, treating as terminal")
			return resp, nil
		}
		c.Logger.Debug().Str("from", u).Str("to", next.URL()).Int("hop", hop+1).Msg("following redirect")
		cur = next
	}
}
