package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// ConnError wraps a DNS, connect, send, or receive failure. A fetch that
// fails with it aborts without caching anything.
type ConnError struct {
	Op   string
	Addr string
	Err  error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

// send opens one TCP connection, writes a single GET with Connection: close,
// and reads until the peer closes. One socket per call, no reuse; the socket
// is closed on every exit path.
func (c *Client) send(ctx context.Context, req Request) ([]byte, error) {
	port := req.Port
	if port == 0 {
		port = 80
	}
	addr := net.JoinHostPort(req.Host, strconv.Itoa(port))

	d := net.Dialer{Timeout: c.timeout()}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnError{Op: "connect", Addr: addr, Err: err}
	}
	defer conn.Close()

	// A non-responding peer must not hang the process: one deadline bounds
	// the whole exchange.
	_ = conn.SetDeadline(time.Now().Add(c.timeout()))

	wire := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nUser-Agent: %s\r\nConnection: close\r\n\r\n",
		req.Path, req.Host, c.userAgent())
	if _, err := conn.Write([]byte(wire)); err != nil {
		return nil, &ConnError{Op: "send", Addr: addr, Err: err}
	}
	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, &ConnError{Op: "recv", Addr: addr, Err: err}
	}
	return raw, nil
}
