package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCPDialer reaches the chat server directly.  A zero value dials with
// no timeout and the system keepalive default.
type TCPDialer struct {
	Timeout   time.Duration
	KeepAlive time.Duration
}

// Dial opens a TCP connection to the chat server at address.
func (d *TCPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	nd := net.Dialer{Timeout: d.Timeout, KeepAlive: d.KeepAlive}
	conn, err := nd.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return conn, nil
}

// Close has nothing to release.
func (d *TCPDialer) Close() error { return nil }
