// Package tunnel reaches chat servers that sit behind an SSH bastion,
// using golang.org/x/crypto/ssh for the gateway session.
package tunnel

import (
	"context"
	"net"
)

// Tunnel is a gateway session that forwards TCP connections.
type Tunnel interface {
	Connect(ctx context.Context) error
	Dial(ctx context.Context, network, address string) (net.Conn, error)
	Close() error
	// IsAlive is false before Connect and after the gateway drops.
	IsAlive() bool
}

var _ Tunnel = (*SSHTunnel)(nil)
