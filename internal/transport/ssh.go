package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"simplechat/tunnel"
	"simplechat/util"
)

// SSHDialer reaches the chat server through an SSH gateway.  The
// gateway session is opened on the first Dial and reopened by a later
// Dial when it has dropped, so a #logoff / #login cycle survives a
// bastion restart.
type SSHDialer struct {
	mu      sync.Mutex
	gw      tunnel.Tunnel
	gateway string
	logger  *util.Logger
}

// NewSSHDialer returns a dialer for the gateway described by cfg.  No
// network traffic happens until Dial.
func NewSSHDialer(cfg *tunnel.SSHConfig, logger *util.Logger) *SSHDialer {
	return &SSHDialer{
		gw:      tunnel.NewSSHTunnel(cfg, logger),
		gateway: fmt.Sprintf("%s@%s", cfg.User, util.FormatAddr(cfg.Host, cfg.Port)),
		logger:  logger,
	}
}

// Dial forwards a connection to the chat server at address.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	gw, err := d.gatewayFor(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := gw.Dial(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("dial %s via %s: %w", address, d.gateway, err)
	}
	return conn, nil
}

// gatewayFor returns a live gateway session, reconnecting if needed.
func (d *SSHDialer) gatewayFor(ctx context.Context) (tunnel.Tunnel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.gw.IsAlive() {
		d.logger.Verbose("opening SSH gateway %s", d.gateway)
		d.gw.Close() //nolint:errcheck // leftover session from a dropped gateway
		if err := d.gw.Connect(ctx); err != nil {
			return nil, fmt.Errorf("tunnel: %w", err)
		}
	}
	return d.gw, nil
}

// Close ends the gateway session, if any.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gw.Close()
}
