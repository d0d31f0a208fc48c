// Package transport provides the chat client's connection layer.
// Dialers handle how a connection is established (plain TCP or through
// an SSH gateway); [Client] owns the single live connection, frames
// messages as newline-terminated lines and reports lifecycle events to
// a [Handler].
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}

// Handler receives inbound messages and connection lifecycle events.
// Methods other than ConnectionEstablished may be called from the
// client's reader goroutine.
type Handler interface {
	// HandleMessage is called once per line received from the server.
	HandleMessage(msg string)

	// ConnectionEstablished is called after a successful Open.
	ConnectionEstablished()

	// ConnectionClosed is called after a local Close or when the
	// server ends the stream cleanly.
	ConnectionClosed()

	// ConnectionException is called when the connection fails with a
	// transport-level error.  The connection is already gone.
	ConnectionException(err error)
}
