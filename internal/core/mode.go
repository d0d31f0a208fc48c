// Package core is the orchestration layer.  It wires the transport,
// the chat controller and the display sinks into a runnable mode and
// owns the process-level loop: reading local input, watching for the
// end of the session and shutting everything down.
//
// Architecture layers (bottom → top):
//
//	transport  →  chat  →  display  →  core  →  cmd (CLI)
package core

import "context"

// Mode is a complete operational mode.  It owns its full lifecycle from
// connection establishment to teardown.
type Mode interface {
	Run(ctx context.Context) error
}

var _ Mode = (*ChatMode)(nil)
