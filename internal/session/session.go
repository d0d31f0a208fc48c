// Package session holds the in-memory record of one chat client run:
// who is logged in, which server is targeted and whether the link is up.
//
// The controller owns the record; everything else sees snapshots.
package session

import (
	"fmt"

	"github.com/google/uuid"
)

// State is the connection state of a session.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Session is a point-in-time view of the client's session.
type Session struct {
	ID      string // random per-process identifier, used in logs and transcripts
	LoginID string
	Host    string
	Port    int
	State   State
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.New().String()
}

// String renders the session for log lines.
func (s Session) String() string {
	return fmt.Sprintf("%s login=%s server=%s:%d %s", s.ID, s.LoginID, s.Host, s.Port, s.State)
}
