// Package display implements the places user-visible chat text goes:
// the terminal, an optional Redis transcript, or several at once.
package display

import (
	"io"
	"os"
	"sync"

	"simplechat/util"
)

// Sink receives lines meant for the user.  Implementations must be safe
// for concurrent use; the chat controller calls Display from both the
// input loop and the connection reader.
type Sink interface {
	Display(text string)
}

// Console writes each line to a terminal or other writer, behind a
// fixed prefix.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// NewConsole returns a console sink writing to w (os.Stdout when nil).
func NewConsole(w io.Writer, prefix string) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w, prefix: prefix}
}

// Display writes prefix+text as one line.  Write errors are dropped;
// there is nowhere left to report them.
func (c *Console) Display(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	util.WriteLine(c.w, c.prefix+text) //nolint:errcheck
}

// Multi fans every line out to several sinks, in order.
type Multi []Sink

// Display implements Sink.
func (m Multi) Display(text string) {
	for _, s := range m {
		if s != nil {
			s.Display(text)
		}
	}
}
