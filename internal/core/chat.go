package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"simplechat/config"
	"simplechat/internal/chat"
	"simplechat/internal/display"
	"simplechat/internal/metrics"
	"simplechat/internal/retry"
	"simplechat/internal/session"
	"simplechat/internal/transport"
	"simplechat/util"
)

const msgSetupFailed = "Error: Can't setup connection! Terminating client."

// ChatMode connects to a chat server and runs an interactive session
// on stdin/stdout until the user quits, input ends, the connection
// breaks or the context is cancelled.
type ChatMode struct {
	LoginID string
	Client  *transport.Client
	Retry   *retry.Backoff // nil: a single connection attempt
	Prefix  string         // printed before every displayed line

	// Transcript, when set, mirrors displayed lines into Redis.
	// SessionID and LoginID are filled in by Run.
	Transcript *display.TranscriptConfig

	Metrics *metrics.Collector
	Logger  *util.Logger

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	// Override in tests for deterministic I/O.
	Stdin  io.Reader
	Stdout io.Writer
}

func (m *ChatMode) stdin() io.Reader {
	if m.Stdin != nil {
		return m.Stdin
	}
	return os.Stdin
}

func (m *ChatMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// Run opens the session and processes input.  It returns an error only
// when the initial connection cannot be made; every other way a session
// ends is a normal return.
func (m *ChatMode) Run(ctx context.Context) error {
	if m.Logger == nil {
		m.Logger = util.NewLogger(0)
	}
	defer m.Client.Shutdown() //nolint:errcheck
	defer m.logStats()

	id := session.NewID()
	sink := m.buildSinks(ctx, id)
	if t, ok := sink[len(sink)-1].(*display.Transcript); ok {
		defer t.Close()
	}

	ctrl, err := chat.New(ctx, chat.Options{
		LoginID:   m.LoginID,
		SessionID: id,
		Transport: m.Client,
		Display:   sink,
		Logger:    m.Logger,
		Retry:     m.Retry,
	})
	if err != nil {
		sink.Display(msgSetupFailed)
		return fmt.Errorf("connect to %s: %w",
			util.FormatAddr(m.Client.Host(), m.Client.Port()), err)
	}

	lines := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go m.readInput(lines, stop)

	for {
		select {
		case <-ctx.Done():
			m.Logger.Verbose("interrupted, quitting")
			ctrl.Quit()
			return nil

		case <-ctrl.Done():
			if err := ctrl.Err(); err != nil {
				m.Logger.Verbose("session ended: %v", err)
			}
			return nil

		case line, ok := <-lines:
			if !ok {
				m.Logger.Verbose("end of input, quitting")
				ctrl.Quit()
				return nil
			}
			if ctrl.HandleLine(ctx, line) == chat.Terminate {
				return nil
			}
		}
	}
}

// buildSinks returns the console, followed by the transcript when one is
// configured and reachable.
func (m *ChatMode) buildSinks(ctx context.Context, sessionID string) display.Multi {
	sinks := display.Multi{display.NewConsole(m.stdout(), m.Prefix)}
	if m.Transcript == nil {
		return sinks
	}

	cfg := *m.Transcript
	cfg.SessionID = sessionID
	cfg.LoginID = m.LoginID
	t, err := display.NewTranscript(ctx, cfg)
	if err != nil {
		m.Logger.Warn("%v; continuing without a transcript", err)
		return sinks
	}
	m.Logger.Verbose("recording transcript to %s stream %q", cfg.Addr, cfg.Stream)
	return append(sinks, t)
}

// readInput sends each line of stdin to lines and closes it at end of
// input.  A blocked terminal read cannot be interrupted, so after stop
// the goroutine lingers until the next line or the process exits.
func (m *ChatMode) readInput(lines chan<- string, stop <-chan struct{}) {
	defer close(lines)
	err := util.ReadLines(m.stdin(), config.DefaultMaxLineSize, func(line string) {
		select {
		case lines <- line:
		case <-stop:
		}
	})
	if err != nil {
		m.Logger.Warn("reading input: %v", err)
	}
}

func (m *ChatMode) logStats() {
	if m.Metrics == nil {
		return
	}
	m.Logger.Verbose("session stats: %s", m.Metrics.JSON())
}
