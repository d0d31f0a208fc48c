// Package chat implements the client side of a line-oriented chat
// session.  A [Controller] turns lines typed by the user into
// connection management (login, logoff, host and port changes, quit)
// or into messages for the server, and reports everything the user
// should see to a display.
//
// The controller never exits the process.  When the session is over it
// closes [Controller.Done] and leaves shutdown to its caller.
package chat

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"simplechat/config"
	ncerr "simplechat/internal/errors"
	"simplechat/internal/retry"
	"simplechat/internal/session"
	"simplechat/internal/transport"
	"simplechat/util"
)

// Lines shown to the user.
const (
	msgEstablished  = "Connection established!"
	msgClosed       = "Connection closed!"
	msgAbnormal     = "Abnormal termination of connection."
	msgLoggingOff   = "Logging off."
	msgLoggingIn    = "Logging in."
	msgNoLoginID    = "ERROR -  No login ID specified."
	msgBadHost      = "Could not set host."
	msgBadPort      = "Could not set port."
	msgSendFailed   = "Could not send message to server.  Terminating client."
	msgHostSetFmt   = "Host set to %s"
	msgPortSetFmt   = "Port set to %d"
	loginCommandFmt = "#login %s"
)

// Transport is the connection the controller drives.
// *transport.Client implements it.
type Transport interface {
	SetHandler(h transport.Handler)
	Open(ctx context.Context) error
	Close() error
	IsConnected() bool
	Send(msg string) error
	Host() string
	Port() int
	SetHost(host string) error
	SetPort(port int) error
}

// Display receives every line meant for the user.  It may be called
// from the transport's reader goroutine.
type Display interface {
	Display(text string)
}

// Action tells the caller of [Controller.HandleLine] whether to keep
// reading input.
type Action int

const (
	Continue Action = iota
	Terminate
)

func (a Action) String() string {
	if a == Terminate {
		return "terminate"
	}
	return "continue"
}

// Options configures [New].
type Options struct {
	LoginID   string
	SessionID string // generated when empty
	Transport Transport
	Display   Display
	Logger    *util.Logger

	// Retry, when set, governs the initial connection attempt.  Nil
	// means a single attempt.
	Retry *retry.Backoff
}

// Controller is the chat session state machine.  HandleLine is meant
// to be called from a single input loop; the transport callbacks may
// arrive concurrently from the transport's reader.
type Controller struct {
	id        string
	login     string
	transport Transport
	display   Display
	logger    *util.Logger

	mu       sync.Mutex
	quitting bool

	done     chan struct{}
	doneOnce sync.Once
	err      error
}

// New creates a controller, installs it as the transport's handler and
// opens the connection.  If the connection cannot be opened the error is
// returned and the transport is left disconnected.
func New(ctx context.Context, opts Options) (*Controller, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("chat: no transport")
	}
	if opts.Display == nil {
		return nil, fmt.Errorf("chat: no display")
	}
	logger := opts.Logger
	if logger == nil {
		logger = util.NewLogger(0)
	}
	id := opts.SessionID
	if id == "" {
		id = session.NewID()
	}

	c := &Controller{
		id:        id,
		login:     opts.LoginID,
		transport: opts.Transport,
		display:   opts.Display,
		logger:    logger.Named("chat"),
		done:      make(chan struct{}),
	}
	c.transport.SetHandler(c)

	open := func(attempt int) error {
		if attempt > 1 {
			c.logger.Verbose("connect attempt %d", attempt)
		}
		err := c.transport.Open(ctx)
		if ncerr.IsFatalOpen(err) {
			return retry.Permanent(err)
		}
		return err
	}

	var err error
	if opts.Retry != nil {
		err = opts.Retry.Do(ctx, open)
	} else {
		err = open(1)
	}
	if err != nil {
		c.transport.Close() //nolint:errcheck // nothing is open after a failed dial
		return nil, err
	}

	c.logger.Verbose("session %s", c.Session())
	return c, nil
}

// Session returns a snapshot of the session record.
func (c *Controller) Session() session.Session {
	state := session.Disconnected
	if c.transport.IsConnected() {
		state = session.Connected
	}
	return session.Session{
		ID:      c.id,
		LoginID: c.login,
		Host:    c.transport.Host(),
		Port:    c.transport.Port(),
		State:   state,
	}
}

// Done is closed once the session has ended, whether by #quit, a failed
// send or the connection breaking.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Err returns why the session ended.  It is nil while the session is
// running and after a plain quit.
func (c *Controller) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// HandleLine runs one line of local input.
func (c *Controller) HandleLine(ctx context.Context, line string) Action {
	select {
	case <-c.done:
		return Terminate
	default:
	}

	switch cmd := Parse(line).(type) {
	case Quit:
		c.Quit()
		return Terminate

	case Logoff:
		if !c.transport.IsConnected() {
			return Continue
		}
		c.display.Display(msgLoggingOff)
		if err := c.transport.Close(); err != nil {
			c.logger.Warn("logoff: %v", err)
		}
		return Continue

	case SetHost:
		if c.transport.IsConnected() {
			return Continue
		}
		c.setHost(cmd.Host)
		return Continue

	case SetPort:
		if c.transport.IsConnected() {
			return Continue
		}
		c.setPort(cmd.Arg)
		return Continue

	case Login:
		c.loginAs(ctx, cmd.ID)
		return Continue

	case GetHost:
		c.display.Display(c.transport.Host())
		return Continue

	case GetPort:
		c.display.Display(strconv.Itoa(c.transport.Port()))
		return Continue

	case Message:
		if err := c.transport.Send(cmd.Text); err != nil {
			c.logger.Verbose("send: %v", err)
			c.display.Display(msgSendFailed)
			c.shutdown(err)
			return Terminate
		}
		return Continue

	default:
		panic(fmt.Sprintf("chat: unhandled command %T", cmd))
	}
}

func (c *Controller) setHost(host string) {
	if host == "" {
		c.showUserError(&ncerr.UserError{Command: "#sethost", Message: msgBadHost})
		return
	}
	if err := c.transport.SetHost(host); err != nil {
		// Lost a race with a concurrent open; same as being connected.
		c.logger.Debug("sethost: %v", err)
		return
	}
	c.display.Display(fmt.Sprintf(msgHostSetFmt, host))
}

func (c *Controller) setPort(arg string) {
	port, err := config.ParsePort(arg)
	if err != nil {
		c.logger.Debug("setport: %v", err)
		c.showUserError(&ncerr.UserError{Command: "#setport", Message: msgBadPort})
		return
	}
	if err := c.transport.SetPort(port); err != nil {
		c.logger.Debug("setport: %v", err)
		return
	}
	c.display.Display(fmt.Sprintf(msgPortSetFmt, port))
}

// loginAs opens the connection if needed and announces id to the
// server.  Every failure is reported the same way and is not fatal.
func (c *Controller) loginAs(ctx context.Context, id string) {
	if id == "" {
		c.showUserError(&ncerr.UserError{Command: "#login", Message: msgNoLoginID})
		return
	}

	c.display.Display(msgLoggingIn)
	if err := c.transport.Open(ctx); err != nil {
		c.logger.Verbose("login: %v", err)
		c.display.Display(msgNoLoginID)
		return
	}
	if err := c.transport.Send(fmt.Sprintf(loginCommandFmt, id)); err != nil {
		c.logger.Verbose("login: %v", err)
		c.display.Display(msgNoLoginID)
	}
}

func (c *Controller) showUserError(err *ncerr.UserError) {
	c.logger.Debug("%v", err)
	c.display.Display(err.Message)
}

// Quit closes the connection, if any, and ends the session.  Errors from
// the close are logged and otherwise ignored.
func (c *Controller) Quit() {
	c.shutdown(nil)
}

// shutdown is the quit path shared by #quit and fatal send failures.
func (c *Controller) shutdown(cause error) {
	c.mu.Lock()
	c.quitting = true
	c.mu.Unlock()

	if err := c.transport.Close(); err != nil {
		c.logger.Verbose("close during quit: %v", err)
	}
	c.terminate(cause)
}

func (c *Controller) terminate(cause error) {
	c.doneOnce.Do(func() {
		c.err = cause
		close(c.done)
	})
}

func (c *Controller) isQuitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quitting
}

// ── transport.Handler ────────────────────────────────────────────────

// HandleMessage shows a line received from the server.
func (c *Controller) HandleMessage(msg string) {
	c.display.Display(msg)
}

// ConnectionEstablished implements transport.Handler.
func (c *Controller) ConnectionEstablished() {
	c.display.Display(msgEstablished)
}

// ConnectionClosed implements transport.Handler.  The client keeps
// running; the user may #login again.
func (c *Controller) ConnectionClosed() {
	if c.isQuitting() {
		return
	}
	c.display.Display(msgClosed)
}

// ConnectionException ends the session without trying to close the
// connection again.
func (c *Controller) ConnectionException(err error) {
	c.logger.Verbose("connection lost: %v", err)
	c.display.Display(msgAbnormal)
	c.terminate(err)
}
