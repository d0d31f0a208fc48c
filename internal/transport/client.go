package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"simplechat/config"
	ncerr "simplechat/internal/errors"
	"simplechat/internal/metrics"
	"simplechat/util"
)

// ClientConfig configures a [Client].
type ClientConfig struct {
	Host        string
	Port        int
	Network     string // "tcp" when empty
	Dialer      Dialer
	MaxLineSize int // longest accepted inbound line; config.DefaultMaxLineSize when zero
	Logger      *util.Logger
	Metrics     *metrics.Collector
}

// Client owns at most one connection to the chat server.  Messages are
// newline-terminated lines in both directions.  Host and port can only
// be changed while no connection is open or being opened.
type Client struct {
	dialer  Dialer
	network string
	maxLine int
	logger  *util.Logger
	metrics *metrics.Collector

	mu      sync.Mutex
	host    string
	port    int
	handler Handler
	link    *link
	opening bool
}

// link is one live connection.  closing is set before a local Close
// tears the socket down so the reader knows not to report the failure.
type link struct {
	conn    net.Conn
	addr    string
	closing atomic.Bool
	wmu     sync.Mutex
}

// NewClient returns a disconnected client.
func NewClient(cfg ClientConfig) *Client {
	network := cfg.Network
	if network == "" {
		network = "tcp"
	}
	maxLine := cfg.MaxLineSize
	if maxLine <= 0 {
		maxLine = config.DefaultMaxLineSize
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &TCPDialer{Timeout: config.DefaultConnTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = util.NewLogger(0)
	}
	return &Client{
		dialer:  dialer,
		network: network,
		maxLine: maxLine,
		logger:  logger.Named("transport"),
		metrics: cfg.Metrics,
		host:    cfg.Host,
		port:    cfg.Port,
	}
}

// SetHandler installs the receiver of messages and lifecycle events.
func (c *Client) SetHandler(h Handler) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

// Host returns the configured server host.
func (c *Client) Host() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.host
}

// Port returns the configured server port.
func (c *Client) Port() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port
}

// SetHost changes the server host for the next Open.
func (c *Client) SetHost(host string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.link != nil || c.opening {
		return ncerr.ErrAlreadyConnected
	}
	c.host = host
	return nil
}

// SetPort changes the server port for the next Open.
func (c *Client) SetPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", port)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.link != nil || c.opening {
		return ncerr.ErrAlreadyConnected
	}
	c.port = port
	return nil
}

// IsConnected reports whether a connection is currently open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.link != nil
}

// Open connects to the configured host and port.  It is a no-op when a
// connection is already open.  On success the handler's
// ConnectionEstablished runs before any message is delivered.
func (c *Client) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.link != nil || c.opening {
		c.mu.Unlock()
		return nil
	}
	c.opening = true
	addr := util.FormatAddr(c.host, c.port)
	c.mu.Unlock()

	c.logger.Verbose("connecting to %s (%s)", addr, c.network)
	conn, err := c.dialer.Dial(ctx, c.network, addr)

	c.mu.Lock()
	c.opening = false
	if err != nil {
		c.mu.Unlock()
		c.metrics.RecordError(err.Error())
		return ncerr.Wrap("open", addr, err)
	}
	l := &link{conn: conn, addr: addr}
	c.link = l
	h := c.handler
	c.mu.Unlock()

	c.metrics.ConnectionOpened()
	c.logger.Verbose("connected to %s", conn.RemoteAddr())

	if h != nil {
		h.ConnectionEstablished()
	}
	go c.readLoop(l)
	return nil
}

// Close closes the open connection and reports ConnectionClosed.
// Closing a disconnected client does nothing.
func (c *Client) Close() error {
	c.mu.Lock()
	l := c.link
	if l == nil {
		c.mu.Unlock()
		return nil
	}
	c.link = nil
	l.closing.Store(true)
	h := c.handler
	c.mu.Unlock()

	err := l.conn.Close()
	c.metrics.ConnectionClosed()
	c.logger.Verbose("closed connection to %s", l.addr)

	if h != nil {
		h.ConnectionClosed()
	}
	if err != nil && !util.IsClosed(err) {
		return ncerr.Wrap("close", l.addr, err)
	}
	return nil
}

// Send writes msg as one line.  It fails with a ConnectionError
// wrapping ErrNotConnected when no connection is open.
func (c *Client) Send(msg string) error {
	c.mu.Lock()
	l := c.link
	addr := util.FormatAddr(c.host, c.port)
	c.mu.Unlock()

	if l == nil {
		return &ncerr.ConnectionError{Op: "send", Addr: addr, Err: ncerr.ErrNotConnected}
	}

	l.wmu.Lock()
	n, err := util.WriteLine(l.conn, msg)
	l.wmu.Unlock()
	if err != nil {
		c.metrics.RecordError(err.Error())
		return ncerr.Wrap("send", l.addr, err)
	}
	c.metrics.MessageSent(n)
	c.logger.Debug("sent %d bytes", n)
	return nil
}

// Shutdown closes the connection, if any, and releases the dialer.
func (c *Client) Shutdown() error {
	return ncerr.Join(c.Close(), c.dialer.Close())
}

// readLoop delivers inbound lines until the connection ends, then
// reports how it ended unless the end was a local Close.
func (c *Client) readLoop(l *link) {
	err := util.ReadLines(l.conn, c.maxLine, func(line string) {
		if l.closing.Load() {
			return
		}
		c.metrics.MessageReceived(len(line) + 1)
		if h := c.currentHandler(); h != nil {
			h.HandleMessage(line)
		}
	})

	c.mu.Lock()
	if c.link != l {
		// Close already detached and reported this link.
		c.mu.Unlock()
		return
	}
	c.link = nil
	h := c.handler
	c.mu.Unlock()

	l.conn.Close()
	c.metrics.ConnectionClosed()

	if err == nil {
		c.logger.Verbose("server closed the connection")
		if h != nil {
			h.ConnectionClosed()
		}
		return
	}

	c.logger.Verbose("connection to %s failed: %v", l.addr, err)
	c.metrics.RecordError(err.Error())
	if h != nil {
		h.ConnectionException(ncerr.Wrap("read", l.addr, err))
	}
}

func (c *Client) currentHandler() Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler
}
