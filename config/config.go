// Package config defines the runtime configuration for simplechat and
// provides helpers for parsing ports and tunnel specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ncerr "simplechat/internal/errors"
	"simplechat/util"
)

// Config holds every tuneable for a single chat client run.
type Config struct {
	// ── Session ──────────────────────────────────────────────────────
	Login   string
	Host    string
	Port    int
	Timeout time.Duration
	Retries int // extra attempts for the initial connection

	// ── SSH tunnel ───────────────────────────────────────────────────
	TunnelSpec     string // raw user@host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Transcript ───────────────────────────────────────────────────
	TranscriptRedis  string // host:port of a Redis server, empty = off
	TranscriptStream string

	// ── Output ───────────────────────────────────────────────────────
	PromptPrefix string
	Verbose      int
}

// Defaults returns a Config populated with the default host, port and
// output settings.
func Defaults() *Config {
	return &Config{
		Host:             DefaultHost,
		Port:             DefaultPort,
		Timeout:          DefaultConnTimeout,
		TranscriptStream: DefaultTranscriptStream,
		PromptPrefix:     DefaultPromptPrefix,
	}
}

// Address returns the chat server address as host:port.
func (c *Config) Address() string {
	return util.FormatAddr(c.Host, c.Port)
}

// ── Port helpers ─────────────────────────────────────────────────────

// ParsePort accepts a decimal port number in 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q: expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Login) == "" {
		return &ncerr.ConfigError{
			Field:   "login",
			Message: "a login ID is required",
			Hint:    "simplechat <loginid> [host [port]]",
		}
	}
	if c.Host == "" {
		return &ncerr.ConfigError{Field: "host", Message: "host must not be empty"}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &ncerr.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "out of range 1-65535",
			Hint:    fmt.Sprintf("the default chat port is %d", DefaultPort),
		}
	}
	if c.Retries < 0 {
		return &ncerr.ConfigError{Field: "retries", Value: c.Retries, Message: "must not be negative"}
	}
	if c.Timeout < 0 {
		return &ncerr.ConfigError{Field: "timeout", Value: c.Timeout, Message: "must not be negative"}
	}
	if c.TunnelEnabled && c.TunnelHost == "" {
		return &ncerr.ConfigError{
			Field:   "tunnel",
			Value:   c.TunnelSpec,
			Message: "tunnel host is required",
			Hint:    "use -T user@gateway[:port]",
		}
	}
	if c.TranscriptRedis != "" && c.TranscriptStream == "" {
		return &ncerr.ConfigError{
			Field:   "transcript-stream",
			Message: "stream key must not be empty when --transcript-redis is set",
		}
	}
	return nil
}
