package errors

import (
	"fmt"
	"io"
	"net"
	"testing"
)

func TestConnectionError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  ConnectionError
		want string
	}{
		{
			name: "retryable",
			err:  ConnectionError{Op: "open", Addr: "localhost:5555", Err: io.EOF, Retryable: true},
			want: "open localhost:5555: EOF (retryable)",
		},
		{
			name: "non-retryable",
			err:  ConnectionError{Op: "send", Addr: "chat.example.com:5555", Err: ErrNotConnected},
			want: "send chat.example.com:5555: not connected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnectionError_Unwrap(t *testing.T) {
	err := &ConnectionError{Op: "send", Addr: "x", Err: ErrNotConnected}
	if !Is(err, ErrNotConnected) {
		t.Error("should unwrap to ErrNotConnected")
	}
}

func TestUserError_Format(t *testing.T) {
	err := &UserError{Command: "#setport", Message: "Could not set port."}
	if got, want := err.Error(), "#setport: Could not set port."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClassification(t *testing.T) {
	conn := fmt.Errorf("login: %w", Wrap("open", "h:1", io.EOF))
	user := fmt.Errorf("parse: %w", &UserError{Command: "#login", Message: "missing"})

	if !IsConnection(conn) {
		t.Error("wrapped ConnectionError not detected")
	}
	if IsConnection(user) {
		t.Error("UserError classified as connection error")
	}
	if !IsUser(user) {
		t.Error("wrapped UserError not detected")
	}
	if IsUser(conn) {
		t.Error("ConnectionError classified as user error")
	}
}

func TestSSHError_Format(t *testing.T) {
	err := WrapSSH("handshake", "bastion.example.com", 22, fmt.Errorf("connection refused"))
	want := "ssh handshake bastion.example.com:22: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !Is(err, err.Err) {
		t.Error("should unwrap to inner error")
	}
}

func TestConfigError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "with value and hint",
			err: ConfigError{
				Field:   "port",
				Value:   99999,
				Message: "out of range 1-65535",
				Hint:    "use a port between 1 and 65535",
			},
			want: "config: --port=99999: out of range 1-65535\n  hint: use a port between 1 and 65535",
		},
		{
			name: "missing value no hint",
			err: ConfigError{
				Field:   "login",
				Message: "a login ID is required",
			},
			want: "config: --login: a login ID is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := Wrap("open", "10.0.0.1:5555", inner)

	if err.Op != "open" || err.Addr != "10.0.0.1:5555" {
		t.Errorf("wrong fields: Op=%q Addr=%q", err.Op, err.Addr)
	}
	if !Is(err, inner) {
		t.Error("should unwrap to inner error")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"retryable connection", &ConnectionError{Op: "open", Addr: "x", Err: io.EOF, Retryable: true}, true},
		{"non-retryable connection", &ConnectionError{Op: "open", Addr: "x", Err: io.EOF}, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"temporary dns", &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{IsTemporary: true}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFatalOpen(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", Wrap("open", "localhost:5555", fmt.Errorf("connection refused")), false},
		{"unknown host", Wrap("open", "nope.invalid:5555", &net.DNSError{Name: "nope.invalid", IsNotFound: true}), true},
		{"temporary dns", &net.DNSError{IsTemporary: true}, false},
		{"ssh auth", fmt.Errorf("tunnel: %w", WrapSSH("auth", "bastion", 22, ErrAuthFailed)), true},
		{"ssh hostkey", WrapSSH("hostkey", "bastion", 22, fmt.Errorf("mismatch")), true},
		{"ssh handshake", WrapSSH("handshake", "bastion", 22, fmt.Errorf("reset")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatalOpen(tt.err); got != tt.want {
				t.Errorf("IsFatalOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentinels(t *testing.T) {
	sentinels := []error{
		ErrNotConnected, ErrAlreadyConnected, ErrCircuitOpen,
		ErrAuthFailed, ErrTunnelClosed,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && Is(a, b) {
				t.Errorf("sentinel %d and %d should not match", i, j)
			}
		}
	}
}
