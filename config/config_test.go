package config

import (
	"strings"
	"testing"
)

// ── ParseTunnelSpec ──────────────────────────────────────────────────

func TestParseTunnelSpec(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantUser string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"full", "admin@bastion.example.com:2222", "admin", "bastion.example.com", 2222, false},
		{"no port", "root@gateway", "root", "gateway", 22, false},
		{"no user", "jump-host:2200", "", "jump-host", 2200, false},
		{"host only", "gateway.local", "", "gateway.local", 22, false},
		{"bad port", "user@host:999999", "", "", 0, true},
		{"zero port", "host:0", "", "", 0, true},
		{"empty", "", "", "", 0, true},
		{"colon only", ":", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseTunnelSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if user != tt.wantUser || host != tt.wantHost || port != tt.wantPort {
				t.Errorf("got (%q, %q, %d), want (%q, %q, %d)",
					user, host, port, tt.wantUser, tt.wantHost, tt.wantPort)
			}
		})
	}
}

// ── ParsePort ────────────────────────────────────────────────────────

func TestParsePort(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"5555", 5555, false},
		{"1", 1, false},
		{"65535", 65535, false},
		{" 80 ", 80, false},
		{"0", 0, true},
		{"65536", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"80-90", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePort(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePort(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePort(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// ── Config.Validate ──────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Login: "alice", Host: "localhost", Port: 5555},
		},
		{
			name:    "missing login",
			cfg:     Config{Host: "localhost", Port: 5555},
			wantErr: "--login",
		},
		{
			name:    "blank login",
			cfg:     Config{Login: "   ", Host: "localhost", Port: 5555},
			wantErr: "--login",
		},
		{
			name:    "empty host",
			cfg:     Config{Login: "alice", Port: 5555},
			wantErr: "--host",
		},
		{
			name:    "port out of range",
			cfg:     Config{Login: "alice", Host: "h", Port: 70000},
			wantErr: "--port=70000",
		},
		{
			name:    "negative retries",
			cfg:     Config{Login: "alice", Host: "h", Port: 1, Retries: -1},
			wantErr: "--retries",
		},
		{
			name:    "tunnel without host",
			cfg:     Config{Login: "alice", Host: "h", Port: 1, TunnelEnabled: true},
			wantErr: "--tunnel",
		},
		{
			name:    "transcript without stream",
			cfg:     Config{Login: "alice", Host: "h", Port: 1, TranscriptRedis: "127.0.0.1:6379"},
			wantErr: "--transcript-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

// TestValidate_Hints verifies that the common mistakes carry a hint.
func TestValidate_Hints(t *testing.T) {
	for _, cfg := range []Config{
		{Host: "localhost", Port: 5555},
		{Login: "alice", Host: "localhost", Port: 0},
	} {
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "hint:") {
			t.Errorf("Validate(%+v) = %v, want a hint", cfg, err)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Host != DefaultHost || cfg.Port != DefaultPort {
		t.Errorf("got %s, want %s:%d", cfg.Address(), DefaultHost, DefaultPort)
	}
	if cfg.PromptPrefix != DefaultPromptPrefix {
		t.Errorf("PromptPrefix = %q", cfg.PromptPrefix)
	}
}
