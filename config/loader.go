package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the SIMPLECHAT_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  Call it BEFORE flag parsing so
// that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("SIMPLECHAT_LOGIN"); v != "" {
		cfg.Login = v
	}
	if v := os.Getenv("SIMPLECHAT_HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("SIMPLECHAT_PORT"); v > 0 {
		cfg.Port = v
	}
	if v := envInt("SIMPLECHAT_TIMEOUT"); v > 0 {
		cfg.Timeout = secondsDuration(v)
	}
	if v := envInt("SIMPLECHAT_RETRIES"); v > 0 {
		cfg.Retries = v
	}

	// SSH tunnel
	if v := os.Getenv("SIMPLECHAT_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("SIMPLECHAT_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("SIMPLECHAT_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("SIMPLECHAT_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("SIMPLECHAT_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("SIMPLECHAT_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Transcript
	if v := os.Getenv("SIMPLECHAT_TRANSCRIPT_REDIS"); v != "" {
		cfg.TranscriptRedis = v
	}
	if v := os.Getenv("SIMPLECHAT_TRANSCRIPT_STREAM"); v != "" {
		cfg.TranscriptStream = v
	}

	// Output
	if v := envInt("SIMPLECHAT_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
