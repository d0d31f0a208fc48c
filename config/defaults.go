package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultHost is the chat server contacted when none is given.
	DefaultHost = "localhost"

	// DefaultPort is the chat server port used when none is given.
	DefaultPort = 5555

	// DefaultConnTimeout bounds a single connection attempt.
	DefaultConnTimeout = 30 * time.Second

	// DefaultRetryDelay is the first backoff delay between initial
	// connection attempts when --retries is set.
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay caps the backoff between connection attempts.
	DefaultMaxRetryDelay = 10 * time.Second

	// DefaultMaxLineSize is the longest inbound line accepted from the
	// server before the connection is treated as broken.
	DefaultMaxLineSize = 64 * 1024

	// DefaultPromptPrefix is printed before every displayed line.
	DefaultPromptPrefix = "> "

	// DefaultTranscriptStream is the Redis stream key for transcripts.
	DefaultTranscriptStream = "simplechat:transcript"

	// DefaultTranscriptMaxLen trims the transcript stream (approximate).
	DefaultTranscriptMaxLen = 10000

	// DefaultTranscriptTimeout bounds a single transcript write.
	DefaultTranscriptTimeout = 2 * time.Second

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultKeepAliveInterval is the keepalive period for the chat
	// connection and the SSH gateway.
	DefaultKeepAliveInterval = 30 * time.Second
)
