package core

import (
	"time"

	"simplechat/config"
	"simplechat/internal/display"
	"simplechat/internal/metrics"
	"simplechat/internal/retry"
	"simplechat/internal/transport"
	"simplechat/tunnel"
	"simplechat/util"
)

// Build constructs a ChatMode from a validated configuration.
func Build(cfg *config.Config, logger *util.Logger) (*ChatMode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := metrics.New()
	client := transport.NewClient(transport.ClientConfig{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Dialer:      buildDialer(cfg, logger),
		MaxLineSize: config.DefaultMaxLineSize,
		Logger:      logger,
		Metrics:     m,
	})

	mode := &ChatMode{
		LoginID: cfg.Login,
		Client:  client,
		Retry:   buildRetry(cfg, logger),
		Prefix:  cfg.PromptPrefix,
		Metrics: m,
		Logger:  logger,
	}

	if cfg.TranscriptRedis != "" {
		mode.Transcript = &display.TranscriptConfig{
			Addr:    cfg.TranscriptRedis,
			Stream:  cfg.TranscriptStream,
			MaxLen:  config.DefaultTranscriptMaxLen,
			Timeout: config.DefaultTranscriptTimeout,
			Logger:  logger,
			Metrics: m,
		}
	}
	return mode, nil
}

// ── shared helpers ───────────────────────────────────────────────────

// buildDialer creates the right transport.Dialer for the given config.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   cfg.Timeout,
			KeepAlive:     config.DefaultKeepAliveInterval,
		}, logger)
	}

	return &transport.TCPDialer{
		Timeout:   cfg.Timeout,
		KeepAlive: config.DefaultKeepAliveInterval,
	}
}

// buildRetry returns the backoff for the initial connection, or nil
// when only one attempt is wanted.
func buildRetry(cfg *config.Config, logger *util.Logger) *retry.Backoff {
	if cfg.Retries <= 0 {
		return nil
	}
	b := retry.Attempts(cfg.Retries+1, config.DefaultRetryDelay, config.DefaultMaxRetryDelay)
	b.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn("connection attempt %d failed: %v (retrying in %s)",
			attempt, err, wait.Round(time.Millisecond))
	}
	return b
}
