// Package cmd wires up the CLI flags and hands the result to the chat
// run loop.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"simplechat/config"
	"simplechat/internal/core"
	"simplechat/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X simplechat/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs a chat session on stdin/stdout.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, os.Stdin, os.Stdout)
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg := config.Defaults()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("simplechat", flag.ContinueOnError)

	// ── connection ───────────────────────────────────────────────
	timeoutSec := int(cfg.Timeout / time.Second)
	fs.IntVarP(&timeoutSec, "timeout", "w", timeoutSec, "Connection timeout in seconds")
	fs.IntVar(&cfg.Retries, "retries", cfg.Retries, "Extra attempts for the initial connection")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "Reach the server through SSH [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── transcript ───────────────────────────────────────────────
	fs.StringVar(&cfg.TranscriptRedis, "transcript-redis", cfg.TranscriptRedis, "Mirror displayed lines to Redis at host:port")
	fs.StringVar(&cfg.TranscriptStream, "transcript-stream", cfg.TranscriptStream, "Redis stream key for the transcript")

	// ── output ───────────────────────────────────────────────────
	fs.StringVar(&cfg.PromptPrefix, "prompt-prefix", cfg.PromptPrefix, "Text printed before every displayed line")
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "simplechat %s\n", version)
		return nil
	}

	if fs.Changed("timeout") {
		if timeoutSec < 0 {
			return fmt.Errorf("timeout: must not be negative")
		}
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	// ── build and run ────────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)

	mode, err := core.Build(cfg, logger)
	if err != nil {
		return err
	}
	mode.Stdin = stdin
	mode.Stdout = stdout

	logger.Verbose("simplechat %s: %s as %q", version, cfg.Address(), cfg.Login)
	return mode.Run(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────

// parsePositional reads <loginid> [host [port]].  The login ID may
// instead come from SIMPLECHAT_LOGIN.
func parsePositional(cfg *config.Config, remaining []string) error {
	if len(remaining) > 3 {
		return fmt.Errorf("too many arguments (use --help for usage)")
	}
	if len(remaining) >= 1 {
		cfg.Login = remaining[0]
	}
	if len(remaining) >= 2 {
		cfg.Host = remaining[1]
	}
	if len(remaining) == 3 {
		port, err := config.ParsePort(remaining[2])
		if err != nil {
			return fmt.Errorf("port: %w", err)
		}
		cfg.Port = port
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `simplechat: line-oriented chat client v%s

Usage:
  simplechat [options] <loginid> [host [port]]

  host defaults to %s and port to %d.

Commands (typed at the prompt):
  #login <id>      connect and log in as <id>
  #logoff          disconnect but keep running
  #sethost <host>  change the server host (while disconnected)
  #setport <port>  change the server port (while disconnected)
  #gethost         show the server host
  #getport         show the server port
  #quit            disconnect and exit
  anything else is sent to the server

Options:
`, version, config.DefaultHost, config.DefaultPort)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  simplechat alice                              localhost:5555
  simplechat alice chat.example.com 6000        explicit server
  simplechat -T admin@bastion alice chat.internal
  simplechat --transcript-redis 127.0.0.1:6379 alice
`)
}
