package display

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"simplechat/config"
	"simplechat/internal/metrics"
	"simplechat/internal/retry"
	"simplechat/util"
)

// streamClient is the part of *redis.Client the transcript uses.
type streamClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// TranscriptConfig configures [NewTranscript].
type TranscriptConfig struct {
	Addr      string // Redis host:port
	Stream    string // stream key; config.DefaultTranscriptStream when empty
	MaxLen    int64  // approximate stream cap; config.DefaultTranscriptMaxLen when zero
	Timeout   time.Duration
	SessionID string
	LoginID   string
	Logger    *util.Logger
	Metrics   *metrics.Collector
}

// Transcript mirrors every displayed line into a Redis stream, one entry
// per line with the fields session, login and text.  Redis trouble never
// reaches the user: failed writes are logged and counted, and after a
// run of failures writes are skipped until the circuit breaker lets a
// probe through.
type Transcript struct {
	client  streamClient
	stream  string
	maxLen  int64
	timeout time.Duration
	session string
	login   string
	logger  *util.Logger
	metrics *metrics.Collector
	breaker *retry.CircuitBreaker
}

// NewTranscript connects to Redis and checks it with PING.  When Redis
// is unreachable the client is closed and the error returned; callers
// run without a transcript.
func NewTranscript(ctx context.Context, cfg TranscriptConfig) (*Transcript, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTranscriptTimeout
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("transcript: redis %s: %w", cfg.Addr, err)
	}
	return newTranscript(rdb, cfg), nil
}

func newTranscript(client streamClient, cfg TranscriptConfig) *Transcript {
	logger := cfg.Logger
	if logger == nil {
		logger = util.NewLogger(0)
	}
	logger = logger.Named("transcript")

	t := &Transcript{
		client:  client,
		stream:  cfg.Stream,
		maxLen:  cfg.MaxLen,
		timeout: cfg.Timeout,
		session: cfg.SessionID,
		login:   cfg.LoginID,
		logger:  logger,
		metrics: cfg.Metrics,
	}
	if t.stream == "" {
		t.stream = config.DefaultTranscriptStream
	}
	if t.maxLen <= 0 {
		t.maxLen = config.DefaultTranscriptMaxLen
	}
	if t.timeout <= 0 {
		t.timeout = config.DefaultTranscriptTimeout
	}
	t.breaker = retry.NewCircuitBreaker(&retry.CircuitBreakerConfig{
		MaxFailures:  3,
		ResetTimeout: 15 * time.Second,
		HalfOpenMax:  1,
		OnStateChange: func(from, to retry.State) {
			switch to {
			case retry.StateOpen:
				logger.Warn("redis is failing, pausing transcript writes")
			case retry.StateClosed:
				logger.Info("transcript writes resumed")
			}
		},
	})
	return t
}

// Display appends text to the stream.
func (t *Transcript) Display(text string) {
	err := t.breaker.Execute(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		return t.client.XAdd(ctx, &redis.XAddArgs{
			Stream: t.stream,
			MaxLen: t.maxLen,
			Approx: true,
			Values: map[string]interface{}{
				"session": t.session,
				"login":   t.login,
				"text":    text,
			},
		}).Err()
	})
	if err != nil {
		t.metrics.TranscriptDropped()
		t.logger.Debug("dropped line: %v", err)
		return
	}
	t.metrics.TranscriptWritten()
}

// Close releases the Redis connection.
func (t *Transcript) Close() error {
	return t.client.Close()
}
