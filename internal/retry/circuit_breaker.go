package retry

import (
	"fmt"
	"sync"
	"time"

	ncerr "simplechat/internal/errors"
)

// ── Circuit breaker state ────────────────────────────────────────────

// State represents the circuit breaker's operational state.
type State int

const (
	// StateClosed lets calls through.
	StateClosed State = iota
	// StateOpen rejects calls until the reset timeout passes.
	StateOpen
	// StateHalfOpen lets probe calls through to test recovery.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ── Configuration ────────────────────────────────────────────────────

// CircuitBreakerConfig configures a [CircuitBreaker].
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening
	// the circuit (default 5).
	MaxFailures int
	// ResetTimeout is how long the circuit stays open before letting a
	// probe through (default 30s).
	ResetTimeout time.Duration
	// HalfOpenMax is the number of consecutive probe successes required
	// to close the circuit again (default 2).
	HalfOpenMax int
	// OnStateChange is called after every transition, outside the lock.
	OnStateChange func(from, to State)
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxFailures:  5,
		ResetTimeout: 30 * time.Second,
		HalfOpenMax:  2,
	}
}

// ── CircuitBreaker ───────────────────────────────────────────────────

// CircuitBreaker stops calling a failing dependency after a run of
// consecutive failures and lets it recover in the background.
type CircuitBreaker struct {
	mu           sync.Mutex
	state        State
	failures     int
	successes    int
	maxFailures  int
	resetTimeout time.Duration
	halfOpenMax  int
	openedAt     time.Time
	onChange     func(from, to State)
}

// NewCircuitBreaker creates a circuit breaker; a nil config uses
// [DefaultCircuitBreakerConfig].
func NewCircuitBreaker(cfg *CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCircuitBreakerConfig()
	if cfg == nil {
		cfg = def
	}
	cb := &CircuitBreaker{
		state:        StateClosed,
		maxFailures:  cfg.MaxFailures,
		resetTimeout: cfg.ResetTimeout,
		halfOpenMax:  cfg.HalfOpenMax,
		onChange:     cfg.OnStateChange,
	}
	if cb.maxFailures <= 0 {
		cb.maxFailures = def.MaxFailures
	}
	if cb.resetTimeout <= 0 {
		cb.resetTimeout = def.ResetTimeout
	}
	if cb.halfOpenMax <= 0 {
		cb.halfOpenMax = def.HalfOpenMax
	}
	return cb
}

// Execute runs fn unless the circuit is open.  A rejected call returns
// an error wrapping [ncerr.ErrCircuitOpen] without calling fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := fn()
	cb.record(err)
	return err
}

// CurrentState returns the current circuit breaker state.
func (cb *CircuitBreaker) CurrentState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the current consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset forces the circuit breaker back to closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	cb.failures = 0
	cb.successes = 0
	from, changed := cb.setState(StateClosed)
	cb.mu.Unlock()
	cb.notify(from, StateClosed, changed)
}

// ── internal ─────────────────────────────────────────────────────────

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	if cb.state != StateOpen {
		cb.mu.Unlock()
		return nil
	}
	elapsed := time.Since(cb.openedAt)
	if elapsed < cb.resetTimeout {
		failures := cb.failures
		cb.mu.Unlock()
		return fmt.Errorf("%w: %d consecutive failures, retry in %v",
			ncerr.ErrCircuitOpen, failures, (cb.resetTimeout - elapsed).Truncate(time.Millisecond))
	}
	cb.successes = 0
	from, changed := cb.setState(StateHalfOpen)
	cb.mu.Unlock()
	cb.notify(from, StateHalfOpen, changed)
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	to := cb.state
	if err != nil {
		cb.failures++
		cb.successes = 0
		if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
			to = StateOpen
			cb.openedAt = time.Now()
		}
	} else {
		cb.successes++
		switch cb.state {
		case StateHalfOpen:
			if cb.successes >= cb.halfOpenMax {
				cb.failures = 0
				to = StateClosed
			}
		case StateClosed:
			cb.failures = 0
		}
	}
	from, changed := cb.setState(to)
	cb.mu.Unlock()
	cb.notify(from, to, changed)
}

// setState must be called with cb.mu held.
func (cb *CircuitBreaker) setState(to State) (from State, changed bool) {
	from = cb.state
	cb.state = to
	return from, from != to
}

func (cb *CircuitBreaker) notify(from, to State, changed bool) {
	if changed && cb.onChange != nil {
		cb.onChange(from, to)
	}
}
