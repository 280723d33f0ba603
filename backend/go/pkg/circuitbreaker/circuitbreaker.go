package circuitbreaker

import (
	"KneeHeal/backend/go/internal/config"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	// Closed is the initial state where requests are allowed.
	Closed State = iota
	// Open state is when the circuit has tripped and requests are blocked.
	Open
	// HalfOpen allows trial requests to probe whether the downstream recovered.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned when the circuit breaker is in the Open state.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to a downstream dependency such as a remote inference endpoint.
type CircuitBreaker interface {
	// Execute runs req unless the circuit is open.
	Execute(req func() (interface{}, error)) (interface{}, error)
	// State returns the current state of the circuit breaker.
	State() State
}

type breaker struct {
	failureThreshold uint32
	successThreshold uint32
	timeout          time.Duration

	mu        sync.Mutex
	state     State
	failures  uint32
	successes uint32
	openedAt  time.Time
	now       func() time.Time
}

// New creates a circuit breaker.
// failureThreshold: consecutive failures that open the circuit.
// successThreshold: consecutive half-open successes that close it again.
// timeout: how long the circuit stays open before allowing a trial request.
func New(failureThreshold, successThreshold uint32, timeout time.Duration) CircuitBreaker {
	return newBreaker(failureThreshold, successThreshold, timeout, time.Now)
}

func newBreaker(failureThreshold, successThreshold uint32, timeout time.Duration, now func() time.Time) *breaker {
	if failureThreshold == 0 {
		failureThreshold = 1
	}
	if successThreshold == 0 {
		successThreshold = 1
	}
	return &breaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		state:            Closed,
		now:              now,
	}
}

// FromConfig builds a breaker from the middleware section of the config.
// It returns nil when the breaker is disabled.
func FromConfig(cfg config.CircuitBreakerConfig) (CircuitBreaker, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit breaker timeout duration: %w", err)
	}
	return New(cfg.FailureThreshold, cfg.SuccessThreshold, timeout), nil
}

func (cb *breaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.advance()
	return cb.state
}

func (cb *breaker) Execute(req func() (interface{}, error)) (interface{}, error) {
	cb.mu.Lock()
	cb.advance()
	if cb.state == Open {
		cb.mu.Unlock()
		return nil, ErrCircuitOpen
	}
	cb.mu.Unlock()

	res, err := req()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
		return nil, err
	}
	cb.onSuccess()
	return res, nil
}

// advance moves Open to HalfOpen once the timeout has elapsed. Caller holds mu.
func (cb *breaker) advance() {
	if cb.state == Open && cb.now().Sub(cb.openedAt) > cb.timeout {
		cb.state = HalfOpen
		cb.successes = 0
	}
}

func (cb *breaker) onSuccess() {
	switch cb.state {
	case HalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = Closed
			cb.failures = 0
			cb.successes = 0
		}
	case Closed:
		cb.failures = 0
	}
}

func (cb *breaker) onFailure() {
	switch cb.state {
	case HalfOpen:
		cb.trip()
	case Closed:
		cb.failures++
		if cb.failures >= cb.failureThreshold {
			cb.trip()
		}
	}
}

func (cb *breaker) trip() {
	cb.state = Open
	cb.openedAt = cb.now()
	cb.failures = 0
	cb.successes = 0
}
