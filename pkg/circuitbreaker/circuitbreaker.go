package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

type Config struct {
	// consecutive failures before opening
	FailureThreshold int
	// successes in half-open before closing again
	SuccessThreshold int
	// how long the breaker stays open before probing
	Timeout             time.Duration
	HalfOpenMaxRequests int
}

func DefaultConfig() Config {
	return Config{
		FailureThreshold:    5,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 3,
	}
}

type CircuitBreaker struct {
	config Config
	now    func() time.Time

	state         State
	failureCount  int
	successCount  int
	halfOpenCount int
	lastStateTime time.Time

	mu sync.Mutex
}

func NewCircuitBreaker(config Config) *CircuitBreaker {
	return &CircuitBreaker{
		config:        config,
		now:           time.Now,
		state:         StateClosed,
		lastStateTime: time.Now(),
	}
}

// Execute runs fn unless the breaker is open. fn's error is returned as is.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	cb.advance()
	switch cb.state {
	case StateOpen:
		cb.mu.Unlock()
		return ErrCircuitBreakerOpen
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.config.HalfOpenMaxRequests {
			cb.mu.Unlock()
			return ErrCircuitBreakerOpen
		}
		cb.halfOpenCount++
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
	return err
}

func (cb *CircuitBreaker) advance() {
	now := cb.now()
	switch cb.state {
	case StateOpen:
		if now.Sub(cb.lastStateTime) >= cb.config.Timeout {
			cb.setState(StateHalfOpen, now)
		}
	case StateHalfOpen:
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.setState(StateClosed, now)
		}
	case StateClosed:
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.setState(StateOpen, now)
		}
	}
}

func (cb *CircuitBreaker) setState(s State, at time.Time) {
	cb.state = s
	cb.lastStateTime = at
	cb.halfOpenCount = 0
	cb.successCount = 0
	if s == StateClosed {
		cb.failureCount = 0
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	if cb.state == StateHalfOpen {
		cb.setState(StateOpen, cb.now())
		return
	}
	if cb.state == StateClosed && cb.failureCount >= cb.config.FailureThreshold {
		cb.setState(StateOpen, cb.now())
	}
}

func (cb *CircuitBreaker) onSuccess() {
	if cb.state == StateHalfOpen {
		cb.successCount++
		cb.halfOpenCount--
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.setState(StateClosed, cb.now())
		}
		return
	}
	cb.failureCount = 0
}

func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.setState(StateClosed, cb.now())
}
