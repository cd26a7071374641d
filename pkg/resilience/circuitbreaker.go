package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/arno756/storage-advisor/pkg/logger"
)

// ErrCircuitOpen is returned when the circuit is open and calls are short-circuited
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the current state of a circuit breaker
type State string

const (
	// StateClosed means the circuit is closed and requests are allowed to pass through
	StateClosed State = "closed"
	// StateOpen means the circuit is open and requests are being short-circuited
	StateOpen State = "open"
	// StateHalfOpen means the circuit is allowing a limited number of test requests
	StateHalfOpen State = "half-open"
)

// CircuitBreaker protects a downstream dependency from sustained failure
type CircuitBreaker struct {
	name             string
	state            State
	failureThreshold uint
	successThreshold uint
	retryTimeout     time.Duration
	mutex            sync.Mutex
	failureCount     uint
	successCount     uint
	nextAttemptTime  time.Time
	log              *logger.Logger
}

// Config holds configuration for a circuit breaker
type Config struct {
	Name             string
	FailureThreshold uint
	SuccessThreshold uint
	RetryTimeout     time.Duration
}

// DefaultConfig returns a default circuit breaker configuration
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		RetryTimeout:     60 * time.Second,
	}
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config Config, log *logger.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		name:             config.Name,
		state:            StateClosed,
		failureThreshold: config.FailureThreshold,
		successThreshold: config.SuccessThreshold,
		retryTimeout:     config.RetryTimeout,
		log:              log,
	}
}

// State returns the current state
func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Execute runs fn through the circuit breaker. When the circuit is open,
// fn is not invoked and ErrCircuitOpen is returned.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Now().After(cb.nextAttemptTime) {
			cb.transition(StateHalfOpen)
			return true
		}
		return false
	case StateHalfOpen:
		return true
	}
	return true
}

func (cb *CircuitBreaker) record(err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if err == nil {
		cb.failureCount = 0
		if cb.state == StateHalfOpen {
			cb.successCount++
			if cb.successCount >= cb.successThreshold {
				cb.transition(StateClosed)
			}
		}
		return
	}

	cb.successCount = 0
	cb.failureCount++

	if cb.state == StateHalfOpen || cb.failureCount >= cb.failureThreshold {
		cb.nextAttemptTime = time.Now().Add(cb.retryTimeout)
		cb.transition(StateOpen)
	}
}

// transition changes state; callers must hold the mutex
func (cb *CircuitBreaker) transition(next State) {
	if cb.state == next {
		return
	}

	cb.log.Warn("circuit breaker state change",
		"name", cb.name,
		"from", string(cb.state),
		"to", string(next),
	)

	cb.state = next
	cb.failureCount = 0
	cb.successCount = 0
}
