package resilience

import (
	"context"
	"errors"
	"time"

	pkgerrors "sptpts-backend/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for a backend circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// ReadyToTrip settings
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the settings used for the read path
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Breaker guards calls to one backend with a per-call timeout and a circuit breaker
type Breaker struct {
	name    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// NewBreaker creates a breaker. callTimeout bounds each call; zero disables it.
func NewBreaker(config BreakerConfig, callTimeout time.Duration, logger *zap.Logger) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: isSuccessful,
	})

	return &Breaker{
		name:    config.Name,
		timeout: callTimeout,
		cb:      cb,
	}
}

// Only backend faults count against the breaker
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if pkgerrors.IsNotFound(err) || pkgerrors.IsValidation(err) {
		return true
	}
	// the caller went away, the backend did nothing wrong
	return errors.Is(err, context.Canceled)
}

// Execute runs fn under the call timeout. Failures, timeouts and an open
// circuit are reported as unavailable AppErrors.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		callCtx := ctx
		if b.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		return fn(callCtx)
	})
	if err == nil {
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.NewUnavailableError(b.name).WithCode("CircuitOpen").WithCause(err)
	}
	if pkgerrors.IsNotFound(err) || pkgerrors.IsValidation(err) {
		return nil, err
	}
	return nil, pkgerrors.FromBackendError(b.name, err)
}

// State returns the breaker state name
func (b *Breaker) State() string {
	return b.cb.State().String()
}
