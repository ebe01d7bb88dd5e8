package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	log "github.com/mablhq/github-run-tests-action/pkg/logger"
	"github.com/mablhq/github-run-tests-action/pkg/schema"
)

// Func represents a function that can be retried.
type Func func() error

// Executor handles the retry logic.
type Executor struct {
	config schema.RetryConfig
	rand   *rand.Rand
	after  func(time.Duration) <-chan time.Time
}

// New creates a new retry executor with the given config.
func New(config schema.RetryConfig) *Executor {
	return &Executor{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		after:  time.After,
	}
}

// Execute runs fn until it succeeds or the attempts are exhausted.
func (e *Executor) Execute(ctx context.Context, fn Func) error {
	return e.ExecuteWithPredicate(ctx, fn, RetryOnAnyError)
}

// ExecuteWithPredicate runs fn, retrying only errors for which shouldRetry returns true.
func (e *Executor) ExecuteWithPredicate(ctx context.Context, fn Func, shouldRetry func(error) bool) error {
	startTime := time.Now()
	maxAttempts := e.config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; ; attempt++ {
		if e.config.MaxElapsedTime > 0 && time.Since(startTime) > e.config.MaxElapsedTime {
			return fmt.Errorf("%w after %v", errUtils.ErrRetryTimeout, e.config.MaxElapsedTime)
		}

		err := fn()
		if err == nil {
			return nil
		}

		if !shouldRetry(err) {
			return err
		}

		if attempt >= maxAttempts {
			if maxAttempts == 1 {
				return err
			}
			return fmt.Errorf("%w (%d), last error: %w", errUtils.ErrMaxAttemptsExceeded, maxAttempts, err)
		}

		delay := e.calculateDelay(attempt)
		log.Debug("Retrying after error", "attempt", attempt, "max_attempts", maxAttempts, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrRetryCancelled, ctx.Err())
		case <-e.after(delay):
		}
	}
}

const jitterFlipChance = 0.5

// calculateDelay calculates the delay for the next retry attempt.
func (e *Executor) calculateDelay(attempt int) time.Duration {
	var delay time.Duration

	switch e.config.BackoffStrategy {
	case schema.BackoffLinear:
		delay = time.Duration(float64(e.config.InitialDelay) * float64(attempt))
	case schema.BackoffExponential:
		multiplier := e.config.Multiplier
		if multiplier <= 0 {
			multiplier = 2
		}
		delay = time.Duration(float64(e.config.InitialDelay) * math.Pow(multiplier, float64(attempt-1)))
	default:
		delay = e.config.InitialDelay
	}

	if e.config.MaxDelay > 0 && delay > e.config.MaxDelay {
		delay = e.config.MaxDelay
	}

	if e.config.RandomJitter {
		jitter := time.Duration(e.rand.Float64() * float64(delay) * 0.1) // 10% jitter
		if e.rand.Float64() < jitterFlipChance {
			delay += jitter
		} else {
			delay -= jitter
		}
		if delay < 0 {
			delay = 0
		}
	}

	return delay
}

// Do runs fn with retries and returns its value. A nil config uses DefaultConfig.
func Do[T any](ctx context.Context, config *schema.RetryConfig, fn func() (T, error)) (T, error) {
	if config == nil {
		temp := DefaultConfig()
		config = &temp
	}

	var result T
	err := New(*config).Execute(ctx, func() error {
		value, err := fn()
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	return result, err
}

// WithPredicate allows you to specify which errors should trigger a retry.
func WithPredicate(ctx context.Context, config *schema.RetryConfig, fn Func, shouldRetry func(error) bool) error {
	if config == nil {
		temp := DefaultConfig()
		config = &temp
	}
	return New(*config).ExecuteWithPredicate(ctx, fn, shouldRetry)
}

const (
	defaultMaxAttempts    = 3
	defaultInitialDelay   = 1 * time.Second
	defaultMaxDelay       = 10 * time.Second
	defaultMaxElapsedTime = 30 * time.Minute
)

// DefaultConfig is the policy used for mabl API calls: three attempts in total.
func DefaultConfig() schema.RetryConfig {
	return schema.RetryConfig{
		MaxAttempts:     defaultMaxAttempts,
		BackoffStrategy: schema.BackoffExponential,
		InitialDelay:    defaultInitialDelay,
		MaxDelay:        defaultMaxDelay,
		RandomJitter:    true,
		Multiplier:      2.0,
		MaxElapsedTime:  defaultMaxElapsedTime,
	}
}

// RetryOnAnyError retries on any error.
var RetryOnAnyError = func(err error) bool { return true }
