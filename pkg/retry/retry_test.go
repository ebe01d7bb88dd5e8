package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	"github.com/mablhq/github-run-tests-action/pkg/schema"
)

func fastConfig(attempts int) schema.RetryConfig {
	return schema.RetryConfig{
		MaxAttempts:     attempts,
		BackoffStrategy: schema.BackoffConstant,
		InitialDelay:    time.Millisecond,
		MaxDelay:        10 * time.Millisecond,
		Multiplier:      2.0,
		MaxElapsedTime:  time.Second,
	}
}

func TestExecutor_Execute_Success(t *testing.T) {
	attempts := 0
	err := New(fastConfig(3)).Execute(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return errors.New("temporary error")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestExecutor_Execute_MaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	persistent := errors.New("persistent error")

	err := New(fastConfig(3)).Execute(context.Background(), func() error {
		attempts++
		return persistent
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.ErrorIs(t, err, errUtils.ErrMaxAttemptsExceeded)
	assert.ErrorIs(t, err, persistent)
}

func TestExecutor_Execute_SingleAttemptReturnsCause(t *testing.T) {
	cause := errors.New("only once")

	err := New(fastConfig(1)).Execute(context.Background(), func() error { return cause })

	assert.Equal(t, cause, err)
}

func TestExecutor_Execute_ContextCancelled(t *testing.T) {
	config := fastConfig(5)
	config.InitialDelay = time.Minute
	config.MaxDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := New(config).Execute(ctx, func() error {
		attempts++
		cancel()
		return errors.New("error")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, errUtils.ErrRetryCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecutor_Execute_MaxElapsedTimeExceeded(t *testing.T) {
	config := fastConfig(10)
	config.MaxElapsedTime = 20 * time.Millisecond

	err := New(config).Execute(context.Background(), func() error {
		time.Sleep(15 * time.Millisecond)
		return errors.New("error")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errUtils.ErrRetryTimeout)
}

func TestExecutor_ExecuteWithPredicate_StopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	attempts := 0

	err := WithPredicate(context.Background(), &schema.RetryConfig{MaxAttempts: 5}, func() error {
		attempts++
		return fatal
	}, func(err error) bool { return !errors.Is(err, fatal) })

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, attempts)
}

func TestExecutor_CalculateDelay(t *testing.T) {
	tests := []struct {
		name     string
		strategy schema.BackoffStrategy
		maxDelay time.Duration
		expected []time.Duration
	}{
		{
			name:     "constant",
			strategy: schema.BackoffConstant,
			maxDelay: time.Second,
			expected: []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond},
		},
		{
			name:     "linear",
			strategy: schema.BackoffLinear,
			maxDelay: time.Second,
			expected: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond},
		},
		{
			name:     "exponential",
			strategy: schema.BackoffExponential,
			maxDelay: time.Second,
			expected: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond},
		},
		{
			name:     "exponential capped by max delay",
			strategy: schema.BackoffExponential,
			maxDelay: 300 * time.Millisecond,
			expected: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := New(schema.RetryConfig{
				BackoffStrategy: tt.strategy,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        tt.maxDelay,
				Multiplier:      2.0,
			})
			for i, want := range tt.expected {
				assert.Equal(t, want, executor.calculateDelay(i+1), "attempt %d", i+1)
			}
		})
	}
}

func TestExecutor_CalculateDelay_JitterStaysWithinTenPercent(t *testing.T) {
	executor := New(schema.RetryConfig{
		BackoffStrategy: schema.BackoffConstant,
		InitialDelay:    time.Second,
		RandomJitter:    true,
	})

	for i := 0; i < 50; i++ {
		delay := executor.calculateDelay(1)
		assert.GreaterOrEqual(t, delay, 900*time.Millisecond)
		assert.LessOrEqual(t, delay, 1100*time.Millisecond)
	}
}

func TestDo_ReturnsValue(t *testing.T) {
	attempts := 0
	config := fastConfig(3)

	value, err := Do(context.Background(), &config, func() (string, error) {
		attempts++
		if attempts == 1 {
			return "", errors.New("flaky")
		}
		return "deployment-id", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "deployment-id", value)
	assert.Equal(t, 2, attempts)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 3, config.MaxAttempts)
	assert.Equal(t, schema.BackoffExponential, config.BackoffStrategy)
	assert.True(t, config.RandomJitter)
}
