//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=await.go -destination=mock_result_fetcher_test.go -package=mabl

package mabl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	log "github.com/mablhq/github-run-tests-action/pkg/logger"
	"github.com/mablhq/github-run-tests-action/pkg/mabl/dtos"
)

// DefaultPollInterval is the wait before every execution result poll.
const DefaultPollInterval = 10 * time.Second

// ResultFetcher fetches the execution results of a deployment event.
type ResultFetcher interface {
	GetExecutionResults(ctx context.Context, eventID string) (*dtos.ExecutionResult, error)
}

// AwaitState is the state of the polling loop.
type AwaitState int

const (
	Polling AwaitState = iota
	Complete
)

func (s AwaitState) String() string {
	if s == Complete {
		return "complete"
	}
	return "polling"
}

// Awaiter polls a deployment event until every triggered plan run is complete.
type Awaiter struct {
	fetcher ResultFetcher

	// Interval is the wait before each poll.
	Interval time.Duration

	// Timeout bounds the whole wait. Zero waits until the context is cancelled.
	Timeout time.Duration

	after func(time.Duration) <-chan time.Time
}

// AwaiterOption configures an Awaiter.
type AwaiterOption func(*Awaiter)

// WithInterval overrides the poll interval.
func WithInterval(interval time.Duration) AwaiterOption {
	return func(a *Awaiter) {
		if interval > 0 {
			a.Interval = interval
		}
	}
}

// WithTimeout bounds the total wait.
func WithTimeout(timeout time.Duration) AwaiterOption {
	return func(a *Awaiter) {
		a.Timeout = timeout
	}
}

// NewAwaiter creates an Awaiter polling fetcher every DefaultPollInterval.
func NewAwaiter(fetcher ResultFetcher, opts ...AwaiterOption) *Awaiter {
	a := &Awaiter{
		fetcher:  fetcher,
		Interval: DefaultPollInterval,
		after:    time.After,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PendingExecutions returns the executions that are not complete yet.
func PendingExecutions(result *dtos.ExecutionResult) []dtos.Execution {
	if result == nil {
		return nil
	}
	return lo.Filter(result.Executions, func(execution dtos.Execution, _ int) bool {
		return !execution.IsComplete()
	})
}

// Poll performs a single fetch and classifies the result.
// A result without an executions list is still polling.
func (a *Awaiter) Poll(ctx context.Context, eventID string) (AwaitState, []dtos.Execution, error) {
	result, err := a.fetcher.GetExecutionResults(ctx, eventID)
	if err != nil {
		return Polling, nil, err
	}
	if result == nil || result.Executions == nil {
		return Polling, nil, nil
	}

	pending := PendingExecutions(result)
	if len(pending) == 0 {
		return Complete, nil, nil
	}
	return Polling, pending, nil
}

// Await waits for every plan run of the event to complete, then fetches and returns the final result.
func (a *Awaiter) Await(ctx context.Context, eventID string) (*dtos.ExecutionResult, error) {
	pollCtx := ctx
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	state := Polling
	for state != Complete {
		select {
		case <-pollCtx.Done():
			return nil, a.contextError(pollCtx)
		case <-a.after(a.Interval):
		}

		var (
			pending []dtos.Execution
			err     error
		)
		state, pending, err = a.Poll(pollCtx, eventID)
		if err != nil {
			if pollCtx.Err() != nil {
				return nil, a.contextError(pollCtx)
			}
			return nil, err
		}
		if state == Polling && len(pending) > 0 {
			log.Info(fmt.Sprintf("%d mabl plan(s) are still running", len(pending)))
		}
	}

	log.Info("mabl deployment runs have completed")

	return a.fetcher.GetExecutionResults(ctx, eventID)
}

func (a *Awaiter) contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && a.Timeout > 0 {
		return fmt.Errorf("%w after %v", errUtils.ErrAwaitTimedOut, a.Timeout)
	}
	return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrAwaitCancelled, ctx.Err())
}
