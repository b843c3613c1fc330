package inference

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the number of attempts and decides how long to wait
// before each retry. Backoff receives the number of attempts made so far.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// LinearBackoff waits attempt*step before the next attempt.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	Backoff:     LinearBackoff(time.Second),
}

type policyBackOff struct {
	policy  RetryPolicy
	attempt int
}

func (b *policyBackOff) NextBackOff() time.Duration {
	b.attempt++
	if b.attempt >= b.policy.MaxAttempts {
		return backoff.Stop
	}
	if b.policy.Backoff == nil {
		return 0
	}
	return b.policy.Backoff(b.attempt)
}

func (b *policyBackOff) Reset() {
	b.attempt = 0
}

// Retry runs op until it succeeds, the policy is exhausted or ctx is done,
// and returns the last error on failure. A nil timer uses real time.
func Retry[T any](ctx context.Context, policy RetryPolicy, timer backoff.Timer, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	attempt := 0
	operation := func() (T, error) {
		attempt++
		return op(ctx, attempt)
	}

	notify := func(err error, delay time.Duration) {
		slog.Warn("attempt failed, retrying", "attempt", attempt, "max_attempts", policy.MaxAttempts, "delay", delay, "error", err)
	}

	b := backoff.WithContext(&policyBackOff{policy: policy}, ctx)
	return backoff.RetryNotifyWithTimerAndData(operation, b, notify, timer)
}
