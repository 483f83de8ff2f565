package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"smartdraft-be/pkg/errs"
)

// Policy bounds one resilient invocation. MaxRetries is the total attempt
// budget; Timeout caps wall-clock time across all attempts and waits.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Timeout    time.Duration
}

// DelayFor returns the backoff delay scheduled after a failed attempt
// (1-based): BaseDelay * 2^(attempt-1). Pure, so retry timing is testable
// without real time passing.
func (p Policy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay << uint(attempt-1)
}

// Delays lists every backoff delay the policy can schedule, in order.
func (p Policy) Delays() []time.Duration {
	if p.MaxRetries < 2 {
		return nil
	}
	out := make([]time.Duration, 0, p.MaxRetries-1)
	for attempt := 1; attempt < p.MaxRetries; attempt++ {
		out = append(out, p.DelayFor(attempt))
	}
	return out
}

// Sleeper suspends for d or returns early with the context error. Injected in
// tests so retry sequencing runs instantly.
type Sleeper func(ctx context.Context, d time.Duration) error

// Jitter perturbs a scheduled delay. The default adds up to 10% so concurrent
// retriers against a shared backend do not fire in lockstep.
type Jitter func(d time.Duration) time.Duration

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func defaultJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d)/10+1))
}

// Invoke runs op under the policy's deadline, retrying transient failures
// with exponential backoff. Non-transient failures return immediately without
// consuming the retry budget. Each invocation owns its backoff state; nothing
// is shared across concurrent calls, and no lock is held while waiting.
func Invoke[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	return InvokeWith(ctx, p, op, sleepContext, defaultJitter)
}

// InvokeWith is Invoke with the suspension primitives injected.
func InvokeWith[T any](ctx context.Context, p Policy, op func(context.Context) (T, error), sleep Sleeper, jitter Jitter) (T, error) {
	var zero T

	attempts := p.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Only the invocation-wide deadline short-circuits the retry loop; a
		// per-attempt timeout is a transient failure like any other.
		if ctx.Err() != nil {
			return zero, errs.Wrap(errs.KindTimeout, "operation timed out", err)
		}
		if !errs.Transient(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, jitter(p.DelayFor(attempt))); err != nil {
			return zero, errs.Wrap(errs.KindTimeout, "operation timed out", err)
		}
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		return zero, errs.Wrap(errs.KindTimeout, "operation timed out", lastErr)
	}
	return zero, lastErr
}
