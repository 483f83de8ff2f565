package resilience

import (
	"context"
	"testing"
	"time"

	"smartdraft-be/pkg/errs"
)

func identityJitter(d time.Duration) time.Duration { return d }

// recordingSleeper captures every scheduled delay without sleeping.
func recordingSleeper(delays *[]time.Duration) Sleeper {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestInvokeSucceedsAfterTransientFailures(t *testing.T) {
	policy := Policy{MaxRetries: 3, BaseDelay: time.Second}
	attempts := 0

	var delays []time.Duration
	result, err := InvokeWith(context.Background(), policy, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errs.New(errs.KindRetrievalUnavailable, "backend down")
		}
		return "ok", nil
	}, recordingSleeper(&delays), identityJitter)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want ok", result)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestInvokeExhaustsRetryBudget(t *testing.T) {
	policy := Policy{MaxRetries: 3, BaseDelay: time.Second}
	attempts := 0

	var delays []time.Duration
	_, err := InvokeWith(context.Background(), policy, func(ctx context.Context) (int, error) {
		attempts++
		return 0, errs.New(errs.KindGenerationUnavailable, "model down")
	}, recordingSleeper(&delays), identityJitter)

	if err == nil {
		t.Fatal("expected terminal error")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want exactly MaxRetries", attempts)
	}
	if errs.KindOf(err) != errs.KindGenerationUnavailable {
		t.Errorf("kind = %v, want GenerationUnavailable", errs.KindOf(err))
	}
}

func TestInvokeBackoffDoubles(t *testing.T) {
	policy := Policy{MaxRetries: 4, BaseDelay: 100 * time.Millisecond}

	var delays []time.Duration
	_, _ = InvokeWith(context.Background(), policy, func(ctx context.Context) (int, error) {
		return 0, errs.New(errs.KindRetrievalUnavailable, "down")
	}, recordingSleeper(&delays), identityJitter)

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("scheduled %d delays, want %d", len(delays), len(want))
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestInvokeNonTransientFailsImmediately(t *testing.T) {
	policy := Policy{MaxRetries: 5, BaseDelay: time.Second}
	attempts := 0

	var delays []time.Duration
	_, err := InvokeWith(context.Background(), policy, func(ctx context.Context) (int, error) {
		attempts++
		return 0, errs.New(errs.KindGenerationMemoryExhausted, "oom")
	}, recordingSleeper(&delays), identityJitter)

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retries for non-transient failures)", attempts)
	}
	if len(delays) != 0 {
		t.Errorf("scheduled %d delays, want 0", len(delays))
	}
	if errs.KindOf(err) != errs.KindGenerationMemoryExhausted {
		t.Errorf("kind = %v, want GenerationMemoryExhausted", errs.KindOf(err))
	}
}

func TestInvokeDeadlineMapsToTimeout(t *testing.T) {
	policy := Policy{MaxRetries: 3, BaseDelay: time.Millisecond, Timeout: 10 * time.Millisecond}

	_, err := Invoke(context.Background(), policy, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	if errs.KindOf(err) != errs.KindTimeout {
		t.Errorf("kind = %v, want Timeout", errs.KindOf(err))
	}
}

func TestInvokePerAttemptTimeoutIsRetryable(t *testing.T) {
	policy := Policy{MaxRetries: 3, BaseDelay: time.Second}
	attempts := 0

	var delays []time.Duration
	result, err := InvokeWith(context.Background(), policy, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			// An attempt-scoped deadline, not the invocation-wide one.
			return "", context.DeadlineExceeded
		}
		return "ok", nil
	}, recordingSleeper(&delays), identityJitter)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" || attempts != 2 {
		t.Errorf("result = %q after %d attempts, want ok after 2", result, attempts)
	}
}

func TestPolicyDelays(t *testing.T) {
	policy := Policy{MaxRetries: 4, BaseDelay: time.Second}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

	got := policy.Delays()
	if len(got) != len(want) {
		t.Fatalf("Delays() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Delays()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
