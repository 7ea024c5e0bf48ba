package recovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calyptra/squadrun/internal/providers"
)

// fakeSleep records requested delays and returns immediately.
func fakeSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func transientErr() error {
	return &providers.UpstreamError{Status: 503, Message: "overloaded"}
}

func TestNextDelayDoubles(t *testing.T) {
	policy := NewPolicy(3, 10*time.Second)

	want := []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second}
	for attempt, expected := range want {
		if got := policy.NextDelay(attempt); got != expected {
			t.Fatalf("attempt %d: expected delay %s, got %s", attempt, expected, got)
		}
	}
}

func TestDoRetriesExactlyMaxRetriesPlusOne(t *testing.T) {
	var delays []time.Duration
	policy := NewPolicy(3, 10*time.Second)
	policy.Sleep = fakeSleep(&delays)

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return transientErr()
	})

	if attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", attempts)
	}

	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %v", err)
	}
	if fatal.Class != Unknown {
		t.Fatalf("exhaustion should report unknown_fatal, got %s", fatal.Class)
	}

	wantDelays := []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second}
	if len(delays) != len(wantDelays) {
		t.Fatalf("expected %d sleeps, got %d", len(wantDelays), len(delays))
	}
	for i, want := range wantDelays {
		if delays[i] != want {
			t.Fatalf("sleep %d: expected %s, got %s", i, want, delays[i])
		}
	}
}

func TestDoQuotaFailsOnFirstAttempt(t *testing.T) {
	var delays []time.Duration
	policy := NewPolicy(3, 10*time.Second)
	policy.Sleep = fakeSleep(&delays)

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return &providers.UpstreamError{Status: 429, Code: "insufficient_quota"}
	})

	if attempts != 1 {
		t.Fatalf("quota exhaustion must not retry, got %d attempts", attempts)
	}
	if len(delays) != 0 {
		t.Fatalf("quota exhaustion must not sleep, got %d sleeps", len(delays))
	}

	var fatal *FatalError
	if !errors.As(err, &fatal) || fatal.Class != QuotaExhausted {
		t.Fatalf("expected quota FatalError, got %v", err)
	}
}

func TestDoUnknownFailsImmediately(t *testing.T) {
	policy := NewPolicy(3, time.Second)
	policy.Sleep = fakeSleep(&[]time.Duration{})

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return &providers.UpstreamError{Status: 400, Message: "bad request"}
	})

	if attempts != 1 {
		t.Fatalf("unknown failures must not retry, got %d attempts", attempts)
	}

	var fatal *FatalError
	if !errors.As(err, &fatal) || fatal.Class != Unknown {
		t.Fatalf("expected unknown FatalError, got %v", err)
	}
}

func TestDoLocalErrorBypassesEnvelope(t *testing.T) {
	policy := NewPolicy(3, time.Second)
	policy.Sleep = fakeSleep(&[]time.Duration{})

	localErr := errors.New("prompt.txt is missing")
	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return localErr
	})

	if attempts != 1 {
		t.Fatalf("local errors must not retry, got %d attempts", attempts)
	}
	if !errors.Is(err, localErr) {
		t.Fatalf("local error must propagate unchanged, got %v", err)
	}

	var fatal *FatalError
	if errors.As(err, &fatal) {
		t.Fatal("local error must not be wrapped in FatalError")
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	var delays []time.Duration
	policy := NewPolicy(3, 10*time.Second)
	policy.Sleep = fakeSleep(&delays)

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts <= 2 {
			return transientErr()
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}

	total := time.Duration(0)
	for _, d := range delays {
		total += d
	}
	if total != 30*time.Second {
		t.Fatalf("expected 30s total backoff, got %s", total)
	}
}

func TestDoStopsWhenContextCancelled(t *testing.T) {
	policy := NewPolicy(3, time.Second)
	policy.Sleep = fakeSleep(&[]time.Duration{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := policy.Do(ctx, func(context.Context) error {
		return transientErr()
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDoNotifiesObserver(t *testing.T) {
	var observed []Classification
	policy := NewPolicy(1, time.Second)
	policy.Sleep = fakeSleep(&[]time.Duration{})
	policy.OnAttempt = func(attempt int, class Classification, delay time.Duration, err error) {
		observed = append(observed, class)
	}

	_ = policy.Do(context.Background(), func(context.Context) error {
		return transientErr()
	})

	// One retryable attempt observed with a delay, one terminal observation.
	if len(observed) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(observed))
	}
}

func TestSleepContextHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- sleepContext(ctx, time.Minute)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sleep did not return after cancellation")
	}
}
