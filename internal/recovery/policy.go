package recovery

import (
	"context"
	"fmt"
	"time"
)

// FatalError wraps a terminal dispatch failure with remediation guidance.
// The original diagnostic text stays reachable through Unwrap.
type FatalError struct {
	Class       Classification
	Remediation string
	Err         error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Remediation, e.Class, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// AttemptObserver sees every failed attempt: its index, classification, and
// the backoff delay chosen before the next try (zero when terminal).
type AttemptObserver func(attempt int, class Classification, delay time.Duration, err error)

// Policy runs one operation under classified retry with exponential backoff.
// The zero value never retries; use NewPolicy for the configured envelope.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	OnAttempt  AttemptObserver

	// Sleep is the backoff wait; replaced in tests. The default honors
	// context cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewPolicy(maxRetries int, baseDelay time.Duration) Policy {
	return Policy{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		Sleep:      sleepContext,
	}
}

// NextDelay returns base_delay * 2^attempt, with attempt indexed from 0.
func (p Policy) NextDelay(attempt int) time.Duration {
	return p.BaseDelay << uint(attempt)
}

// Do invokes op until it succeeds, the retry envelope is exhausted, or a
// non-retryable failure occurs. Local faults (errors with no upstream origin)
// propagate unchanged and unclassified.
func (p Policy) Do(ctx context.Context, op func(context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !IsUpstream(err) {
			return err
		}

		class := Classify(err)

		switch {
		case class == QuotaExhausted:
			p.observe(attempt, class, 0, err)
			return &FatalError{
				Class:       class,
				Remediation: "upstream quota exhausted; check your plan and billing details before rerunning",
				Err:         err,
			}
		case class == Unknown:
			p.observe(attempt, class, 0, err)
			return &FatalError{
				Class:       class,
				Remediation: "unrecognized upstream failure; inspect the diagnostic text before rerunning",
				Err:         err,
			}
		case attempt >= p.MaxRetries:
			p.observe(attempt, class, 0, err)
			return &FatalError{
				Class:       Unknown,
				Remediation: fmt.Sprintf("upstream still failing after %d attempts; wait a moment and rerun, or check your API usage limits", attempt+1),
				Err:         err,
			}
		}

		delay := p.NextDelay(attempt)
		p.observe(attempt, class, delay, err)

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (p Policy) observe(attempt int, class Classification, delay time.Duration, err error) {
	if p.OnAttempt != nil {
		p.OnAttempt(attempt, class, delay, err)
	}
}

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
