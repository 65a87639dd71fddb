package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/rangevfs/httpvfs/internal/config"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

func TestClassifierRetryableHTTPCode(t *testing.T) {
	c := NewClassifier(config.RetryConfig{RetryableHTTPCodes: []int{503}})
	err := &vfserrors.UnexpectedHTTPResponseError{URI: "http://x", StatusCode: 503}
	if !c.IsRetryable(err) {
		t.Fatal("expected 503 to be retryable")
	}
	err2 := &vfserrors.UnexpectedHTTPResponseError{URI: "http://x", StatusCode: 404}
	if c.IsRetryable(err2) {
		t.Fatal("expected 404 to be non-retryable")
	}
}

func TestClassifierMessageSubstring(t *testing.T) {
	c := NewClassifier(config.RetryConfig{RetryableMessages: []string{"protocol error:"}})
	err := errors.New("protocol error: stream reset")
	if !c.IsRetryable(err) {
		t.Fatal("expected message substring match to be retryable")
	}
}

func TestClassifierPredicate(t *testing.T) {
	sentinel := errors.New("boom")
	c := NewClassifier(config.RetryConfig{
		RetryPredicate: func(err error) bool { return errors.Is(err, sentinel) },
	})
	if !c.IsRetryable(sentinel) {
		t.Fatal("expected predicate match to be retryable")
	}
	if c.IsRetryable(errors.New("other")) {
		t.Fatal("expected non-matching error to be non-retryable")
	}
}

func TestRunWithRetriesSucceedsAfterRetries(t *testing.T) {
	c := NewClassifier(config.RetryConfig{RetryableMessages: []string{"transient"}})
	attempts := 0
	err := RunWithRetries(context.Background(), 3, c, func(_ context.Context, attempt int) error {
		attempts++
		if attempt < 2 {
			return errors.New("transient failure")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRunWithRetriesNonRetryableStopsImmediately(t *testing.T) {
	c := NewClassifier(config.RetryConfig{RetryableMessages: []string{"transient"}})
	attempts := 0
	sentinel := errors.New("fatal")
	err := RunWithRetries(context.Background(), 3, c, func(_ context.Context, _ int) error {
		attempts++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt for a non-retryable failure, got %d", attempts)
	}
}

func TestRunWithRetriesExhaustsBudget(t *testing.T) {
	c := NewClassifier(config.RetryConfig{RetryableMessages: []string{"transient"}})
	attempts := 0
	err := RunWithRetries(context.Background(), 2, c, func(_ context.Context, _ int) error {
		attempts++
		return errors.New("transient failure")
	})
	var outOfRetries *OutOfRetries
	if !errors.As(err, &outOfRetries) {
		t.Fatalf("expected *OutOfRetries, got %v", err)
	}
	if outOfRetries.Attempts != 3 {
		t.Fatalf("expected 3 total attempts, got %d", outOfRetries.Attempts)
	}
	if attempts != 3 {
		t.Fatalf("expected op invoked 3 times, got %d", attempts)
	}
}

func TestTryOnceThenWithRetriesUsesDistinctFirstOp(t *testing.T) {
	c := NewClassifier(config.RetryConfig{RetryableMessages: []string{"transient"}})
	var sawFirst, sawRetry bool
	err := TryOnceThenWithRetries(context.Background(), 2, c,
		func(_ context.Context, _ int) error {
			sawFirst = true
			return errors.New("transient failure")
		},
		func(_ context.Context, _ int) error {
			sawRetry = true
			return nil
		},
	)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !sawFirst || !sawRetry {
		t.Fatalf("expected both first and retry ops to run, got first=%v retry=%v", sawFirst, sawRetry)
	}
}

func TestBackoffDelayCapsAtShift7(t *testing.T) {
	if backoffDelay(1) != backoffDelay(1) {
		t.Fatal("backoffDelay should be deterministic")
	}
	if backoffDelay(10) != backoffDelay(7) {
		t.Fatalf("expected shift to cap at 7, got delay(10)=%v delay(7)=%v", backoffDelay(10), backoffDelay(7))
	}
}
