package retry

import (
	"context"
	"time"
)

// Op is a unit of work the retry engine can attempt. It receives the current
// attempt number (0-indexed) so callers can vary behavior (e.g. a fresh
// connection) between attempts if they need to.
type Op func(ctx context.Context, attempt int) error

// RunWithRetries runs op up to maxRetries+1 times total. Between attempts it
// sleeps backoffDelay(k) for the k-th retry. A failure is retried only if
// classifier reports it retryable; any non-retryable failure is returned
// immediately, collapsing what spec section 4.4 calls "non-retryable I/O
// failure" and "non-I/O runtime failure" into one outcome — Go has no
// checked/unchecked exception split to preserve that distinction across, and
// both cases mean the same thing here: stop and surface the error.
//
// If the budget is exhausted, the return value is an *OutOfRetries wrapping
// the final cause.
func RunWithRetries(ctx context.Context, maxRetries int, classifier *Classifier, op Op) error {
	return TryOnceThenWithRetries(ctx, maxRetries, classifier, op, op)
}

// TryOnceThenWithRetries runs first once, then — if it fails with a
// retryable error — continues the retry loop using retry for every
// subsequent attempt. This is the shape the seekable channel needs for
// open/read/reopen: the first attempt may differ from a retry attempt (e.g.
// "resume from the current offset" vs "start a request of a known range"),
// while both still share one retry budget and one backoff schedule.
func TryOnceThenWithRetries(ctx context.Context, maxRetries int, classifier *Classifier, first, retry Op) error {
	var totalSlept time.Duration

	err := first(ctx, 0)
	if err == nil {
		return nil
	}
	if !classifier.IsRetryable(err) {
		return err
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		slept, sleepErr := sleep(ctx, backoffDelay(attempt))
		totalSlept += slept
		if sleepErr != nil {
			return sleepErr
		}

		err = retry(ctx, attempt)
		if err == nil {
			return nil
		}
		if !classifier.IsRetryable(err) {
			return err
		}
	}

	return &OutOfRetries{
		Attempts:   maxRetries + 1,
		TotalSleep: totalSlept,
		Cause:      err,
	}
}
