package retry

import (
	"fmt"
	"time"
)

// OutOfRetries is returned when a run exhausts its retry budget without a
// successful attempt. It wraps the last cause and carries the bookkeeping
// spec section 4.4 calls for: attempt count and total accumulated sleep.
type OutOfRetries struct {
	Attempts   int
	TotalSleep time.Duration
	Cause      error
}

func (e *OutOfRetries) Error() string {
	return fmt.Sprintf("out of retries after %d attempts (%s slept): %v", e.Attempts, e.TotalSleep, e.Cause)
}

func (e *OutOfRetries) Unwrap() error {
	return e.Cause
}
