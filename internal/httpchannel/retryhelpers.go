package httpchannel

import (
	"context"
	"errors"

	"github.com/rangevfs/httpvfs/internal/retry"
)

// runHeadWithRetries runs op under the channel's retry budget, recording
// an out-of-retries observation on exhaustion. Factored out of Size since
// both the constructor's open-under-retry path and the HEAD path share the
// same "run, then account for exhaustion" shape.
func runHeadWithRetries(ctx context.Context, c *Channel, op retry.Op) error {
	err := retry.RunWithRetries(ctx, c.maxRetries, c.classifier, withRetryLogging(c, op))
	if err == nil {
		return nil
	}
	var outOfRetries *retry.OutOfRetries
	if errors.As(err, &outOfRetries) {
		c.metrics.ObserveOutOfRetries()
	}
	return err
}
