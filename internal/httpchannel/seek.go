package httpchannel

import (
	"context"
	"errors"
	"io"

	"github.com/rangevfs/httpvfs/internal/retry"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// Position returns the channel's current offset.
func (c *Channel) Position() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOpenLocked(); err != nil {
		return 0, err
	}
	return c.position, nil
}

// SetPosition implements spec section 4.5's position-set procedure:
//   - no-op if new == current position
//   - a short forward seek (< skipDistance) tries to skip on the current
//     stream first, reopening only if that fails
//   - a backward seek, or a long forward seek, always reopens
func (c *Channel) SetPosition(ctx context.Context, newPosition int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOpenLocked(); err != nil {
		return err
	}
	if newPosition < 0 {
		return &vfserrors.InvalidArgumentError{Message: "position must be >= 0"}
	}
	if newPosition == c.position {
		return nil
	}

	forward := newPosition > c.position
	delta := newPosition - c.position

	if forward && delta < skipDistance {
		c.logger.Debug("skipping forward on current stream", "from", c.position, "to", newPosition)
		first := func(ctx context.Context, _ int) error {
			return skipOnStream(c.body, delta)
		}
		again := func(ctx context.Context, _ int) error {
			return c.reopenAtLocked(ctx, newPosition)
		}
		err := retry.TryOnceThenWithRetries(ctx, c.maxRetries, c.classifier, withRetryLogging(c, first), withRetryLogging(c, again))
		if err != nil {
			var outOfRetries *retry.OutOfRetries
			if errors.As(err, &outOfRetries) {
				c.metrics.ObserveOutOfRetries()
			}
			return err
		}
	} else {
		c.closeSilently()
		op := func(ctx context.Context, _ int) error {
			return c.reopenAtLocked(ctx, newPosition)
		}
		if err := retry.RunWithRetries(ctx, c.maxRetries, c.classifier, withRetryLogging(c, op)); err != nil {
			var outOfRetries *retry.OutOfRetries
			if errors.As(err, &outOfRetries) {
				c.metrics.ObserveOutOfRetries()
			}
			return err
		}
	}

	c.position = newPosition
	return nil
}

// reopenAtLocked closes the current stream (if any) and opens a fresh one
// at position, updating c.body and c.open. Caller must hold c.mu.
func (c *Channel) reopenAtLocked(ctx context.Context, position int64) error {
	c.closeSilently()
	body, err := openAt(ctx, c.client, c.uri, position, c.logger, c.metrics)
	if err != nil {
		return err
	}
	c.body = body
	c.open = true
	return nil
}

// skipOnStream discards exactly n bytes from r, failing if the stream
// refuses to advance at all (spec: "if the stream refuses to advance at
// all, raise an I/O failure").
func skipOnStream(r io.Reader, n int64) error {
	copied, err := io.CopyN(io.Discard, r, n)
	if copied == 0 && err != nil {
		return err
	}
	if copied < n {
		return io.ErrUnexpectedEOF
	}
	return nil
}
