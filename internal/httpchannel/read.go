package httpchannel

import (
	"context"
	"errors"
	"io"

	"github.com/rangevfs/httpvfs/internal/retry"
)

// Read implements spec section 4.5's read procedure: the first attempt
// reads from the current inner stream; any retry attempt first closes the
// inner stream silently and reopens at the current position before
// reading. On success the position advances by the number of bytes read;
// on end-of-stream it is left unchanged.
func (c *Channel) Read(ctx context.Context, dst []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOpenLocked(); err != nil {
		return 0, err
	}

	var n int
	var readErr error

	first := func(ctx context.Context, _ int) error {
		n, readErr = bufferPreservingRead(c.body, dst)
		return classifiableReadError(readErr)
	}
	again := func(ctx context.Context, _ int) error {
		c.closeSilently()
		body, err := openAt(ctx, c.client, c.uri, c.position, c.logger, c.metrics)
		if err != nil {
			return err
		}
		c.body = body
		c.open = true
		n, readErr = bufferPreservingRead(c.body, dst)
		return classifiableReadError(readErr)
	}

	err := retry.TryOnceThenWithRetries(ctx, c.maxRetries, c.classifier, withRetryLogging(c, first), withRetryLogging(c, again))
	if err != nil {
		var outOfRetries *retry.OutOfRetries
		if errors.As(err, &outOfRetries) {
			c.metrics.ObserveOutOfRetries()
		}
		return 0, err
	}

	if n > 0 {
		c.position += int64(n)
		c.metrics.AddBytesRead(n)
	}
	return n, readErr
}

// classifiableReadError maps io.EOF to nil so the retry engine treats a
// clean end-of-stream as success, not a failure to classify and retry.
func classifiableReadError(err error) error {
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// bufferPreservingRead reads into a scratch buffer the size of dst and
// copies it into dst only if the read did not fail with a non-EOF error,
// so a mid-read failure never mutates the caller's buffer (spec section
// 4.5, "Buffer-preserving read"). This is the Go-idiomatic equivalent of
// duplicating a ByteBuffer's cursor/limit view before a read that might
// throw partway through.
func bufferPreservingRead(r io.Reader, dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	scratch := make([]byte, len(dst))
	n, err := r.Read(scratch)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	if n > 0 {
		copy(dst, scratch[:n])
	}
	return n, err
}
