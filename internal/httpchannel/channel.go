// Package httpchannel implements the seekable HTTP byte channel: section
// 4.5 of the core design. A Channel converts point reads and seeks into
// ranged GET requests, decides when to stream-skip vs. reopen, recovers
// from mid-stream failures without corrupting the caller's read buffer,
// and enforces a strict open/closed state machine.
//
// Grounded on the teacher's internal/fetcher/http.go for request
// construction and retry classification shape, and on the seekable-file
// patterns in the example pack's itchio-httpkit httpfile.go (skip/backtrack
// cache, renewal-on-seek) and cloudengio-go.pkgs http_largefile.go
// (range-request construction, HEAD for size). The retry/backoff mechanics
// themselves live in internal/retry and are reused, not reimplemented.
package httpchannel

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/rangevfs/httpvfs/internal/observability"
	"github.com/rangevfs/httpvfs/internal/retry"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// skipDistance is the forward-seek threshold within which the channel
// prefers to consume and discard bytes from the current stream rather than
// open a new connection (spec section 4.5, "SKIP_DISTANCE"). The spec's
// open question about whether to expose this as configurable is resolved
// in DESIGN.md: it stays a package constant, matching the source's
// un-tunable behavior, since no caller in scope needs a different value.
const skipDistance = 8192

// Channel is a stateful, single-owner seekable byte stream over one HTTP
// resource. Every exported method serializes on the channel's own mutex:
// the type is safe to call from multiple goroutines, but operations never
// overlap, matching spec section 4.5's "every method serializes on the
// channel itself."
type Channel struct {
	id  string
	uri string

	client     *http.Client
	classifier *retry.Classifier
	maxRetries int
	logger     *slog.Logger
	metrics    *observability.Metrics

	mu       sync.Mutex
	position int64
	size     int64 // -1 = unknown
	body     io.ReadCloser
	open     bool
}

// Open constructs a Channel at the given initial offset (>= 0), performing
// the "open" procedure under retry (spec section 4.5, "Construction").
func Open(ctx context.Context, uri string, client *http.Client, classifier *retry.Classifier, maxRetries int, logger *slog.Logger, metrics *observability.Metrics, initialOffset int64) (*Channel, error) {
	if initialOffset < 0 {
		return nil, &vfserrors.InvalidArgumentError{Message: "initial offset must be >= 0"}
	}

	id := uuid.NewString()
	c := &Channel{
		id:         id,
		uri:        uri,
		client:     client,
		classifier: classifier,
		maxRetries: maxRetries,
		logger:     logger.With("component", "httpchannel", "channel_id", id, "uri", uri),
		metrics:    metrics,
		size:       -1,
	}

	var body io.ReadCloser
	op := func(ctx context.Context, _ int) error {
		b, err := openAt(ctx, c.client, c.uri, initialOffset, c.logger, c.metrics)
		if err != nil {
			return err
		}
		body = b
		return nil
	}
	if err := runHeadWithRetries(ctx, c, op); err != nil {
		return nil, err
	}

	c.body = body
	c.position = initialOffset
	c.open = true
	c.metrics.ChannelOpened()
	return c, nil
}

// withRetryLogging wraps op so every attempt after the first logs at warn
// level (spec section 6: "log lines at warn level on retry").
func withRetryLogging(c *Channel, op retry.Op) retry.Op {
	return func(ctx context.Context, attempt int) error {
		if attempt > 0 {
			c.logger.Warn("retrying after transient failure", "attempt", attempt)
			c.metrics.ObserveRetry()
		}
		return op(ctx, attempt)
	}
}

// IsOpen reports whether the channel is still open.
func (c *Channel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Close closes the inner stream. Idempotent: closing an already-closed
// channel is a no-op.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Channel) closeLocked() error {
	if !c.open {
		return nil
	}
	var err error
	if c.body != nil {
		err = c.body.Close()
		c.body = nil
	}
	c.open = false
	c.metrics.ChannelClosed()
	return err
}

// closeSilently closes the inner stream, discarding any error, used
// internally before a reopen (spec's "close silently" used during
// retry/reopen).
func (c *Channel) closeSilently() {
	if c.body != nil {
		_ = c.body.Close()
		c.body = nil
	}
	c.open = false
}

func (c *Channel) requireOpenLocked() error {
	if !c.open {
		return &vfserrors.ClosedChannelError{URI: c.uri}
	}
	return nil
}

// Write always fails: the channel is permanently read-only.
func (c *Channel) Write([]byte) (int, error) {
	return 0, &vfserrors.NonWritableChannelError{Op: "write"}
}

// Truncate always fails: the channel is permanently read-only.
func (c *Channel) Truncate(int64) error {
	return &vfserrors.NonWritableChannelError{Op: "truncate"}
}
