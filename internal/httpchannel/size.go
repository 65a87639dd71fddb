package httpchannel

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// Size returns the resource's total length, HEAD-ing the URI under retry
// on first call and caching the result thereafter. Reading never
// invalidates the cache (spec section 4.5, "Size"); whether a reopen
// should invalidate it is an explicit open question, resolved in
// DESIGN.md: it does not, matching the source's behavior.
func (c *Channel) Size(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOpenLocked(); err != nil {
		return 0, err
	}
	if c.size >= 0 {
		return c.size, nil
	}

	size, err := c.headSizeLocked(ctx)
	if err != nil {
		return 0, err
	}
	c.size = size
	return size, nil
}

func (c *Channel) headSizeLocked(ctx context.Context) (int64, error) {
	var size int64

	op := func(ctx context.Context, _ int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.uri, nil)
		if err != nil {
			return &vfserrors.InvalidArgumentError{Message: "malformed URI", Cause: err}
		}

		resp, err := c.client.Do(req)
		if err != nil {
			c.metrics.ObserveRequest("HEAD", "error")
			return err
		}
		defer resp.Body.Close()

		if err := validateOpenStatus(c.uri, resp.StatusCode, false); err != nil {
			c.metrics.ObserveRequest("HEAD", "invalid-status")
			return err
		}
		c.metrics.ObserveRequest("HEAD", "ok")

		values := resp.Header.Values("Content-Length")
		if len(values) != 1 {
			return &vfserrors.UnexpectedHTTPResponseError{URI: c.uri, StatusCode: resp.StatusCode}
		}
		n, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil || n < 0 {
			return &vfserrors.UnexpectedHTTPResponseError{URI: c.uri, StatusCode: resp.StatusCode}
		}
		size = n
		return nil
	}

	return size, runHeadWithRetries(ctx, c, op)
}
