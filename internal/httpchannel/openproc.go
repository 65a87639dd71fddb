package httpchannel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rangevfs/httpvfs/internal/observability"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// openAt builds and sends a GET for uri, optionally range-requested at
// position, validates the response status against the shape of the
// request, and returns a buffered reader over the body (spec section 4.5,
// "Open procedure").
func openAt(ctx context.Context, client *http.Client, uri string, position int64, logger *slog.Logger, metrics *observability.Metrics) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &vfserrors.InvalidArgumentError{Message: "malformed URI", Cause: err}
	}

	isRangeRequest := position != 0
	if isRangeRequest {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", position))
	}

	resp, err := client.Do(req)
	if err != nil {
		metrics.ObserveRequest("GET", "error")
		return nil, err
	}

	if err := validateOpenStatus(uri, resp.StatusCode, isRangeRequest); err != nil {
		resp.Body.Close()
		metrics.ObserveRequest("GET", "invalid-status")
		return nil, err
	}

	metrics.ObserveRequest("GET", "ok")
	return &bufferedBody{r: bufio.NewReader(resp.Body), closer: resp.Body}, nil
}

// validateOpenStatus implements spec section 4.5's status-validation
// table:
//
//	200, non-ranged  -> ok
//	206, ranged      -> ok
//	200, ranged      -> IncompatibleRangeResponse
//	206, non-ranged  -> IncompatibleRangeResponse
//	404              -> FileNotFound
//	anything else    -> UnexpectedHTTPResponse
func validateOpenStatus(uri string, status int, isRangeRequest bool) error {
	switch status {
	case http.StatusOK:
		if isRangeRequest {
			return &vfserrors.IncompatibleRangeResponseError{URI: uri, StatusCode: status, WasRanged: true}
		}
		return nil
	case http.StatusPartialContent:
		if !isRangeRequest {
			return &vfserrors.IncompatibleRangeResponseError{URI: uri, StatusCode: status, WasRanged: false}
		}
		return nil
	case http.StatusNotFound:
		return &vfserrors.FileNotFoundError{URI: uri}
	default:
		return &vfserrors.UnexpectedHTTPResponseError{URI: uri, StatusCode: status}
	}
}

// bufferedBody wraps a buffered reader over an HTTP response body with the
// body's own Close, so closing the channel's inner stream also releases
// the underlying connection (spec: "Close the inner stream, which also
// closes the underlying byte source").
type bufferedBody struct {
	r      *bufio.Reader
	closer io.Closer
}

func (b *bufferedBody) Read(p []byte) (int, error) {
	return b.r.Read(p)
}

func (b *bufferedBody) Close() error {
	return b.closer.Close()
}
