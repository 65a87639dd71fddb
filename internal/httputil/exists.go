package httputil

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/rangevfs/httpvfs/internal/config"
	"github.com/rangevfs/httpvfs/internal/retry"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// Exists probes uri with a HEAD request under the retry engine and reports
// whether it exists, per spec section 4.6:
//   - 200 or 206 -> true
//   - 404 -> false
//   - 401, 403, 407 -> AccessDeniedError (never "not found" — auth failures
//     surface explicitly rather than masquerading as a missing resource)
//   - anything else -> UnexpectedHTTPResponseError
//
// A connection failure whose cause chain contains an unresolved address
// (DNS failure) is treated as non-existence rather than surfaced as an
// error, matching the spec's "unresolvable.invalid" scenario. A canceled
// context surfaces as InterruptedIOError.
func Exists(ctx context.Context, client *http.Client, uri string, classifier *retry.Classifier, maxRetries int) (bool, error) {
	var exists bool

	op := func(ctx context.Context, _ int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, nil)
		if err != nil {
			return &vfserrors.InvalidArgumentError{Message: "malformed URI", Cause: err}
		}

		resp, err := client.Do(req)
		if err != nil {
			if isUnresolvedAddress(err) {
				exists = false
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return &vfserrors.InterruptedIOError{Cause: err}
			}
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusPartialContent:
			exists = true
			return nil
		case resp.StatusCode == http.StatusNotFound:
			exists = false
			return nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusProxyAuthRequired:
			return &vfserrors.AccessDeniedError{URI: uri, StatusCode: resp.StatusCode}
		default:
			return &vfserrors.UnexpectedHTTPResponseError{URI: uri, StatusCode: resp.StatusCode}
		}
	}

	err := retry.RunWithRetries(ctx, maxRetries, classifier, op)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func isUnresolvedAddress(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
