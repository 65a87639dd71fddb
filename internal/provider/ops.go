package provider

import (
	"context"
	"log/slog"

	"github.com/rangevfs/httpvfs/internal/httpchannel"
	"github.com/rangevfs/httpvfs/internal/httppath"
	"github.com/rangevfs/httpvfs/internal/httputil"
	"github.com/rangevfs/httpvfs/internal/observability"
	"github.com/rangevfs/httpvfs/internal/retry"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// OpenOption enumerates the access modes NewByteChannel accepts. Per spec
// section 4.2, only Read (alone) is supported; any other combination fails
// with unsupported-operation.
type OpenOption int

const (
	// Read requests read access; the only supported option.
	Read OpenOption = iota
)

// NewByteChannel returns a new seekable HTTP channel over path at offset 0.
// options must be empty or exactly [Read]; path must belong to this
// provider.
func (p *Provider) NewByteChannel(ctx context.Context, path *httppath.Path, options []OpenOption, logger *slog.Logger, metrics *observability.Metrics) (*httpchannel.Channel, error) {
	if _, err := p.pathFileSystem(path); err != nil {
		return nil, err
	}
	if len(options) > 1 || (len(options) == 1 && options[0] != Read) {
		return nil, &vfserrors.UnsupportedOperationError{Op: "newByteChannel with options other than READ"}
	}

	settings := p.settings.Load()
	client := httputil.NewClient(settings)
	classifier := retry.NewClassifier(settings.Retry)

	return httpchannel.Open(ctx, path.ToURI(), client, classifier, settings.Retry.MaxRetries, logger, metrics, 0)
}

// CheckAccess performs a HEAD via internal/httputil and fails with
// FileNotFoundError if the resource doesn't exist. Any mode other than
// Read fails with unsupported-operation.
func (p *Provider) CheckAccess(ctx context.Context, path *httppath.Path, modes []OpenOption) error {
	if _, err := p.pathFileSystem(path); err != nil {
		return err
	}
	for _, m := range modes {
		if m != Read {
			return &vfserrors.UnsupportedOperationError{Op: "checkAccess with a mode other than READ"}
		}
	}

	settings := p.settings.Load()
	client := httputil.NewClient(settings)
	classifier := retry.NewClassifier(settings.Retry)

	exists, err := httputil.Exists(ctx, client, path.ToURI(), classifier, settings.Retry.MaxRetries)
	if err != nil {
		return err
	}
	if !exists {
		return &vfserrors.FileNotFoundError{URI: path.ToURI()}
	}
	return nil
}

// Attributes is the minimal read-only attribute record spec section 4.2
// calls for: isRegularFile is always true, and every other accessor is
// deliberately absent rather than faked.
type Attributes struct {
	IsRegularFile bool
}

// ReadAttributes returns the minimal attribute record for path.
func (p *Provider) ReadAttributes(path *httppath.Path) (Attributes, error) {
	if _, err := p.pathFileSystem(path); err != nil {
		return Attributes{}, err
	}
	return Attributes{IsRegularFile: true}, nil
}
