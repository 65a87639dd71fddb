package provider

import (
	"github.com/rangevfs/httpvfs/internal/httppath"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// CreateDirectory always fails: this is a read-only filesystem over a
// remote resource.
func (p *Provider) CreateDirectory(*httppath.Path) error {
	return &vfserrors.UnsupportedOperationError{Op: "createDirectory"}
}

// Delete always fails.
func (p *Provider) Delete(*httppath.Path) error {
	return &vfserrors.UnsupportedOperationError{Op: "delete"}
}

// Move always fails.
func (p *Provider) Move(src, dst *httppath.Path) error {
	return &vfserrors.UnsupportedOperationError{Op: "move"}
}

// Copy always fails.
func (p *Provider) Copy(src, dst *httppath.Path) error {
	return &vfserrors.UnsupportedOperationError{Op: "copy"}
}

// SetAttribute always fails.
func (p *Provider) SetAttribute(*httppath.Path, string, interface{}) error {
	return &vfserrors.UnsupportedOperationError{Op: "setAttribute"}
}

// NewDirectoryStream always fails: no directory listing.
func (p *Provider) NewDirectoryStream(*httppath.Path) error {
	return &vfserrors.UnsupportedOperationError{Op: "newDirectoryStream"}
}

// RegisterWatch always fails: no watch service.
func (p *Provider) RegisterWatch(*httppath.Path) error {
	return &vfserrors.UnsupportedOperationError{Op: "register (watch service)"}
}

// PathMatcher always fails: no path matcher.
func (p *Provider) PathMatcher(string) error {
	return &vfserrors.UnsupportedOperationError{Op: "getPathMatcher"}
}

// FileStore always fails: no file store / attribute-view surface beyond
// ReadAttributes.
func (p *Provider) FileStore(*httppath.Path) error {
	return &vfserrors.UnsupportedOperationError{Op: "getFileStore"}
}
