package provider

import (
	"net/url"

	"github.com/rangevfs/httpvfs/internal/httppath"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// GetPath validates rawURI's scheme and authority against p, lazily creates
// the authority's FileSystem if needed, and returns the resulting Path.
func (p *Provider) GetPath(rawURI string) (*httppath.Path, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, &vfserrors.InvalidArgumentError{Message: "malformed URI", Cause: err}
	}
	if u.Scheme != p.scheme {
		return nil, &vfserrors.ProviderMismatchError{Expected: p.scheme, Actual: u.Scheme}
	}
	if u.Host == "" {
		return nil, &vfserrors.InvalidArgumentError{Message: "URI must have an authority"}
	}

	fs, err := p.GetOrCreateFileSystem(u.Host)
	if err != nil {
		return nil, err
	}
	return httppath.FromURI(fs, u)
}

// pathFileSystem asserts path belongs to one of this provider's registered
// filesystems, returning ProviderMismatchError otherwise.
func (p *Provider) pathFileSystem(path *httppath.Path) (*FileSystem, error) {
	fs, ok := path.FileSystem().(*FileSystem)
	if !ok || fs.provider != p {
		return nil, &vfserrors.ProviderMismatchError{Expected: p.scheme, Actual: path.FileSystem().Scheme()}
	}
	return fs, nil
}
