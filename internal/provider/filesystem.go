// Package provider implements the scheme-dispatched provider and
// authority-keyed filesystem registry: section 4.2 of the URL-as-path
// model. A Provider is a singleton per scheme ("http", "https"); it holds a
// concurrent authority -> FileSystem map and mediates construction of
// paths, channels, and existence checks.
//
// The concurrent map pattern is grounded on the teacher's
// internal/engine/dedup.go Deduplicator: an RWMutex guarding a plain map,
// read-locked on lookup and write-locked on insert. Concurrent creation
// races for the same authority are collapsed with golang.org/x/sync/
// singleflight instead of a second locked check, since the work being
// deduplicated here (constructing a FileSystem) is itself an action with a
// result to share, not just a presence check.
package provider

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rangevfs/httpvfs/internal/config"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// FileSystem is identified by (scheme, authority). It is immutable, always
// open, and always read-only; the separator is "/".
type FileSystem struct {
	provider  *Provider
	scheme    string
	authority string
}

// Scheme implements httppath.FileSystem.
func (f *FileSystem) Scheme() string { return f.scheme }

// Authority implements httppath.FileSystem.
func (f *FileSystem) Authority() string { return f.authority }

// Provider is a singleton per scheme, holding the authority -> FileSystem
// cache and the process-wide settings those filesystems' channels use.
type Provider struct {
	scheme string

	mu    sync.RWMutex
	byAuthority map[string]*FileSystem

	group singleflight.Group

	settings *config.Store
}

// New returns a Provider for scheme ("http" or "https") with the given
// initial settings (DefaultSettings if nil).
func New(scheme string, settings *config.Settings) *Provider {
	return &Provider{
		scheme:      scheme,
		byAuthority: make(map[string]*FileSystem),
		settings:    config.NewStore(settings),
	}
}

// Settings returns the provider's atomic settings store, so callers can
// Load the current value or Swap in a replacement (spec section 6,
// "replace or read provider-wide settings").
func (p *Provider) Settings() *config.Store { return p.settings }

// NewFileSystem installs a new FileSystem for the URI's authority. It fails
// with FileSystemAlreadyExistsError if one is already registered, and with
// InvalidArgumentError if the URI has no authority.
func (p *Provider) NewFileSystem(authority string) (*FileSystem, error) {
	if authority == "" {
		return nil, &vfserrors.InvalidArgumentError{Message: "URI must have an authority"}
	}
	key := normalizeAuthority(authority)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.byAuthority[key]; exists {
		return nil, &vfserrors.FileSystemAlreadyExistsError{Authority: authority}
	}
	fs := &FileSystem{provider: p, scheme: p.scheme, authority: authority}
	p.byAuthority[key] = fs
	return fs, nil
}

// GetFileSystem returns the cached FileSystem for authority, or
// FileSystemNotFoundError.
func (p *Provider) GetFileSystem(authority string) (*FileSystem, error) {
	key := normalizeAuthority(authority)

	p.mu.RLock()
	fs, ok := p.byAuthority[key]
	p.mu.RUnlock()
	if !ok {
		return nil, &vfserrors.FileSystemNotFoundError{Authority: authority}
	}
	return fs, nil
}

// GetOrCreateFileSystem returns the cached FileSystem for authority,
// lazily creating it if absent. Concurrent callers racing to create the
// same authority's FileSystem are collapsed onto a single creation via
// singleflight, so only one FileSystem is ever installed per authority
// even under concurrent first access.
func (p *Provider) GetOrCreateFileSystem(authority string) (*FileSystem, error) {
	if fs, err := p.GetFileSystem(authority); err == nil {
		return fs, nil
	}

	key := normalizeAuthority(authority)
	result, err, _ := p.group.Do(key, func() (interface{}, error) {
		if fs, err := p.GetFileSystem(authority); err == nil {
			return fs, nil
		}
		return p.NewFileSystem(authority)
	})
	if err != nil {
		return nil, err
	}
	return result.(*FileSystem), nil
}

func normalizeAuthority(authority string) string {
	return toLowerASCII(authority)
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
