// Package httppath implements the URL-as-path model: a normalized,
// scheme/authority-keyed path type over an HTTP/HTTPS URL, supporting the
// subset of filesystem-path semantics the provider SPI needs (root, parent,
// name count, startsWith/endsWith, resolve/resolveSibling, URI round-trip).
//
// Path storage is bytes rather than a parsed segment list — startsWith and
// endsWith operate at byte boundaries, and toUri reconstructs the original
// string directly from the stored bytes — mirroring how the teacher stores
// normalized strings rather than parsed trees throughout internal/config and
// internal/types.
package httppath

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// FileSystem identifies the filesystem a Path belongs to, for provider
// equality and URI reconstruction, without httppath importing the provider
// package (which constructs Paths and would otherwise create an import
// cycle).
type FileSystem interface {
	Scheme() string
	Authority() string
}

// Path is an immutable value object: a normalized, percent-encoded path
// component plus optional raw query and fragment, scoped to a FileSystem.
type Path struct {
	fs       FileSystem
	absolute bool
	bytes    string
	query    *string
	fragment *string
}

// NewAbsolute builds an absolute Path from its already percent-encoded
// components. rawPath must be empty (root) or start with "/". Repeated
// separators are collapsed and a single trailing separator is stripped
// unless the result is root.
func NewAbsolute(fs FileSystem, rawPath string, query, fragment *string) (*Path, error) {
	if rawPath != "" && !strings.HasPrefix(rawPath, "/") {
		return nil, &vfserrors.InvalidPathError{Input: rawPath, Reason: "absolute path must be empty or start with '/'"}
	}
	normalized, _, err := normalizePathBytes(rawPath)
	if err != nil {
		return nil, err
	}
	return &Path{fs: fs, absolute: true, bytes: normalized, query: query, fragment: fragment}, nil
}

// FromURI builds an absolute Path from a parsed URL's already-encoded
// path, query, and fragment.
func FromURI(fs FileSystem, u *url.URL) (*Path, error) {
	var query, fragment *string
	if u.ForceQuery || u.RawQuery != "" {
		q := u.RawQuery
		query = &q
	}
	if u.Fragment != "" {
		f := u.EscapedFragment()
		fragment = &f
	}
	return NewAbsolute(fs, u.EscapedPath(), query, fragment)
}

// FromComponents joins first and more with "/" and requires the result to
// be absolute; a relative join fails with an invalid-path error rather than
// silently producing a relative Path.
func FromComponents(fs FileSystem, first string, more ...string) (*Path, error) {
	raw := first
	for _, m := range more {
		raw += "/" + m
	}
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return nil, &vfserrors.InvalidPathError{Input: raw, Reason: "component join must produce an absolute path"}
	}
	normalized, _, err := normalizePathBytes(raw)
	if err != nil {
		return nil, err
	}
	return &Path{fs: fs, absolute: true, bytes: normalized}, nil
}

// Root returns the absolute, empty-byte-sequence path representing
// scheme://authority with no path component.
func Root(fs FileSystem) *Path {
	return &Path{fs: fs, absolute: true, bytes: ""}
}

func normalizePathBytes(raw string) (normalized string, absolute bool, err error) {
	if strings.IndexByte(raw, 0) >= 0 {
		return "", false, &vfserrors.InvalidPathError{Input: raw, Reason: "contains NUL byte"}
	}
	absolute = strings.HasPrefix(raw, "/")
	collapsed := collapseSeparators(raw)
	if collapsed != "/" {
		collapsed = strings.TrimSuffix(collapsed, "/")
	} else {
		collapsed = ""
	}
	return collapsed, absolute, nil
}

func collapseSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSlash := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// IsAbsolute reports whether p is absolute.
func (p *Path) IsAbsolute() bool { return p.absolute }

// FileSystem returns the FileSystem p belongs to.
func (p *Path) FileSystem() FileSystem { return p.fs }

// RawBytes returns the normalized, percent-encoded path component.
func (p *Path) RawBytes() string { return p.bytes }

// Query returns the raw query string and whether one is present.
func (p *Path) Query() (string, bool) {
	if p.query == nil {
		return "", false
	}
	return *p.query, true
}

// Fragment returns the raw fragment string and whether one is present.
func (p *Path) Fragment() (string, bool) {
	if p.fragment == nil {
		return "", false
	}
	return *p.fragment, true
}

func (p *Path) segments() []string {
	if p.bytes == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p.bytes, "/"), "/")
}

// NameCount returns the number of "/"-delimited non-empty segments; root
// yields 0.
func (p *Path) NameCount() int { return len(p.segments()) }

// FileName returns the last segment as a relative path, or nil for root.
func (p *Path) FileName() *Path {
	segs := p.segments()
	if len(segs) == 0 {
		return nil
	}
	return &Path{fs: p.fs, absolute: false, bytes: segs[len(segs)-1]}
}

// Parent returns all but the last segment, preserving the absolute flag.
// The root's parent is itself.
func (p *Path) Parent() *Path {
	if p.bytes == "" {
		return p
	}
	segs := p.segments()
	if len(segs) <= 1 {
		return &Path{fs: p.fs, absolute: p.absolute, bytes: ""}
	}
	return &Path{fs: p.fs, absolute: p.absolute, bytes: "/" + strings.Join(segs[:len(segs)-1], "/")}
}

// Name returns the i-th segment as a relative path. 0 <= i < NameCount()
// is required; violations fail with an invalid-argument error.
func (p *Path) Name(i int) (*Path, error) {
	segs := p.segments()
	if i < 0 || i >= len(segs) {
		return nil, &vfserrors.InvalidArgumentError{Message: fmt.Sprintf("name index %d out of range [0,%d)", i, len(segs))}
	}
	return &Path{fs: p.fs, absolute: false, bytes: segs[i]}, nil
}

// Subpath returns segments [b,e) as a relative path. 0 <= b < count and
// b < e <= count are required.
func (p *Path) Subpath(b, e int) (*Path, error) {
	segs := p.segments()
	n := len(segs)
	if b < 0 || b >= n || e <= b || e > n {
		return nil, &vfserrors.InvalidArgumentError{Message: fmt.Sprintf("subpath(%d,%d) out of range for count %d", b, e, n)}
	}
	return &Path{fs: p.fs, absolute: false, bytes: strings.Join(segs[b:e], "/")}, nil
}

// StartsWith reports whether p begins with other's normalized bytes at a
// segment boundary. A nil other, or one backed by a different filesystem,
// is never a prefix.
func (p *Path) StartsWith(other *Path) bool {
	if other == nil || !sameFileSystem(p.fs, other.fs) {
		return false
	}
	otherBytes := strings.TrimSuffix(other.bytes, "/")
	if !strings.HasPrefix(p.bytes, otherBytes) {
		return false
	}
	if len(otherBytes) == len(p.bytes) {
		return true
	}
	return p.bytes[len(otherBytes)] == '/'
}

// EndsWithPath reports whether p ends with other's normalized bytes at a
// segment boundary (spec's path-argument endsWith variant).
func (p *Path) EndsWithPath(other *Path) bool {
	if other == nil || !sameFileSystem(p.fs, other.fs) {
		return false
	}
	return boundaryMatch(p.bytes, other.bytes)
}

// EndsWithString reports whether p's raw bytes end with s at a segment
// boundary (spec's string-argument endsWith variant): unless the match
// exhausts the whole path, the byte preceding the match must be '/'. An
// empty string matches every path.
func (p *Path) EndsWithString(s string) bool {
	return boundaryMatch(p.bytes, s)
}

func boundaryMatch(full, suffix string) bool {
	if suffix == "" {
		return true
	}
	if !strings.HasSuffix(full, suffix) {
		return false
	}
	if len(suffix) == len(full) {
		return true
	}
	return full[len(full)-len(suffix)-1] == '/'
}

func sameFileSystem(a, b FileSystem) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Scheme() == b.Scheme() && strings.EqualFold(a.Authority(), b.Authority())
}
