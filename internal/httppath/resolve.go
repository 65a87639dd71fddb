package httppath

import (
	"fmt"
	"strings"

	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

// Resolve concatenates self's bytes with other's, adopting other's query
// and fragment and preserving self's absolute flag. A nil other returns
// self. Resolving against an absolute other fails with unsupported-
// operation — a deliberate deviation from the generic path contract, kept
// so an HTTP path can never silently resolve into something a caller might
// mistake for a local filesystem path.
func (p *Path) Resolve(other *Path) (*Path, error) {
	if other == nil {
		return p, nil
	}
	if other.absolute {
		return nil, &vfserrors.UnsupportedOperationError{Op: "resolve against an absolute path"}
	}
	return &Path{
		fs:       p.fs,
		absolute: p.absolute,
		bytes:    p.bytes + "/" + other.bytes,
		query:    other.query,
		fragment: other.fragment,
	}, nil
}

// ResolveString parses other as a relative URI to extract path/query/
// fragment, rejecting unencoded characters, then resolves as Resolve does.
func (p *Path) ResolveString(other string) (*Path, error) {
	rawPath, query, fragment, err := parseRelativeComponents(other)
	if err != nil {
		return nil, err
	}
	normalized, absolute, err := normalizePathBytes(rawPath)
	if err != nil {
		return nil, err
	}
	return p.Resolve(&Path{fs: p.fs, absolute: absolute, bytes: normalized, query: query, fragment: fragment})
}

// ResolveSibling is equivalent to Parent().Resolve(other). Unlike Resolve, a
// nil other fails rather than returning self.
func (p *Path) ResolveSibling(other *Path) (*Path, error) {
	if other == nil {
		return nil, &vfserrors.InvalidArgumentError{Message: "resolveSibling requires a non-nil path"}
	}
	return p.Parent().Resolve(other)
}

// ToURI reconstructs scheme://authority/path[?query][#fragment].
func (p *Path) ToURI() string {
	var b strings.Builder
	b.WriteString(p.fs.Scheme())
	b.WriteString("://")
	b.WriteString(p.fs.Authority())
	b.WriteString(p.bytes)
	if p.query != nil {
		b.WriteByte('?')
		b.WriteString(*p.query)
	}
	if p.fragment != nil {
		b.WriteByte('#')
		b.WriteString(*p.fragment)
	}
	return b.String()
}

// ToAbsolutePath returns p unchanged if already absolute, otherwise a twin
// with the absolute flag set.
func (p *Path) ToAbsolutePath() *Path {
	if p.absolute {
		return p
	}
	twin := *p
	twin.absolute = true
	return &twin
}

// Compare orders p against other: a nil other or a different scheme fails
// with provider-mismatch; otherwise authority (case-insensitive), then path bytes (case-sensitive), then path length,
// then query (nil-first), then fragment (nil-first).
func (p *Path) Compare(other *Path) (int, error) {
	if other == nil || p.fs.Scheme() != other.fs.Scheme() {
		actual := ""
		if other != nil {
			actual = other.fs.Scheme()
		}
		return 0, &vfserrors.ProviderMismatchError{Expected: p.fs.Scheme(), Actual: actual}
	}
	if c := strings.Compare(strings.ToLower(p.fs.Authority()), strings.ToLower(other.fs.Authority())); c != 0 {
		return sign(c), nil
	}
	if c := strings.Compare(p.bytes, other.bytes); c != 0 {
		return sign(c), nil
	}
	if c := len(p.bytes) - len(other.bytes); c != 0 {
		return sign(c), nil
	}
	if c := compareOptional(p.query, other.query); c != 0 {
		return c, nil
	}
	return compareOptional(p.fragment, other.fragment), nil
}

// Equals reports whether p and other compare equal and share the same
// absolute flag.
func (p *Path) Equals(other *Path) bool {
	cmp, err := p.Compare(other)
	if err != nil {
		return false
	}
	return cmp == 0 && p.absolute == other.absolute
}

// HashKey returns a canonical string suitable as a map key or equality
// fingerprint, combining every field p.Equals compares on. It is the
// idiomatic Go stand-in for a hashCode: two equal paths produce equal keys,
// and absolute/relative twins produce distinct ones.
func (p *Path) HashKey() string {
	query, _ := p.Query()
	fragment, _ := p.Fragment()
	return fmt.Sprintf("%s|%v|%s|%s|%s", strings.ToLower(p.fs.Authority()), p.absolute, p.bytes, query, fragment)
}

func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return sign(strings.Compare(*a, *b))
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func parseRelativeComponents(s string) (path string, query, fragment *string, err error) {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		frag := s[i+1:]
		if err := validateEncoded(frag); err != nil {
			return "", nil, nil, err
		}
		fragment = &frag
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		q := s[i+1:]
		if err := validateEncoded(q); err != nil {
			return "", nil, nil, err
		}
		query = &q
		s = s[:i]
	}
	if err := validateEncoded(s); err != nil {
		return "", nil, nil, err
	}
	return s, query, fragment, nil
}

func validateEncoded(s string) error {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c <= 0x20 || c == 0x7F {
			return &vfserrors.InvalidArgumentError{Message: fmt.Sprintf("unencoded byte 0x%02x in %q", c, s)}
		}
	}
	return nil
}
