package httppath

import "github.com/rangevfs/httpvfs/internal/vfserrors"

// ToFile always fails: an HTTP path has no local filesystem representation.
func (p *Path) ToFile() error {
	return &vfserrors.UnsupportedOperationError{Op: "toFile"}
}

// Register always fails: watch-service registration is out of scope.
func (p *Path) Register() error {
	return &vfserrors.UnsupportedOperationError{Op: "register"}
}

// Normalize always fails; HTTP paths are already stored normalized and
// have no "." / ".." segment semantics to collapse.
func (p *Path) Normalize() error {
	return &vfserrors.UnsupportedOperationError{Op: "normalize"}
}

// Relativize always fails.
func (p *Path) Relativize(*Path) error {
	return &vfserrors.UnsupportedOperationError{Op: "relativize"}
}

// ToRealPath always fails: there is no on-disk canonicalization for a
// remote resource.
func (p *Path) ToRealPath() error {
	return &vfserrors.UnsupportedOperationError{Op: "toRealPath"}
}
