package provider

import (
	"errors"
	"sync"
	"testing"

	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

func TestNewFileSystemAlreadyExists(t *testing.T) {
	p := New("http", nil)
	if _, err := p.NewFileSystem("example.com"); err != nil {
		t.Fatalf("first NewFileSystem: %v", err)
	}
	_, err := p.NewFileSystem("example.com")
	var alreadyExists *vfserrors.FileSystemAlreadyExistsError
	if !errors.As(err, &alreadyExists) {
		t.Fatalf("expected FileSystemAlreadyExistsError, got %v", err)
	}
}

func TestGetFileSystemNotFound(t *testing.T) {
	p := New("http", nil)
	_, err := p.GetFileSystem("example.com")
	var notFound *vfserrors.FileSystemNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected FileSystemNotFoundError, got %v", err)
	}
}

func TestAuthorityLookupIsCaseInsensitive(t *testing.T) {
	p := New("http", nil)
	if _, err := p.NewFileSystem("Example.COM"); err != nil {
		t.Fatalf("NewFileSystem: %v", err)
	}
	if _, err := p.GetFileSystem("example.com"); err != nil {
		t.Fatalf("expected case-insensitive lookup to succeed, got %v", err)
	}
}

func TestGetOrCreateFileSystemCollapsesConcurrentCreation(t *testing.T) {
	p := New("http", nil)
	const n = 20
	var wg sync.WaitGroup
	results := make([]*FileSystem, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fs, err := p.GetOrCreateFileSystem("example.com")
			if err != nil {
				t.Errorf("GetOrCreateFileSystem: %v", err)
				return
			}
			results[i] = fs
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("expected all concurrent creations to observe the same FileSystem instance")
		}
	}
}

func TestGetPathRejectsWrongScheme(t *testing.T) {
	p := New("https", nil)
	_, err := p.GetPath("http://example.com/foo")
	var mismatch *vfserrors.ProviderMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ProviderMismatchError, got %v", err)
	}
}

func TestGetPathRequiresAuthority(t *testing.T) {
	p := New("http", nil)
	_, err := p.GetPath("http:///foo")
	if err == nil {
		t.Fatal("expected an error for a URI with no authority")
	}
}
