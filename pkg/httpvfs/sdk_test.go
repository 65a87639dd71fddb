package httpvfs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestOpenReadAllRoundTrip(t *testing.T) {
	body := "hello from httpvfs"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		io.WriteString(w, body)
	}))
	defer srv.Close()

	fsset := New()
	got, err := fsset.ReadAll(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != body {
		t.Fatalf("expected %q, got %q", body, string(got))
	}
}

func TestExistsAndPathRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	fsset := New()
	ctx := context.Background()

	exists, err := fsset.Exists(ctx, srv.URL+"/present")
	if err != nil {
		t.Fatalf("Exists(present): %v", err)
	}
	if !exists {
		t.Fatal("expected /present to exist")
	}

	exists, err = fsset.Exists(ctx, srv.URL+"/missing")
	if err != nil {
		t.Fatalf("Exists(missing): %v", err)
	}
	if exists {
		t.Fatal("expected /missing to not exist")
	}

	path, err := fsset.Path(srv.URL + "/present")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if got := fsset.ToURI(path); got != srv.URL+"/present" {
		t.Fatalf("expected ToURI round-trip %q, got %q", srv.URL+"/present", got)
	}
}

func TestFileSystemRegistersOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	fsset := New()
	a, err := fsset.FileSystem(srv.URL + "/x")
	if err != nil {
		t.Fatalf("FileSystem: %v", err)
	}
	b, err := fsset.FileSystem(srv.URL + "/y")
	if err != nil {
		t.Fatalf("FileSystem: %v", err)
	}
	if a != b {
		t.Fatal("expected the same authority to resolve to the same FileSystem instance")
	}
}

func TestSettingsSwapReplacesLoadedValue(t *testing.T) {
	fsset := New()
	store, err := fsset.Settings("http://example.com")
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	original := store.Load()
	if original.Retry.MaxRetries != 3 {
		t.Fatalf("expected default max retries 3, got %d", original.Retry.MaxRetries)
	}

	next := original.Clone()
	next.Retry.MaxRetries = 9
	store.Swap(next)

	if got := store.Load().Retry.MaxRetries; got != 9 {
		t.Fatalf("expected swapped max retries 9, got %d", got)
	}
}

func TestUnsupportedSchemeRejected(t *testing.T) {
	fsset := New()
	if _, err := fsset.Path("ftp://example.com/file"); err == nil {
		t.Fatal("expected an error for an unsupported scheme")
	}
}
