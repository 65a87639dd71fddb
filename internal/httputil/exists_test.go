package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rangevfs/httpvfs/internal/config"
	"github.com/rangevfs/httpvfs/internal/retry"
	"github.com/rangevfs/httpvfs/internal/vfserrors"
)

func testClassifier() *retry.Classifier {
	return retry.NewClassifier(config.RetryConfig{})
}

func TestExistsTrueOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	exists, err := Exists(context.Background(), srv.Client(), srv.URL, testClassifier(), 0)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true for a 200 response")
	}
}

func TestExistsFalseOn404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	exists, err := Exists(context.Background(), srv.Client(), srv.URL, testClassifier(), 0)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for a 404 response")
	}
}

func TestExistsFalseOnUnresolvableAddress(t *testing.T) {
	exists, err := Exists(context.Background(), http.DefaultClient, "http://unresolvable.invalid/resource", testClassifier(), 0)
	if err != nil {
		t.Fatalf("expected a DNS failure to report exists=false, not an error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for an unresolvable address")
	}
}

func TestExistsAccessDeniedOn403(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := Exists(context.Background(), srv.Client(), srv.URL, testClassifier(), 0)
	var denied *vfserrors.AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
}
