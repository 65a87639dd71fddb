package httpchannel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/rangevfs/httpvfs/internal/config"
	"github.com/rangevfs/httpvfs/internal/retry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClassifier() *retry.Classifier {
	return retry.NewClassifier(config.RetryConfig{
		RetryableMessages: []string{"connection reset"},
	})
}

func TestHappyFullRead(t *testing.T) {
	body := "Hello"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		io.WriteString(w, body)
	}))
	defer srv.Close()

	ctx := context.Background()
	ch, err := Open(ctx, srv.URL, srv.Client(), testClassifier(), 2, testLogger(), nil, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ch.Close()

	size, err := ch.Size(ctx)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 5 {
		t.Fatalf("expected size 5, got %d", size)
	}

	buf := make([]byte, 5)
	n, err := ch.Read(ctx, buf)
	if err != nil && err != io.EOF {
		t.Fatalf("Read: %v", err)
	}
	if n != 5 || string(buf) != "Hello" {
		t.Fatalf("expected 5 bytes %q, got %d bytes %q", "Hello", n, string(buf[:n]))
	}
	pos, _ := ch.Position()
	if pos != 5 {
		t.Fatalf("expected position 5, got %d", pos)
	}
}

func TestSeekWithinSkipWindowDoesNotReopen(t *testing.T) {
	data := make([]byte, 1<<20)
	var getCount atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			w.WriteHeader(http.StatusOK)
			return
		}
		getCount.Add(1)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}))
	defer srv.Close()

	ctx := context.Background()
	ch, err := Open(ctx, srv.URL, srv.Client(), testClassifier(), 2, testLogger(), nil, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ch.Close()

	buf := make([]byte, 100)
	if _, err := ch.Read(ctx, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := ch.SetPosition(ctx, 150); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	small := make([]byte, 10)
	if _, err := ch.Read(ctx, small); err != nil {
		t.Fatalf("Read after seek: %v", err)
	}
	pos, _ := ch.Position()
	if pos != 160 {
		t.Fatalf("expected position 160, got %d", pos)
	}
	if getCount.Load() != 1 {
		t.Fatalf("expected exactly 1 GET for an in-window forward seek, got %d", getCount.Load())
	}
}

func TestBackwardSeekForcesReopen(t *testing.T) {
	data := make([]byte, 1<<20)
	var lastRange atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			w.WriteHeader(http.StatusOK)
			return
		}
		rangeHeader := r.Header.Get("Range")
		lastRange.Store(rangeHeader)
		if rangeHeader == "" {
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			w.WriteHeader(http.StatusOK)
			w.Write(data)
			return
		}
		w.Header().Set("Content-Range", fmt.Sprintf("bytes 50-%d/%d", len(data)-1, len(data)))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(data[50:])
	}))
	defer srv.Close()

	ctx := context.Background()
	ch, err := Open(ctx, srv.URL, srv.Client(), testClassifier(), 2, testLogger(), nil, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ch.Close()

	buf := make([]byte, 200)
	if _, err := ch.Read(ctx, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := ch.SetPosition(ctx, 50); err != nil {
		t.Fatalf("SetPosition backward: %v", err)
	}
	if got := lastRange.Load(); got != "bytes=50-" {
		t.Fatalf("expected Range bytes=50-, got %v", got)
	}
}

func TestTransientFaultRecovers(t *testing.T) {
	var attempt atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempt.Add(1) == 1 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			conn, _, _ := hj.Hijack()
			conn.Close()
			return
		}
		w.Header().Set("Content-Length", "5")
		io.WriteString(w, "Hello")
	}))
	defer srv.Close()

	ctx := context.Background()
	classifier := retry.NewClassifier(config.RetryConfig{
		RetryPredicate: func(error) bool { return true },
	})
	ch, err := Open(ctx, srv.URL, srv.Client(), classifier, 2, testLogger(), nil, 0)
	if err != nil {
		t.Fatalf("expected recovery from a transient fault, got: %v", err)
	}
	defer ch.Close()
}

func TestExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		conn, _, _ := hj.Hijack()
		conn.Close()
	}))
	defer srv.Close()

	ctx := context.Background()
	classifier := retry.NewClassifier(config.RetryConfig{
		RetryPredicate: func(error) bool { return true },
	})
	_, err := Open(ctx, srv.URL, srv.Client(), classifier, 1, testLogger(), nil, 0)
	if err == nil {
		t.Fatal("expected out-of-retries error")
	}
	var outOfRetries *retry.OutOfRetries
	if !errors.As(err, &outOfRetries) {
		t.Fatalf("expected *retry.OutOfRetries, got %T: %v", err, err)
	}
	if outOfRetries.Attempts != 2 {
		t.Fatalf("expected 2 attempts (maxRetries=1), got %d", outOfRetries.Attempts)
	}
}

func TestRangeMismatchOnOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "5")
		io.WriteString(w, "Hello")
	}))
	defer srv.Close()

	ctx := context.Background()
	_, err := Open(ctx, srv.URL, srv.Client(), testClassifier(), 0, testLogger(), nil, 100)
	if err == nil {
		t.Fatal("expected incompatible-range-response error")
	}
}
