// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPFetcherSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/content.json" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Expected Accept header application/json, got %q", got)
		}
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	f := NewHTTPFetcher(server.URL, 5*time.Second)
	body, err := f.Fetch(context.Background(), "/data/content.json")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != `{"content":[]}` {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestHTTPFetcherNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewHTTPFetcher(server.URL, 5*time.Second)
	_, err := f.Fetch(context.Background(), "/data/content.json")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %v", err)
	}
	if transportErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", transportErr.Status)
	}
}

func TestHTTPFetcherTrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/config.json" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	f := NewHTTPFetcher(server.URL+"/", 5*time.Second)
	if _, err := f.Fetch(context.Background(), "/data/config.json"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
}

func TestFileFetcherReadsDatasets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "content.json"), []byte(`{"content":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	f := NewFileFetcher(dir)
	body, err := f.Fetch(context.Background(), "/data/content.json")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != `{"content":[]}` {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestFileFetcherMissingFile(t *testing.T) {
	f := NewFileFetcher(t.TempDir())
	_, err := f.Fetch(context.Background(), "/data/recommendations.json")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %v", err)
	}
	if transportErr.Status != http.StatusNotFound {
		t.Errorf("Expected 404-equivalent status, got %d", transportErr.Status)
	}
}

func TestBreakerFetcherOpensAfterFailures(t *testing.T) {
	inner := newFakeFetcher()
	inner.errs["/data/content.json"] = &TransportError{URL: "/data/content.json", Status: 500}

	b := NewBreakerFetcher(inner)

	// Drive enough failures to trip the breaker (>=5 requests, 60% failure).
	for i := 0; i < 6; i++ {
		_, _ = b.Fetch(context.Background(), "/data/content.json")
	}

	before := inner.callCount("/data/content.json")
	_, err := b.Fetch(context.Background(), "/data/content.json")
	if err == nil {
		t.Fatal("Expected failure from open breaker")
	}
	if inner.callCount("/data/content.json") != before {
		t.Error("Expected open breaker to fail fast without touching the transport")
	}

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("Expected rejection to surface as *TransportError, got %T", err)
	}
}

func TestBreakerFetcherPassesThroughSuccess(t *testing.T) {
	inner := newFakeFetcher()
	inner.responses["/data/config.json"] = []byte(`{}`)

	b := NewBreakerFetcher(inner)
	body, err := b.Fetch(context.Background(), "/data/config.json")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != `{}` {
		t.Errorf("Unexpected body: %s", body)
	}
}
