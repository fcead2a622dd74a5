// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxBodySize caps dataset responses at 50MB to prevent memory issues.
const maxBodySize = 50 * 1024 * 1024

// Fetcher retrieves a dataset body by its path relative to the deployment
// root (e.g. "/data/content.json"). Implementations return *TransportError
// for request failures and non-2xx responses.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// HTTPFetcher fetches datasets from a remote origin over HTTP GET.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates an HTTP fetcher for the given origin.
// A non-positive timeout selects 30 seconds.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch performs a single GET request for one dataset file.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	url := f.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Vitrina/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return data, nil
}

// FileFetcher reads datasets from a local deployment root. It serves
// static single-binary deployments where the JSON files ship next to the
// server, presenting the same transport contract as HTTPFetcher.
type FileFetcher struct {
	root string
}

// NewFileFetcher creates a fetcher rooted at dir. Paths passed to Fetch
// keep their "/data/..." form and resolve inside dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{root: dir}
}

// Fetch reads one dataset file. A missing file maps to a 404-equivalent
// transport failure so the loader's retry and fallback logic applies
// uniformly across transports.
func (f *FileFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	name := filepath.Join(f.root, filepath.FromSlash(strings.TrimPrefix(path, "/data/")))

	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TransportError{URL: name, Status: http.StatusNotFound}
		}
		return nil, &TransportError{URL: name, Err: err}
	}
	return data, nil
}
