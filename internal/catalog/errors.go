// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package catalog loads the Vitrina datasets (content, site configuration,
// recommendations) over a pluggable transport with retry, TTL caching and
// stale fallback, and exposes derived catalog queries.
package catalog

import (
	"errors"
	"fmt"
)

// Argument errors raised by derived queries before any load is attempted.
var (
	// ErrEmptyID indicates a lookup with an empty content ID.
	ErrEmptyID = errors.New("content id must not be empty")

	// ErrEmptyType indicates a lookup with an empty content type.
	ErrEmptyType = errors.New("content type must not be empty")
)

// TransportError indicates a failed fetch attempt: a request error or a
// non-2xx response from the dataset origin.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s returned status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError indicates a dataset body that could not be decoded or
// whose top-level shape does not match the dataset contract.
type ValidationError struct {
	Dataset string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s dataset: %v", e.Dataset, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// LoadError is the terminal failure surfaced by a load after retries are
// exhausted and no cached data exists to fall back on. The originating
// cause is reachable through errors.Is/As.
type LoadError struct {
	Dataset string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s dataset failed: %v", e.Dataset, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
