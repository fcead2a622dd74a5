// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package catalog

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/metrics"
)

// BreakerFetcher wraps a Fetcher with the circuit breaker pattern,
// preventing hammering of a dataset origin that is down or misbehaving.
// While the circuit is open, fetch attempts fail fast without touching
// the transport; the loader's stale fallback then serves expired cache.
type BreakerFetcher struct {
	inner Fetcher
	cb    *gobreaker.CircuitBreaker[[]byte]
	name  string
}

// NewBreakerFetcher wraps inner with a circuit breaker.
// Configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 30 second timeout before attempting recovery
// - Opens after 60% failure rate with minimum 5 requests
func NewBreakerFetcher(inner Fetcher) *BreakerFetcher {
	cbName := "dataset-origin"
	metrics.BreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerFetcher{inner: inner, cb: cb, name: cbName}
}

// Fetch executes one fetch attempt through the circuit breaker.
func (b *BreakerFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	data, err := b.cb.Execute(func() ([]byte, error) {
		return b.inner.Fetch(ctx, path)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.BreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Str("path", path).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, &TransportError{URL: path, Err: err}
		}
		metrics.BreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.BreakerRequests.WithLabelValues(b.name, "success").Inc()
	return data, nil
}

// stateToFloat converts circuit breaker state to a numeric metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to a string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
