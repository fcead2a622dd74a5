// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/vitrina/internal/cache"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/metrics"
	"github.com/tomtom215/vitrina/internal/models"
	"github.com/tomtom215/vitrina/internal/validation"
)

// Dataset slot names. Each dataset occupies one named cache slot.
const (
	DatasetContent         = "content"
	DatasetConfig          = "config"
	DatasetRecommendations = "recommendations"
)

// datasetPaths maps slot names to their fixed paths under the deployment
// root.
var datasetPaths = map[string]string{
	DatasetContent:         "/data/content.json",
	DatasetConfig:          "/data/config.json",
	DatasetRecommendations: "/data/recommendations.json",
}

// Options tunes the loader's retry behavior.
type Options struct {
	// RetryAttempts is the number of retries after the first failed
	// attempt. Negative values are treated as zero.
	RetryAttempts int

	// RetryDelay is the fixed wait between attempts. Non-positive
	// values select one second.
	RetryDelay time.Duration
}

// Loader fetches the three Vitrina datasets with retry, caches successful
// results and falls back to stale cache when the origin fails.
//
// There is no single-flight de-duplication: concurrent loads of the same
// dataset may each hit the transport and converge on the cache once either
// resolves. This redundancy is accepted; the cache makes it harmless.
type Loader struct {
	fetcher       Fetcher
	store         *cache.Store
	retryAttempts int
	retryDelay    time.Duration

	// ttlOverrideOnce guards the one-time cache TTL override carried by
	// the configuration dataset.
	ttlOverrideOnce sync.Once
}

// New creates a Loader over the given transport and cache store.
func New(fetcher Fetcher, store *cache.Store, opts Options) *Loader {
	if opts.RetryAttempts < 0 {
		opts.RetryAttempts = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	return &Loader{
		fetcher:       fetcher,
		store:         store,
		retryAttempts: opts.RetryAttempts,
		retryDelay:    opts.RetryDelay,
	}
}

// LoadContent returns the content dataset, from cache when fresh.
func (l *Loader) LoadContent(ctx context.Context) (*models.ContentDataset, error) {
	return loadDataset[models.ContentDataset](ctx, l, DatasetContent, nil)
}

// LoadConfig returns the site configuration, from cache when fresh.
// The first successful load applies the performance.cacheDuration override
// (milliseconds) to the cache TTL; entries cached under the old TTL keep
// their original timestamps.
func (l *Loader) LoadConfig(ctx context.Context) (*models.SiteConfig, error) {
	return loadDataset(ctx, l, DatasetConfig, func(cfg *models.SiteConfig) {
		if cfg.Performance == nil || cfg.Performance.CacheDuration <= 0 {
			return
		}
		l.ttlOverrideOnce.Do(func() {
			ttl := time.Duration(cfg.Performance.CacheDuration) * time.Millisecond
			l.store.SetTTL(ttl)
			logging.Info().Dur("ttl", ttl).Msg("Cache TTL override applied from site configuration")
		})
	})
}

// LoadRecommendations returns the recommendation dataset, from cache when
// fresh.
func (l *Loader) LoadRecommendations(ctx context.Context) (*models.RecommendationDataset, error) {
	return loadDataset[models.RecommendationDataset](ctx, l, DatasetRecommendations, nil)
}

// PreloadAll loads all three datasets concurrently. A single failure
// fails the whole preload even if the other loads succeeded; their
// results still land in the cache.
func (l *Loader) PreloadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := l.LoadContent(ctx)
		return err
	})
	g.Go(func() error {
		_, err := l.LoadConfig(ctx)
		return err
	})
	g.Go(func() error {
		_, err := l.LoadRecommendations(ctx)
		return err
	})

	return g.Wait()
}

// GetContentByID returns the first item whose ID matches, or nil when no
// item matches. An empty id fails fast with ErrEmptyID.
func (l *Loader) GetContentByID(ctx context.Context, id string) (*models.ContentItem, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	dataset, err := l.LoadContent(ctx)
	if err != nil {
		return nil, err
	}

	for i := range dataset.Content {
		if dataset.Content[i].ID == id {
			return &dataset.Content[i], nil
		}
	}
	return nil, nil
}

// GetContentByType returns all items of the given type in dataset order.
// An empty type fails fast with ErrEmptyType.
func (l *Loader) GetContentByType(ctx context.Context, itemType string) ([]models.ContentItem, error) {
	if itemType == "" {
		return nil, ErrEmptyType
	}

	dataset, err := l.LoadContent(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.ContentItem, 0)
	for _, item := range dataset.Content {
		if item.Type == itemType {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// GetRecommendedContent joins the recommendation entries against the
// content dataset. Entries whose contentId does not resolve are silently
// dropped. Surviving items carry the entry's reason and priority, sorted
// ascending by priority; ties keep the original recommendation order.
func (l *Loader) GetRecommendedContent(ctx context.Context) ([]models.RecommendedItem, error) {
	recs, err := l.LoadRecommendations(ctx)
	if err != nil {
		return nil, err
	}
	content, err := l.LoadContent(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.ContentItem, len(content.Content))
	for i := range content.Content {
		byID[content.Content[i].ID] = &content.Content[i]
	}

	items := make([]models.RecommendedItem, 0, len(recs.Recommendations))
	for _, rec := range recs.Recommendations {
		item, ok := byID[rec.ContentID]
		if !ok {
			logging.Debug().Str("content_id", rec.ContentID).Msg("Dropping recommendation with unknown content id")
			continue
		}
		items = append(items, models.RecommendedItem{
			ContentItem: *item,
			Reason:      rec.Reason,
			Priority:    rec.Priority,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})
	return items, nil
}

// loadDataset implements the shared per-dataset load algorithm:
// fresh cache short-circuit, fetch-with-retry, decode, shape validation,
// cache store, stale fallback.
//
// onSuccess, when non-nil, runs after a successful fetch+validate with
// the decoded value (used for the config TTL override). It does not run
// for cache or stale-fallback reads.
func loadDataset[T any](ctx context.Context, l *Loader, dataset string, onSuccess func(*T)) (*T, error) {
	start := time.Now()

	if l.store.IsValid(dataset) {
		if cached, ok := l.store.Get(dataset); ok {
			metrics.CacheHits.Inc()
			metrics.DatasetLoadDuration.WithLabelValues(dataset, "cache").Observe(time.Since(start).Seconds())
			return cached.(*T), nil
		}
	}
	metrics.CacheMisses.Inc()

	value, err := fetchAndDecode[T](ctx, l, dataset)
	if err != nil {
		// Any prior data, even stale, beats failing.
		if cached, ok := l.store.Get(dataset); ok {
			logging.Warn().Err(err).Str("dataset", dataset).Msg("Fetch failed, serving stale cache")
			metrics.DatasetStaleFallbacks.WithLabelValues(dataset).Inc()
			metrics.DatasetLoadDuration.WithLabelValues(dataset, "stale").Observe(time.Since(start).Seconds())
			return cached.(*T), nil
		}
		return nil, &LoadError{Dataset: dataset, Err: err}
	}

	if onSuccess != nil {
		onSuccess(value)
	}
	l.store.Set(dataset, value)
	metrics.DatasetLoadDuration.WithLabelValues(dataset, "fetch").Observe(time.Since(start).Seconds())
	logging.Debug().Str("dataset", dataset).Msg("Dataset loaded and cached")
	return value, nil
}

// fetchAndDecode runs fetch-with-retry for a dataset, then decodes and
// shape-validates the body. Decode and shape failures are not retried;
// the retry budget covers transport failures only.
func fetchAndDecode[T any](ctx context.Context, l *Loader, dataset string) (*T, error) {
	body, err := l.fetchWithRetry(ctx, dataset)
	if err != nil {
		return nil, err
	}

	value := new(T)
	if err := json.Unmarshal(body, value); err != nil {
		return nil, &ValidationError{Dataset: dataset, Err: err}
	}
	if err := validation.ValidateStruct(value); err != nil {
		return nil, &ValidationError{Dataset: dataset, Err: err}
	}
	return value, nil
}

// fetchWithRetry issues up to retryAttempts+1 sequential fetch attempts
// with a fixed inter-attempt delay. The wait is cancellable through ctx.
func (l *Loader) fetchWithRetry(ctx context.Context, dataset string) ([]byte, error) {
	path := datasetPaths[dataset]
	var lastErr error

	for attempt := 0; attempt <= l.retryAttempts; attempt++ {
		if attempt > 0 {
			logging.Info().
				Int("attempt", attempt).
				Int("max_attempts", l.retryAttempts).
				Dur("delay", l.retryDelay).
				Str("dataset", dataset).
				Msg("Retrying dataset fetch")
			metrics.DatasetFetchRetries.WithLabelValues(dataset).Inc()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(l.retryDelay):
			}
		}

		data, err := l.fetcher.Fetch(ctx, path)
		if err == nil {
			metrics.DatasetFetchAttempts.WithLabelValues(dataset, "success").Inc()
			return data, nil
		}
		lastErr = err
		metrics.DatasetFetchAttempts.WithLabelValues(dataset, "failure").Inc()
		logging.Warn().Err(err).Int("attempt", attempt+1).Str("dataset", dataset).Msg("Dataset fetch attempt failed")
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", l.retryAttempts+1, lastErr)
}
