// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package api provides the HTTP surface over the catalog: JSON data
// endpoints, the rendered view dispatch and the Prometheus scrape
// endpoint, routed with Chi.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/vitrina/internal/catalog"
	"github.com/tomtom215/vitrina/internal/config"
	"github.com/tomtom215/vitrina/internal/search"
)

// Version is the reported application version.
const Version = "1.0.0"

// Handler contains dependencies for the API handlers.
type Handler struct {
	cfg        *config.Config
	loader     *catalog.Loader
	engine     *search.Engine
	startTime  time.Time
	instanceID string
}

// NewHandler creates an API handler over the catalog loader and search
// engine. Each process gets a fresh instance ID, reported by the health
// endpoint so load-balanced deployments can tell replicas apart.
func NewHandler(cfg *config.Config, loader *catalog.Loader, engine *search.Engine) *Handler {
	return &Handler{
		cfg:        cfg,
		loader:     loader,
		engine:     engine,
		startTime:  time.Now(),
		instanceID: uuid.NewString(),
	}
}

// Health reports liveness, uptime and instance identity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]any{
		"status":        "ok",
		"version":       Version,
		"instanceId":    h.instanceID,
		"uptimeSeconds": int64(time.Since(h.startTime).Seconds()),
	}, 0)
}

// Content returns the full catalog.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.loader.LoadContent(r.Context())
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondSuccess(w, dataset.Content, len(dataset.Content))
}

// ContentByID returns a single catalog item or 404.
func (h *Handler) ContentByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.loader.GetContentByID(r.Context(), id)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "CONTENT_NOT_FOUND", "no item with id "+sanitizeLogValue(id), nil)
		return
	}
	respondSuccess(w, item, 1)
}

// ContentByType returns every item of one content type, in dataset order.
// An unknown type yields an empty list, not an error.
func (h *Handler) ContentByType(w http.ResponseWriter, r *http.Request) {
	itemType := chi.URLParam(r, "type")

	items, err := h.loader.GetContentByType(r.Context(), itemType)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondSuccess(w, items, len(items))
}

// Search returns catalog items ranked by keyword relevance. The engine
// snapshot is refreshed from the current dataset before ranking.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		respondError(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter q is required", nil)
		return
	}

	dataset, err := h.loader.LoadContent(r.Context())
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	h.engine.SetData(dataset.Content)

	results := h.engine.Search(keyword)
	respondSuccess(w, results, len(results))
}

// Recommendations returns the recommendation shelf: catalog items joined
// with their recommendation entries, ordered by priority.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	items, err := h.loader.GetRecommendedContent(r.Context())
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondSuccess(w, items, len(items))
}

// respondCatalogError maps the catalog failure taxonomy to HTTP status
// codes: argument failures are client errors, load failures after retry
// exhaustion are upstream failures.
func respondCatalogError(w http.ResponseWriter, err error) {
	var loadErr *catalog.LoadError

	switch {
	case errors.Is(err, catalog.ErrEmptyID), errors.Is(err, catalog.ErrEmptyType):
		respondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	case errors.As(err, &loadErr):
		respondError(w, http.StatusBadGateway, "DATASET_UNAVAILABLE",
			"dataset "+loadErr.Dataset+" could not be loaded", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error", err)
	}
}
