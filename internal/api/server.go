// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vitrina/internal/config"
)

// Router assembles the Chi handler from its middleware stack and the
// API handler set.
type Router struct {
	handler *Handler
	cfg     *config.Config
}

// NewRouter creates a router around an already-constructed handler.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match"},
		MaxAge:         300,
	}))
	if !router.cfg.Security.RateLimitDisabled {
		r.Use(httprate.LimitByIP(
			router.cfg.Security.RateLimitReqs,
			router.cfg.Security.RateLimitWindow,
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(securityHeaders)

		r.Get("/health", router.handler.Health)
		r.Get("/content", router.handler.Content)
		r.Get("/content/type/{type}", router.handler.ContentByType)
		r.Get("/content/{id}", router.handler.ContentByID)
		r.Get("/search", router.handler.Search)
		r.Get("/recommendations", router.handler.Recommendations)
	})

	// Rendered pages as JSON, dispatched through the page router.
	r.Get("/view", router.handler.View)
	r.Get("/view/*", router.handler.View)

	// Raw dataset files for client-side consumers.
	if dir := router.cfg.Catalog.DataDir; dir != "" {
		fs := http.StripPrefix("/data/", http.FileServer(http.Dir(dir)))
		r.Get("/data/*", fs.ServeHTTP)
	}

	r.Handle("/metrics", promhttp.Handler())

	return r
}
