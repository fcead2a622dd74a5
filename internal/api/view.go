// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/vitrina/internal/router"
	"github.com/tomtom215/vitrina/internal/view"
)

// jsonRenderer captures the page a route dispatch produced so it can be
// written as a JSON response. One instance serves one request.
type jsonRenderer struct {
	page string
	data any
}

func (j *jsonRenderer) RenderHome(v view.HomeView) error {
	j.page, j.data = "home", v
	return nil
}

func (j *jsonRenderer) RenderCategory(v view.CategoryView) error {
	j.page, j.data = "category", v
	return nil
}

func (j *jsonRenderer) RenderDetail(v view.DetailView) error {
	j.page, j.data = "detail", v
	return nil
}

func (j *jsonRenderer) RenderSearch(v view.SearchView) error {
	j.page, j.data = "search", v
	return nil
}

func (j *jsonRenderer) RenderNotFound(v view.NotFoundView) error {
	j.page, j.data = "notFound", v
	return nil
}

// View dispatches the path under /view through the page router and
// writes the rendered page as JSON. Each request gets its own location
// and renderer; the loader and engine are shared.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/view")
	if path == "" {
		path = "/"
	}
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}

	renderer := &jsonRenderer{}
	rt := router.New(router.NewMemoryLocation(path))
	pages := view.NewPages(r.Context(), h.loader, h.engine, renderer)
	if err := pages.Mount(rt); err != nil {
		respondError(w, http.StatusInternalServerError, "ROUTER_SETUP", "page routes failed to register", err)
		return
	}

	rt.HandleRoute()

	switch renderer.page {
	case "":
		// A handler matched but failed; the router logged the cause.
		respondError(w, http.StatusBadGateway, "PAGE_UNAVAILABLE", "page could not be rendered", nil)
	case "notFound":
		respondError(w, http.StatusNotFound, "PAGE_NOT_FOUND", "no page for this path", nil)
	default:
		respondSuccess(w, map[string]any{
			"page": renderer.page,
			"view": renderer.data,
		}, 0)
	}
}
