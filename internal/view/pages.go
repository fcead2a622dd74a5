// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package view binds the router, the catalog loader and the search
// engine into page controllers. Rendering itself is delegated to an
// accepted Renderer so the same controllers drive a JSON surface in
// tests and over HTTP.
package view

import (
	"context"

	"github.com/tomtom215/vitrina/internal/catalog"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/models"
	"github.com/tomtom215/vitrina/internal/router"
	"github.com/tomtom215/vitrina/internal/search"
)

// sectionOrder fixes the section sequence on the home page. Types absent
// from the dataset are skipped.
var sectionOrder = []string{
	models.TypeBook,
	models.TypeDocumentary,
	models.TypeTVSeries,
	models.TypeMovie,
	models.TypeKids,
}

// HomeView is the landing page payload: site descriptor, one section per
// content type present in the catalog, and the recommendation shelf.
type HomeView struct {
	Site        map[string]any           `json:"site"`
	Sections    []Section                `json:"sections"`
	Recommended []models.RecommendedItem `json:"recommended"`
}

// Section groups the items of one content type under its display label.
type Section struct {
	Type  string               `json:"type"`
	Label string               `json:"label"`
	Items []models.ContentItem `json:"items"`
}

// CategoryView lists every item of a single content type.
type CategoryView struct {
	Type  string               `json:"type"`
	Label string               `json:"label"`
	Items []models.ContentItem `json:"items"`
}

// DetailView shows one catalog item with its resolved age rating label.
type DetailView struct {
	Item        models.ContentItem `json:"item"`
	RatingLabel string             `json:"ratingLabel,omitempty"`
}

// SearchResult is one ranked hit with highlighted title and description.
type SearchResult struct {
	Item            models.ContentItem `json:"item"`
	TitleHTML       string             `json:"titleHtml"`
	DescriptionHTML string             `json:"descriptionHtml"`
}

// SearchView carries the ranked, highlighted results for one keyword.
type SearchView struct {
	Keyword string         `json:"keyword"`
	Results []SearchResult `json:"results"`
}

// NotFoundView is rendered when a path matches no page.
type NotFoundView struct {
	Path string `json:"path"`
}

// Renderer is the display capability the page controllers drive.
type Renderer interface {
	RenderHome(view HomeView) error
	RenderCategory(view CategoryView) error
	RenderDetail(view DetailView) error
	RenderSearch(view SearchView) error
	RenderNotFound(view NotFoundView) error
}

// Pages wires the catalog and search engine to a Renderer through
// router handlers.
type Pages struct {
	loader   *catalog.Loader
	engine   *search.Engine
	renderer Renderer
	ctx      context.Context
}

// NewPages creates the page controllers. The context bounds the catalog
// loads triggered by page handlers.
func NewPages(ctx context.Context, loader *catalog.Loader, engine *search.Engine, renderer Renderer) *Pages {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Pages{
		loader:   loader,
		engine:   engine,
		renderer: renderer,
		ctx:      ctx,
	}
}

// Mount registers every page route and the not-found fallback on rt.
// The literal /search route is registered before the parameterized
// routes so pattern order never shadows it.
func (p *Pages) Mount(rt *router.Router) error {
	if err := rt.Register("/", func(router.Params) error {
		return p.Home()
	}); err != nil {
		return err
	}
	if err := rt.Register("/search", func(router.Params) error {
		return p.Search(rt.GetParams()["q"])
	}); err != nil {
		return err
	}
	if err := rt.Register("/category/:type", func(params router.Params) error {
		return p.Category(params["type"])
	}); err != nil {
		return err
	}
	if err := rt.Register("/item/:id", func(params router.Params) error {
		return p.Detail(params["id"])
	}); err != nil {
		return err
	}

	rt.SetNotFound(func(path string) {
		if err := p.renderer.RenderNotFound(NotFoundView{Path: path}); err != nil {
			logging.Error().Err(err).Str("path", path).Msg("Not-found render failed")
		}
	})
	return nil
}

// Home renders the landing page: sections per content type plus the
// recommendation shelf. A failing recommendation load degrades to an
// empty shelf rather than a broken page.
func (p *Pages) Home() error {
	dataset, err := p.loader.LoadContent(p.ctx)
	if err != nil {
		return err
	}
	cfg, err := p.loader.LoadConfig(p.ctx)
	if err != nil {
		return err
	}

	byType := make(map[string][]models.ContentItem)
	for _, item := range dataset.Content {
		byType[item.Type] = append(byType[item.Type], item)
	}

	sections := make([]Section, 0, len(byType))
	for _, t := range sectionOrder {
		items, ok := byType[t]
		if !ok {
			continue
		}
		sections = append(sections, Section{
			Type:  t,
			Label: cfg.DisplayName(t),
			Items: items,
		})
	}

	recommended, err := p.loader.GetRecommendedContent(p.ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Recommendations unavailable, rendering without shelf")
		recommended = nil
	}

	return p.renderer.RenderHome(HomeView{
		Site:        cfg.Site,
		Sections:    sections,
		Recommended: recommended,
	})
}

// Category renders every item of one content type.
func (p *Pages) Category(itemType string) error {
	items, err := p.loader.GetContentByType(p.ctx, itemType)
	if err != nil {
		return err
	}
	cfg, err := p.loader.LoadConfig(p.ctx)
	if err != nil {
		return err
	}

	return p.renderer.RenderCategory(CategoryView{
		Type:  itemType,
		Label: cfg.DisplayName(itemType),
		Items: items,
	})
}

// Detail renders a single item, or the not-found page when the id does
// not resolve.
func (p *Pages) Detail(id string) error {
	item, err := p.loader.GetContentByID(p.ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return p.renderer.RenderNotFound(NotFoundView{Path: "/item/" + id})
	}

	view := DetailView{Item: *item}
	if cfg, err := p.loader.LoadConfig(p.ctx); err == nil {
		if rating, ok := cfg.AgeRatings[item.AgeRating]; ok {
			view.RatingLabel = rating.Label
		}
	}
	return p.renderer.RenderDetail(view)
}

// Search renders ranked, highlighted results for keyword. The engine
// snapshot is refreshed from the catalog before ranking so results
// track the current dataset.
func (p *Pages) Search(keyword string) error {
	dataset, err := p.loader.LoadContent(p.ctx)
	if err != nil {
		return err
	}
	p.engine.SetData(dataset.Content)

	matches := p.engine.Search(keyword)
	results := make([]SearchResult, 0, len(matches))
	for _, item := range matches {
		results = append(results, SearchResult{
			Item:            item,
			TitleHTML:       search.Highlight(item.Title, keyword),
			DescriptionHTML: search.Highlight(item.Description, keyword),
		})
	}

	return p.renderer.RenderSearch(SearchView{
		Keyword: keyword,
		Results: results,
	})
}
