// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package models defines data structures for the Vitrina catalog.
// These models represent catalog items, site configuration, recommendation
// entries, and the dataset envelopes the loader decodes from JSON.

package models

// Content type vocabulary. Item types outside this set are rejected
// during dataset validation.
const (
	TypeBook        = "book"
	TypeDocumentary = "documentary"
	TypeTVSeries    = "tv-series"
	TypeMovie       = "movie"
	TypeKids        = "kids"
)

// ContentItem represents a single catalog entry loaded from content.json.
//
// The engine only interprets ID (identity key), Type (filtering and
// display-name lookup) and Title/Description (search scoring). Everything
// else is passthrough payload carried verbatim for the renderer: cover
// image, age rating, free-form metadata, external links, tags and
// timestamps. Items are never mutated or persisted; they live only as long
// as the current cache entry.
type ContentItem struct {
	ID          string `json:"id" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=book documentary tv-series movie kids"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Passthrough payload, not interpreted by the engine.
	Cover     string            `json:"cover,omitempty"`
	AgeRating string            `json:"ageRating,omitempty"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
	Links     map[string]string `json:"links,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	CreatedAt string            `json:"createdAt,omitempty"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

// ContentDataset is the top-level envelope of content.json.
// The content list must be present; an empty catalog is represented by
// an empty (non-nil) list.
type ContentDataset struct {
	Content []ContentItem `json:"content" validate:"required,dive"`
}

// SiteConfig is the top-level envelope of config.json.
// Site, ContentTypes and AgeRatings must all be present.
type SiteConfig struct {
	Site         map[string]any         `json:"site" validate:"required"`
	ContentTypes map[string]ContentType `json:"contentTypes" validate:"required"`
	AgeRatings   map[string]AgeRating   `json:"ageRatings" validate:"required"`
	Performance  *PerformanceConfig     `json:"performance,omitempty"`
}

// ContentType describes a display entry for one item type.
type ContentType struct {
	DisplayName string `json:"displayName"`
	Icon        string `json:"icon,omitempty"`
}

// AgeRating describes a display entry for one age rating.
type AgeRating struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// PerformanceConfig carries tuning overrides from config.json.
// CacheDuration is in milliseconds and, when positive, replaces the
// loader's cache TTL the first time configuration loads successfully.
type PerformanceConfig struct {
	CacheDuration int64 `json:"cacheDuration,omitempty"`
}

// RecommendationEntry points at a catalog item by ID. Lower priority
// values rank higher. Entries whose ContentID does not resolve to a
// loaded item are silently dropped during the recommendation join.
type RecommendationEntry struct {
	ContentID string `json:"contentId" validate:"required"`
	Priority  int    `json:"priority"`
	Reason    string `json:"reason,omitempty"`
}

// RecommendationDataset is the top-level envelope of recommendations.json.
type RecommendationDataset struct {
	Recommendations []RecommendationEntry `json:"recommendations" validate:"required,dive"`
}

// RecommendedItem is a catalog item annotated with the recommendation
// that selected it, produced by the recommendation join.
type RecommendedItem struct {
	ContentItem
	Reason   string `json:"reason,omitempty"`
	Priority int    `json:"priority"`
}

// DisplayName resolves the display name for an item type from the site
// configuration, falling back to the raw type tag.
func (c *SiteConfig) DisplayName(itemType string) string {
	if ct, ok := c.ContentTypes[itemType]; ok && ct.DisplayName != "" {
		return ct.DisplayName
	}
	return itemType
}
