// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package search scores catalog items against multi-term keyword queries
// and highlights matched terms in display text.
package search

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/tomtom215/vitrina/internal/metrics"
	"github.com/tomtom215/vitrina/internal/models"
)

// Field weights. A term found in the title outranks one found in the
// description; a term present in both contributes the sum.
const (
	titleWeight       = 2
	descriptionWeight = 1
)

// Engine holds an in-memory snapshot of catalog items and ranks them
// against keyword queries. The snapshot is replaced wholesale via SetData;
// reads never observe a partial update.
type Engine struct {
	mu    sync.RWMutex
	items []models.ContentItem
}

// New creates an empty search engine.
func New() *Engine {
	return &Engine{}
}

// SetData replaces the item snapshot.
func (e *Engine) SetData(items []models.ContentItem) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = items
}

// Len returns the number of items in the current snapshot.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.items)
}

// scored pairs an item with its relevance score during ranking.
type scored struct {
	item  models.ContentItem
	score int
}

// Search ranks the snapshot against keyword and returns matching items in
// descending score order. Each query term contributes at most once per
// field: +2 for a title substring hit, +1 for a description substring
// hit, so a term present in both fields contributes 3. Items scoring zero
// are excluded.
//
// Ties are broken by snapshot order (stable sort) so repeated queries
// return results in a deterministic order.
func (e *Engine) Search(keyword string) []models.ContentItem {
	terms := splitTerms(keyword)
	if len(terms) == 0 {
		return []models.ContentItem{}
	}
	metrics.SearchQueries.Inc()

	e.mu.RLock()
	defer e.mu.RUnlock()

	matches := make([]scored, 0, len(e.items))
	for _, item := range e.items {
		title := strings.ToLower(item.Title)
		description := strings.ToLower(item.Description)

		score := 0
		for _, term := range terms {
			if strings.Contains(title, term) {
				score += titleWeight
			}
			if strings.Contains(description, term) {
				score += descriptionWeight
			}
		}
		if score > 0 {
			matches = append(matches, scored{item: item, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	results := make([]models.ContentItem, len(matches))
	for i, m := range matches {
		results[i] = m.item
	}
	metrics.SearchResults.Observe(float64(len(results)))
	return results
}

// Score computes the relevance score of a single item for keyword using
// the same rule as Search. Exposed for ranking diagnostics.
func (e *Engine) Score(item models.ContentItem, keyword string) int {
	terms := splitTerms(keyword)
	if len(terms) == 0 {
		return 0
	}

	title := strings.ToLower(item.Title)
	description := strings.ToLower(item.Description)

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleWeight
		}
		if strings.Contains(description, term) {
			score += descriptionWeight
		}
	}
	return score
}

// Highlight wraps every case-insensitive occurrence of each keyword term
// in text with <mark> markers. Terms are applied sequentially in query
// order, so a later term can wrap text inserted by an earlier term's
// marker. Regex metacharacters in terms are escaped so terms always
// match literally.
func Highlight(text, keyword string) string {
	if text == "" {
		return text
	}

	result := text
	for _, term := range strings.Fields(keyword) {
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(term))
		if err != nil {
			continue
		}
		result = re.ReplaceAllString(result, "<mark>${0}</mark>")
	}
	return result
}

// splitTerms lower-cases and splits keyword on whitespace runs.
// Duplicate terms are kept; empty terms cannot occur with Fields.
func splitTerms(keyword string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(keyword)))
}
