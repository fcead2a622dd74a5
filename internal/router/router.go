// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package router implements path-pattern dispatch over a pluggable
// Location. Patterns use :name placeholders, compiled once at
// registration into anchored regular expressions. Matching is
// registration-order first-wins, so more specific patterns must be
// registered before broader ones.
package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/tomtom215/vitrina/internal/logging"
)

// Params holds named route parameters extracted from a matched path.
type Params map[string]string

// Handler runs when a route matches. A returned error is logged by the
// router and never propagated: one broken page handler must not take
// down navigation.
type Handler func(params Params) error

// NotFoundHandler runs when no registered route matches the current path.
type NotFoundHandler func(path string)

var placeholderPattern = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

type route struct {
	pattern    string
	matcher    *regexp.Regexp
	paramNames []string
	handler    Handler
}

// Router dispatches location changes to registered handlers.
type Router struct {
	mu            sync.RWMutex
	loc           Location
	routes        []route
	currentParams Params
	notFound      NotFoundHandler
}

// New creates a router over loc with a logging not-found fallback.
func New(loc Location) *Router {
	return &Router{
		loc:           loc,
		currentParams: Params{},
		notFound: func(path string) {
			logging.Warn().Str("path", path).Msg("No route matched")
		},
	}
}

// Register adds a route. The pattern is compiled immediately: literal
// segments are escaped, each :name placeholder becomes a capture group
// matching one or more non-separator characters, and the whole pattern
// is anchored so trailing segments never match.
func (r *Router) Register(pattern string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("router: nil handler for pattern %q", pattern)
	}

	escaped := regexp.QuoteMeta(pattern)

	var paramNames []string
	expr := placeholderPattern.ReplaceAllStringFunc(escaped, func(m string) string {
		paramNames = append(paramNames, strings.TrimPrefix(m, ":"))
		return "([^/]+)"
	})

	matcher, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return fmt.Errorf("router: compile pattern %q: %w", pattern, err)
	}

	r.mu.Lock()
	r.routes = append(r.routes, route{
		pattern:    pattern,
		matcher:    matcher,
		paramNames: paramNames,
		handler:    handler,
	})
	r.mu.Unlock()
	return nil
}

// SetNotFound replaces the fallback invoked when no route matches.
func (r *Router) SetNotFound(fn NotFoundHandler) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.notFound = fn
	r.mu.Unlock()
}

// Start binds the back/forward listener and dispatches the current
// location once. Back/forward navigation re-runs dispatch without
// creating new history entries.
func (r *Router) Start() {
	r.loc.OnPop(r.HandleRoute)
	r.HandleRoute()
}

// Navigate records path in history and dispatches it. With replace set
// the current entry is overwritten instead of pushed, so the skipped
// state is not reachable through back navigation.
func (r *Router) Navigate(path string, replace bool) {
	if replace {
		r.loc.Replace(path)
	} else {
		r.loc.Push(path)
	}
	r.HandleRoute()
}

// HandleRoute matches the current location path against registered
// routes in registration order and runs the first match. Extracted
// parameters are stored before the handler runs, so the handler and
// anything it calls observe the new state. On no match the stored
// parameters are left untouched and the not-found fallback runs.
func (r *Router) HandleRoute() {
	path := r.loc.Path()

	r.mu.RLock()
	routes := r.routes
	notFound := r.notFound
	r.mu.RUnlock()

	for _, rt := range routes {
		m := rt.matcher.FindStringSubmatch(path)
		if m == nil {
			continue
		}

		params := make(Params, len(rt.paramNames))
		for i, name := range rt.paramNames {
			value := m[i+1]
			if decoded, err := url.PathUnescape(value); err == nil {
				value = decoded
			}
			params[name] = value
		}

		r.mu.Lock()
		r.currentParams = params
		r.mu.Unlock()

		r.dispatch(rt, params)
		return
	}

	notFound(path)
}

func (r *Router) dispatch(rt route, params Params) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Error().
				Str("pattern", rt.pattern).
				Interface("panic", rec).
				Msg("Route handler panicked")
		}
	}()

	if err := rt.handler(params); err != nil {
		logging.Error().
			Err(err).
			Str("pattern", rt.pattern).
			Msg("Route handler failed")
	}
}

// GetParams returns the current query parameters. Repeated keys keep
// their first value.
func (r *Router) GetParams() Params {
	params := Params{}
	for key, values := range r.loc.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

// GetPathParams returns a copy of the parameters from the most recent
// successful match.
func (r *Router) GetPathParams() Params {
	r.mu.RLock()
	defer r.mu.RUnlock()

	params := make(Params, len(r.currentParams))
	for k, v := range r.currentParams {
		params[k] = v
	}
	return params
}

// GetAllParams merges query and path parameters. Path parameters win
// on key collisions.
func (r *Router) GetAllParams() Params {
	params := r.GetParams()
	for k, v := range r.GetPathParams() {
		params[k] = v
	}
	return params
}
