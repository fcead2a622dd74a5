// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package router

import (
	"net/url"
	"strings"
	"sync"
)

// Location abstracts the environment's address and history facilities:
// reading the current path and query, pushing or replacing history
// entries, and signaling back/forward navigation. Non-browser targets
// use MemoryLocation.
type Location interface {
	// Path returns the current path without its query string.
	Path() string

	// Query returns the current query parameters.
	Query() url.Values

	// Push appends a new history entry and makes it current.
	Push(path string)

	// Replace overwrites the current history entry in place. No new
	// navigable entry is created, so a back navigation skips it.
	Replace(path string)

	// OnPop registers the listener invoked when the current entry
	// changes through back/forward navigation.
	OnPop(fn func())
}

// MemoryLocation is an in-memory Location with a browser-like history
// stack: pushing truncates any forward entries, Back and Forward move the
// cursor and fire the pop listener.
type MemoryLocation struct {
	mu    sync.Mutex
	stack []string
	index int
	onPop func()
}

// NewMemoryLocation creates a history with a single starting entry.
func NewMemoryLocation(start string) *MemoryLocation {
	if start == "" {
		start = "/"
	}
	return &MemoryLocation{stack: []string{start}}
}

// Path returns the current entry's path without its query string.
func (m *MemoryLocation) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	path, _, _ := strings.Cut(m.stack[m.index], "?")
	return path
}

// Query returns the current entry's query parameters.
func (m *MemoryLocation) Query() url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, rawQuery, _ := strings.Cut(m.stack[m.index], "?")
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return url.Values{}
	}
	return values
}

// Push appends path as a new entry, discarding forward history.
func (m *MemoryLocation) Push(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack = append(m.stack[:m.index+1], path)
	m.index++
}

// Replace overwrites the current entry without growing the stack.
func (m *MemoryLocation) Replace(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack[m.index] = path
}

// OnPop registers the back/forward listener.
func (m *MemoryLocation) OnPop(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPop = fn
}

// Back moves to the previous entry, firing the pop listener. Returns
// false at the start of history.
func (m *MemoryLocation) Back() bool {
	m.mu.Lock()
	if m.index == 0 {
		m.mu.Unlock()
		return false
	}
	m.index--
	fn := m.onPop
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// Forward moves to the next entry, firing the pop listener. Returns
// false at the end of history.
func (m *MemoryLocation) Forward() bool {
	m.mu.Lock()
	if m.index >= len(m.stack)-1 {
		m.mu.Unlock()
		return false
	}
	m.index++
	fn := m.onPop
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// Len returns the number of history entries.
func (m *MemoryLocation) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}
