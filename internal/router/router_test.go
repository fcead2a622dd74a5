// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package router

import (
	"errors"
	"testing"
)

func TestRegisterAndMatchParam(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	var got Params
	if err := r.Register("/category/:type", func(p Params) error {
		got = p
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	r.Navigate("/category/books", false)

	if got == nil {
		t.Fatal("handler was not invoked")
	}
	if got["type"] != "books" {
		t.Errorf("param type = %q, want %q", got["type"], "books")
	}
}

func TestAnchoredMatchRejectsExtraSegments(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	invoked := false
	if err := r.Register("/category/:type", func(p Params) error {
		invoked = true
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var notFoundPath string
	r.SetNotFound(func(path string) { notFoundPath = path })

	r.Navigate("/category/books/extra", false)

	if invoked {
		t.Error("handler invoked for a path with a trailing segment")
	}
	if notFoundPath != "/category/books/extra" {
		t.Errorf("not-found path = %q, want %q", notFoundPath, "/category/books/extra")
	}
}

func TestRegistrationOrderPrecedence(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	var matched string
	if err := r.Register("/item/special", func(p Params) error {
		matched = "literal"
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("/item/:id", func(p Params) error {
		matched = "param"
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	r.Navigate("/item/special", false)
	if matched != "literal" {
		t.Errorf("matched = %q, want %q (first registered wins)", matched, "literal")
	}

	r.Navigate("/item/42", false)
	if matched != "param" {
		t.Errorf("matched = %q, want %q", matched, "param")
	}
}

func TestParamsURLDecoded(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	var got Params
	if err := r.Register("/item/:id", func(p Params) error {
		got = p
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	r.Navigate("/item/the%20trial", false)

	if got["id"] != "the trial" {
		t.Errorf("param id = %q, want %q", got["id"], "the trial")
	}
}

func TestHandlerErrorIsSwallowed(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	if err := r.Register("/broken", func(p Params) error {
		return errors.New("render failed")
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Must not panic or propagate.
	r.Navigate("/broken", false)

	if len(r.GetPathParams()) != 0 {
		t.Errorf("GetPathParams() = %v, want empty", r.GetPathParams())
	}
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	if err := r.Register("/panic", func(p Params) error {
		panic("boom")
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	r.Navigate("/panic", false)
}

func TestCurrentParamsStoredBeforeHandler(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	var observed Params
	if err := r.Register("/category/:type", func(p Params) error {
		observed = r.GetPathParams()
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	r.Navigate("/category/films", false)

	if observed["type"] != "films" {
		t.Errorf("params observed inside handler = %v, want type=films", observed)
	}
}

func TestCurrentParamsSurviveNotFound(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	if err := r.Register("/category/:type", func(p Params) error { return nil }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	r.SetNotFound(func(path string) {})

	r.Navigate("/category/books", false)
	r.Navigate("/nowhere", false)

	if got := r.GetPathParams()["type"]; got != "books" {
		t.Errorf("params after not-found = %q, want %q", got, "books")
	}
}

func TestNavigatePushGrowsHistory(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)
	if err := r.Register("/:page", func(p Params) error { return nil }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	r.SetNotFound(func(path string) {})

	r.Navigate("/a", false)
	r.Navigate("/b", false)

	if loc.Len() != 3 {
		t.Errorf("history length = %d, want 3", loc.Len())
	}
}

func TestNavigateReplaceSkipsEntryOnBack(t *testing.T) {
	loc := NewMemoryLocation("/start")
	r := New(loc)

	var visits []string
	if err := r.Register("/:page", func(p Params) error {
		visits = append(visits, p["page"])
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	r.Start()

	r.Navigate("/a", false)
	r.Navigate("/b", true) // replaces /a

	if loc.Len() != 2 {
		t.Fatalf("history length = %d, want 2", loc.Len())
	}

	if !loc.Back() {
		t.Fatal("Back() = false, want true")
	}
	if loc.Path() != "/start" {
		t.Errorf("path after back = %q, want %q (replaced entry skipped)", loc.Path(), "/start")
	}

	want := []string{"start", "a", "b", "start"}
	if len(visits) != len(want) {
		t.Fatalf("visits = %v, want %v", visits, want)
	}
	for i := range want {
		if visits[i] != want[i] {
			t.Errorf("visits[%d] = %q, want %q", i, visits[i], want[i])
		}
	}
}

func TestBackForwardRedispatch(t *testing.T) {
	loc := NewMemoryLocation("/a")
	r := New(loc)

	var current string
	if err := r.Register("/:page", func(p Params) error {
		current = p["page"]
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	r.Start()

	r.Navigate("/b", false)
	loc.Back()
	if current != "a" {
		t.Errorf("page after back = %q, want %q", current, "a")
	}
	loc.Forward()
	if current != "b" {
		t.Errorf("page after forward = %q, want %q", current, "b")
	}
}

func TestPushTruncatesForwardHistory(t *testing.T) {
	loc := NewMemoryLocation("/a")
	loc.Push("/b")
	loc.Push("/c")
	loc.Back()
	loc.Push("/d")

	if loc.Len() != 3 {
		t.Errorf("history length = %d, want 3", loc.Len())
	}
	if loc.Forward() {
		t.Error("Forward() = true after push truncated forward entries")
	}
	if loc.Path() != "/d" {
		t.Errorf("path = %q, want %q", loc.Path(), "/d")
	}
}

func TestGetParamsReadsQuery(t *testing.T) {
	loc := NewMemoryLocation("/search?q=dune&lang=en")
	r := New(loc)

	params := r.GetParams()
	if params["q"] != "dune" {
		t.Errorf("q = %q, want %q", params["q"], "dune")
	}
	if params["lang"] != "en" {
		t.Errorf("lang = %q, want %q", params["lang"], "en")
	}
}

func TestGetAllParamsPathWinsOnCollision(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	if err := r.Register("/category/:type", func(p Params) error { return nil }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	loc.Push("/category/books?type=films&sort=asc")
	r.HandleRoute()

	all := r.GetAllParams()
	if all["type"] != "books" {
		t.Errorf("type = %q, want %q (path parameter wins)", all["type"], "books")
	}
	if all["sort"] != "asc" {
		t.Errorf("sort = %q, want %q", all["sort"], "asc")
	}
}

func TestRegisterNilHandler(t *testing.T) {
	r := New(NewMemoryLocation("/"))
	if err := r.Register("/x", nil); err == nil {
		t.Error("Register(nil handler) error = nil, want error")
	}
}

func TestMultipleParams(t *testing.T) {
	loc := NewMemoryLocation("/")
	r := New(loc)

	var got Params
	if err := r.Register("/category/:type/item/:id", func(p Params) error {
		got = p
		return nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	r.Navigate("/category/books/item/42", false)

	if got["type"] != "books" || got["id"] != "42" {
		t.Errorf("params = %v, want type=books id=42", got)
	}
}
