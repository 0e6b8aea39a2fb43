// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers_test

import (
	"net/http"
	"testing"

	"brandforge/internal/models"
)

func TestAddItem(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/posts/items", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: got %d, body %s", w.Code, w.Body.String())
	}
	item := decodeJSON[models.Item](t, w)
	if item.Title != "Generated" {
		t.Errorf("item title: got %q", item.Title)
	}

	w = e.do(t, "GET", "/api/sets/"+set.ID.String(), nil)
	got := decodeJSON[models.ContentSet](t, w)
	if len(got.Posts) != 3 {
		t.Errorf("posts after add: got %d, want 3", len(got.Posts))
	}
}

func TestAddItemUnknownSection(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/haikus/items", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown section: got %d, want 400", w.Code)
	}
}

func TestRegenerateItemReplacesID(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)
	old := set.Posts[0]

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/posts/items/"+old.ID.String()+"/regenerate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("regenerate: got %d, body %s", w.Code, w.Body.String())
	}
	item := decodeJSON[models.Item](t, w)
	if item.ID == old.ID {
		t.Error("regenerated item kept the old ID")
	}
	if item.Title != "Generated" {
		t.Errorf("regenerated title: got %q", item.Title)
	}
}

func TestRegenerateUnknownItem(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/posts/items/"+set.Reels[0].ID.String()+"/regenerate", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("item from another section: got %d, want 404", w.Code)
	}
}

func TestEditItemAndUndoRedo(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)
	base := "/api/sets/" + set.ID.String() + "/posts"
	itemPath := base + "/items/" + set.Posts[0].ID.String()

	w := e.do(t, "PATCH", itemPath, map[string]string{"field": "title", "value": "Edited title"})
	if w.Code != http.StatusOK {
		t.Fatalf("edit: got %d, body %s", w.Code, w.Body.String())
	}
	depths := decodeJSON[map[string]int](t, w)
	if depths["undo"] != 1 {
		t.Errorf("undo depth after edit: got %d, want 1", depths["undo"])
	}

	// Undo restores the original title.
	w = e.do(t, "POST", base+"/undo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("undo: got %d", w.Code)
	}
	undo := decodeJSON[struct {
		Applied bool          `json:"applied"`
		Items   []models.Item `json:"items"`
		Redo    int           `json:"redo"`
	}](t, w)
	if !undo.Applied {
		t.Fatal("undo not applied")
	}
	if undo.Items[0].Title != "First post" {
		t.Errorf("title after undo: got %q", undo.Items[0].Title)
	}
	if undo.Redo != 1 {
		t.Errorf("redo depth after undo: got %d, want 1", undo.Redo)
	}

	// Redo brings the edit back.
	w = e.do(t, "POST", base+"/redo", nil)
	redo := decodeJSON[struct {
		Applied bool          `json:"applied"`
		Items   []models.Item `json:"items"`
	}](t, w)
	if !redo.Applied || redo.Items[0].Title != "Edited title" {
		t.Errorf("redo result: applied=%v title=%q", redo.Applied, redo.Items[0].Title)
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)

	w := e.do(t, "POST", "/api/sets/"+set.ID.String()+"/posts/undo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("undo: got %d", w.Code)
	}
	got := decodeJSON[struct {
		Applied bool `json:"applied"`
	}](t, w)
	if got.Applied {
		t.Error("undo with empty history reported applied")
	}
}

func TestEditUnknownField(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)

	w := e.do(t, "PATCH", "/api/sets/"+set.ID.String()+"/posts/items/"+set.Posts[0].ID.String(),
		map[string]string{"field": "mood", "value": "jazzy"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown field: got %d, want 400", w.Code)
	}
}

func TestDeleteItem(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)

	w := e.do(t, "DELETE", "/api/sets/"+set.ID.String()+"/posts/items/"+set.Posts[1].ID.String(), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete item: got %d", w.Code)
	}

	w = e.do(t, "GET", "/api/sets/"+set.ID.String(), nil)
	got := decodeJSON[models.ContentSet](t, w)
	if len(got.Posts) != 1 {
		t.Errorf("posts after delete: got %d, want 1", len(got.Posts))
	}
}

func TestDeleteLastItemGuard(t *testing.T) {
	e := newEnv(t)
	set := e.createSet(t)

	w := e.do(t, "DELETE", "/api/sets/"+set.ID.String()+"/quotes/items/"+set.Quotes[0].ID.String(), nil)
	if w.Code != http.StatusConflict {
		t.Errorf("delete last item: got %d, want 409", w.Code)
	}

	w = e.do(t, "GET", "/api/sets/"+set.ID.String(), nil)
	got := decodeJSON[models.ContentSet](t, w)
	if len(got.Quotes) != 1 {
		t.Errorf("quotes after guarded delete: got %d, want 1", len(got.Quotes))
	}
}
