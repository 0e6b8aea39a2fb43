// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandforge/internal/content"
	"brandforge/internal/models"
)

// sectionCtx bundles the parsed route parameters every item handler needs.
type sectionCtx struct {
	ws  *content.Workspace
	sec models.Section
}

// itemRoute resolves the {setID} and {section} parameters and the owning
// workspace, writing the error response itself on failure.
func (a *API) itemRoute(w http.ResponseWriter, r *http.Request) (sectionCtx, bool) {
	id, ok := setIDParam(w, r)
	if !ok {
		return sectionCtx{}, false
	}
	sec, ok := sectionParam(w, r)
	if !ok {
		return sectionCtx{}, false
	}
	ws, err := a.workspace(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load the set")
		return sectionCtx{}, false
	}
	if ws == nil {
		writeError(w, http.StatusNotFound, "set not found")
		return sectionCtx{}, false
	}
	return sectionCtx{ws: ws, sec: sec}, true
}

func itemIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item ID")
		return uuid.Nil, false
	}
	return id, true
}

// AddItem generates one new item at the end of a section.
func (a *API) AddItem(w http.ResponseWriter, r *http.Request) {
	rc, ok := a.itemRoute(w, r)
	if !ok {
		return
	}

	item, err := rc.ws.AddItem(r.Context(), rc.sec)
	if err != nil {
		writeGenError(w, err)
		return
	}

	a.persist(r.Context(), rc.ws)
	a.schedule.Invalidate(r.Context(), rc.ws.ID())
	writeJSON(w, http.StatusCreated, item)
}

// RegenerateItem replaces one item with a newly generated one. The new
// item gets a new ID, so image assets and posting dates keyed to the old
// one no longer apply.
func (a *API) RegenerateItem(w http.ResponseWriter, r *http.Request) {
	rc, ok := a.itemRoute(w, r)
	if !ok {
		return
	}
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	item, err := rc.ws.RegenerateItem(r.Context(), rc.sec, itemID)
	if err != nil {
		writeGenError(w, err)
		return
	}

	a.persist(r.Context(), rc.ws)
	a.schedule.Invalidate(r.Context(), rc.ws.ID())
	writeJSON(w, http.StatusOK, item)
}

// editRequest is the body of PATCH .../items/{itemID}.
type editRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// EditItem applies one field edit. Consecutive edits to the same field of
// the same item within the debounce session coalesce into one undo step.
func (a *API) EditItem(w http.ResponseWriter, r *http.Request) {
	rc, ok := a.itemRoute(w, r)
	if !ok {
		return
	}
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	var req editRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, "field is required")
		return
	}

	if err := rc.ws.EditField(rc.sec, itemID, req.Field, req.Value); err != nil {
		writeGenError(w, err)
		return
	}

	a.persist(r.Context(), rc.ws)
	undo, redo := rc.ws.HistoryDepths(rc.sec)
	writeJSON(w, http.StatusOK, map[string]int{"undo": undo, "redo": redo})
}

// DeleteItem removes an item. The last item of a section cannot be removed.
func (a *API) DeleteItem(w http.ResponseWriter, r *http.Request) {
	rc, ok := a.itemRoute(w, r)
	if !ok {
		return
	}
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	if err := rc.ws.RemoveItem(rc.sec, itemID); err != nil {
		writeGenError(w, err)
		return
	}

	a.persist(r.Context(), rc.ws)
	a.schedule.Invalidate(r.Context(), rc.ws.ID())
	w.WriteHeader(http.StatusNoContent)
}

// Undo rolls the section back one step. Undo with empty history is not an
// error; applied reports whether anything changed.
func (a *API) Undo(w http.ResponseWriter, r *http.Request) {
	a.timeTravel(w, r, (*content.Workspace).Undo)
}

// Redo re-applies the most recently undone step.
func (a *API) Redo(w http.ResponseWriter, r *http.Request) {
	a.timeTravel(w, r, (*content.Workspace).Redo)
}

func (a *API) timeTravel(w http.ResponseWriter, r *http.Request, step func(*content.Workspace, models.Section) bool) {
	rc, ok := a.itemRoute(w, r)
	if !ok {
		return
	}

	// No schedule invalidation here: a structural undo changes item IDs,
	// so the fingerprint gate in the schedule manager redistributes on the
	// next read, while undoing a text edit keeps manual placements intact.
	applied := step(rc.ws, rc.sec)
	if applied {
		a.persist(r.Context(), rc.ws)
	}

	undo, redo := rc.ws.HistoryDepths(rc.sec)
	writeJSON(w, http.StatusOK, map[string]any{
		"applied": applied,
		"items":   rc.ws.Snapshot().Section(rc.sec),
		"undo":    undo,
		"redo":    redo,
	})
}
