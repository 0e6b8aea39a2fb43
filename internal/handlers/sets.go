// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"brandforge/internal/content"
	"brandforge/internal/models"
)

// createSetRequest is the body of POST /api/sets.
type createSetRequest struct {
	Theme    string         `json:"theme"`
	Tone     string         `json:"tone"`
	Language string         `json:"language"`
	Counts   content.Counts `json:"counts"`
}

// CreateSet generates a complete content set from a theme. The whole batch
// is produced by one streamed model call; nothing is stored if the stream
// or the parse fails.
func (a *API) CreateSet(w http.ResponseWriter, r *http.Request) {
	var req createSetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Theme = strings.TrimSpace(req.Theme)
	if req.Theme == "" {
		writeError(w, http.StatusBadRequest, "theme is required")
		return
	}
	if !a.checkPrompt(w, r, req.Theme) {
		return
	}

	start := time.Now()
	ws, err := content.Generate(r.Context(), a.gen, content.SetRequest{
		Theme:    req.Theme,
		Tone:     req.Tone,
		Language: req.Language,
		Counts:   req.Counts,
	}, nil)
	if err != nil {
		writeGenError(w, err)
		return
	}

	snap := ws.Snapshot()
	if a.sets != nil {
		if err := a.sets.Create(r.Context(), snap); err != nil {
			slog.Error("create content set failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not save the generated set")
			return
		}
	}

	a.mu.Lock()
	a.workspaces[snap.ID] = ws
	a.mu.Unlock()

	slog.Info("content set generated",
		"set_id", snap.ID,
		"theme", req.Theme,
		"items", snap.ItemCount(),
		"took", time.Since(start).Round(time.Millisecond))
	writeJSON(w, http.StatusCreated, snap)
}

// ListSets returns stored set summaries.
func (a *API) ListSets(w http.ResponseWriter, r *http.Request) {
	if a.sets == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	summaries, err := a.sets.List(r.Context())
	if err != nil {
		slog.Error("list content sets failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list sets")
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetSet returns the full current state of a set.
func (a *API) GetSet(w http.ResponseWriter, r *http.Request) {
	id, ok := setIDParam(w, r)
	if !ok {
		return
	}
	ws, err := a.workspace(r.Context(), id)
	if err != nil {
		slog.Error("load content set failed", "set_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load the set")
		return
	}
	if ws == nil {
		writeError(w, http.StatusNotFound, "set not found")
		return
	}
	writeJSON(w, http.StatusOK, ws.Snapshot())
}

// DeleteSet removes a set, its editing session, and any cached schedules.
// Image assets and posting dates cascade with the database row.
func (a *API) DeleteSet(w http.ResponseWriter, r *http.Request) {
	id, ok := setIDParam(w, r)
	if !ok {
		return
	}

	a.mu.Lock()
	_, hadWorkspace := a.workspaces[id]
	delete(a.workspaces, id)
	a.mu.Unlock()

	if a.sets != nil {
		if err := a.sets.Delete(r.Context(), id); err != nil {
			slog.Error("delete content set failed", "set_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "could not delete the set")
			return
		}
	} else if !hadWorkspace {
		writeError(w, http.StatusNotFound, "set not found")
		return
	}

	a.schedule.Invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// brandRequest is the body of PUT /api/sets/{setID}/brand.
type brandRequest struct {
	Colors    string `json:"colors"`
	Character string `json:"character"`
}

// UpdateBrand upserts the brand profile attached to a set. The profile is
// appended to every subsequent image-generation prompt.
func (a *API) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := setIDParam(w, r)
	if !ok {
		return
	}
	if a.brands == nil {
		writeError(w, http.StatusServiceUnavailable, "brand profiles require a database")
		return
	}
	var req brandRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile := &models.BrandProfile{
		SetID:     id,
		Colors:    strings.TrimSpace(req.Colors),
		Character: strings.TrimSpace(req.Character),
		UpdatedAt: time.Now(),
	}
	if err := a.brands.Upsert(r.Context(), profile); err != nil {
		slog.Error("upsert brand profile failed", "set_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not save the brand profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
