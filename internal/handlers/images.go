// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"brandforge/internal/content"
	"brandforge/internal/images"
)

// setRoute resolves the {setID} parameter and the owning workspace.
func (a *API) setRoute(w http.ResponseWriter, r *http.Request) (*content.Workspace, bool) {
	id, ok := setIDParam(w, r)
	if !ok {
		return nil, false
	}
	ws, err := a.workspace(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load the set")
		return nil, false
	}
	if ws == nil {
		writeError(w, http.StatusNotFound, "set not found")
		return nil, false
	}
	return ws, true
}

// imageJobRequest is the body of the single-key image endpoints.
type imageJobRequest struct {
	Key      string `json:"key"`
	Feedback string `json:"feedback,omitempty"`
}

// GenerateImage runs one image job for a single asset key.
func (a *API) GenerateImage(w http.ResponseWriter, r *http.Request) {
	ws, ok := a.setRoute(w, r)
	if !ok {
		return
	}
	var req imageJobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	snap := ws.Snapshot()
	prompt, aspect, err := images.ResolveJob(snap, req.Key)
	if err != nil {
		if errors.Is(err, images.ErrUnknownKey) {
			writeError(w, http.StatusNotFound, "no image job for that key")
			return
		}
		writeGenError(w, err)
		return
	}

	brand := a.brandFor(r.Context(), snap.ID)
	if err := a.images.Generate(r.Context(), snap.ID, req.Key, prompt, aspect, brand); err != nil {
		slog.Error("image generation failed", "key", req.Key, "error", err)
		writeError(w, http.StatusBadGateway, "image generation failed; try again")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": req.Key})
}

// GenerateAllImages runs jobs for every key in the set that has no stored
// asset yet. Failures are reported per key; one bad job never blocks the
// rest of the batch.
func (a *API) GenerateAllImages(w http.ResponseWriter, r *http.Request) {
	ws, ok := a.setRoute(w, r)
	if !ok {
		return
	}

	snap := ws.Snapshot()
	brand := a.brandFor(r.Context(), snap.ID)
	report := a.images.GenerateAllPending(r.Context(), snap, brand)

	failed := make(map[string]string, len(report.Failed))
	for key, err := range report.Failed {
		failed[key] = err.Error()
	}
	status := http.StatusOK
	if !report.Ok() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, map[string]any{
		"generated": report.Generated,
		"failed":    failed,
	})
}

// RegenerateImage re-runs one key's job with the user's feedback appended
// to the prompt. The existing image survives a failed attempt.
func (a *API) RegenerateImage(w http.ResponseWriter, r *http.Request) {
	ws, ok := a.setRoute(w, r)
	if !ok {
		return
	}
	var req imageJobRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Feedback) != "" && !a.checkPrompt(w, r, req.Feedback) {
		return
	}

	snap := ws.Snapshot()
	prompt, aspect, err := images.ResolveJob(snap, req.Key)
	if err != nil {
		if errors.Is(err, images.ErrUnknownKey) {
			writeError(w, http.StatusNotFound, "no image job for that key")
			return
		}
		writeGenError(w, err)
		return
	}

	brand := a.brandFor(r.Context(), snap.ID)
	if err := a.images.RegenerateWithFeedback(r.Context(), snap.ID, req.Key, prompt, req.Feedback, aspect, brand); err != nil {
		slog.Error("image regeneration failed", "key", req.Key, "error", err)
		writeError(w, http.StatusBadGateway, "image generation failed; try again")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": req.Key})
}

// GetImage serves a stored image payload.
func (a *API) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := setIDParam(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	asset, err := a.assets.Get(r.Context(), id, key)
	if err != nil {
		slog.Error("load image asset failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load the image")
		return
	}
	if asset == nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.WriteHeader(http.StatusOK)
	w.Write(asset.Data)
}

// DeleteImage removes a stored image. Deleting a missing key succeeds.
func (a *API) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := setIDParam(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	if err := a.images.Delete(r.Context(), id, key); err != nil {
		slog.Error("delete image asset failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete the image")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
