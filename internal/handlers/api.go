// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API. One API value carries every
// dependency; each route file covers one resource group (sets, items,
// images, schedule, providers).
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandforge/internal/ai"
	"brandforge/internal/content"
	"brandforge/internal/images"
	"brandforge/internal/ingest"
	"brandforge/internal/models"
	"brandforge/internal/schedule"
	"brandforge/internal/store"
)

// SetStore is the persistence surface the API needs for content sets.
// A nil SetStore means sets live only in memory for the process lifetime.
type SetStore interface {
	Create(ctx context.Context, set *models.ContentSet) error
	Save(ctx context.Context, set *models.ContentSet) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContentSet, error)
	List(ctx context.Context) ([]store.SetSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BrandStore is the persistence surface for brand profiles.
type BrandStore interface {
	FindBySetID(ctx context.Context, setID uuid.UUID) (*models.BrandProfile, error)
	Upsert(ctx context.Context, p *models.BrandProfile) error
}

// API holds the wired application services behind the HTTP routes.
type API struct {
	gen      content.Generator
	registry *ai.Registry
	sets     SetStore   // nilable
	brands   BrandStore // nilable
	images   *images.Orchestrator
	assets   images.AssetStore
	schedule *schedule.Manager

	// Workspaces are the in-memory editing sessions keyed by set ID. A
	// workspace is created on generation or lazily rebuilt from the store;
	// undo history always starts empty for a rebuilt one.
	mu         sync.Mutex
	workspaces map[uuid.UUID]*content.Workspace
}

// NewAPI wires the handler set. sets and brands may be nil when PostgreSQL
// is not configured.
func NewAPI(gen content.Generator, registry *ai.Registry, sets SetStore, brands BrandStore, orchestrator *images.Orchestrator, assets images.AssetStore, sched *schedule.Manager) *API {
	return &API{
		gen:        gen,
		registry:   registry,
		sets:       sets,
		brands:     brands,
		images:     orchestrator,
		assets:     assets,
		schedule:   sched,
		workspaces: make(map[uuid.UUID]*content.Workspace),
	}
}

// workspace returns the editing session for a set, rebuilding it from the
// store on first access after a restart. Returns nil when the set does not
// exist anywhere.
func (a *API) workspace(ctx context.Context, id uuid.UUID) (*content.Workspace, error) {
	a.mu.Lock()
	if ws, ok := a.workspaces[id]; ok {
		a.mu.Unlock()
		return ws, nil
	}
	a.mu.Unlock()

	if a.sets == nil {
		return nil, nil
	}
	set, err := a.sets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if ws, ok := a.workspaces[id]; ok { // raced with another request
		return ws, nil
	}
	ws := content.NewWorkspace(set, a.gen)
	a.workspaces[id] = ws
	return ws, nil
}

// persist writes the workspace's current snapshot through to the store.
// Persistence failures are logged, not surfaced; the in-memory state is
// authoritative during an editing session.
func (a *API) persist(ctx context.Context, ws *content.Workspace) {
	if a.sets == nil {
		return
	}
	if err := a.sets.Save(ctx, ws.Snapshot()); err != nil {
		slog.Error("persist content set failed", "set_id", ws.ID(), "error", err)
	}
}

// brandFor loads the brand profile for a set; a missing profile or an
// unconfigured store yields nil, which image prompts treat as "no brand".
func (a *API) brandFor(ctx context.Context, setID uuid.UUID) *models.BrandProfile {
	if a.brands == nil {
		return nil
	}
	brand, err := a.brands.FindBySetID(ctx, setID)
	if err != nil {
		slog.Error("load brand profile failed", "set_id", setID, "error", err)
		return nil
	}
	return brand
}

// checkPrompt runs moderation on a user-supplied prompt. It writes the
// rejection response and returns false when the prompt is flagged.
// Moderation errors fail open.
func (a *API) checkPrompt(w http.ResponseWriter, r *http.Request, text string) bool {
	result, err := a.registry.CheckPrompt(r.Context(), text)
	if err != nil {
		slog.Warn("prompt moderation unavailable", "error", err)
		return true
	}
	if !result.Safe {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "prompt rejected by content moderation",
			"categories": result.Categories,
		})
		return false
	}
	return true
}

// setIDParam parses the {setID} route parameter, writing a 400 on failure.
func setIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "setID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid set ID")
		return uuid.Nil, false
	}
	return id, true
}

// sectionParam parses the {section} route parameter.
func sectionParam(w http.ResponseWriter, r *http.Request) (models.Section, bool) {
	sec, err := models.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown section")
		return "", false
	}
	return sec, true
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGenError maps generation and editing failures to HTTP responses.
// Transport failures are transient and retryable; parse failures mean the
// model produced something unusable and the caller should regenerate.
func writeGenError(w http.ResponseWriter, err error) {
	var parseErr *ingest.ParseError
	var transportErr *ingest.TransportError
	switch {
	case errors.As(err, &parseErr):
		slog.Error("model output unusable", "error", err)
		writeError(w, http.StatusBadGateway, "the model returned malformed content; try again")
	case errors.As(err, &transportErr):
		slog.Error("provider request failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "the AI provider is unavailable; try again shortly")
	case errors.Is(err, content.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, content.ErrLastItem):
		writeError(w, http.StatusConflict, "a section must keep at least one item")
	case errors.Is(err, content.ErrUnknownField):
		writeError(w, http.StatusBadRequest, "unknown field")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
