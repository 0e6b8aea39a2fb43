// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
)

// GetProvider reports the active AI provider and the configured options.
func (a *API) GetProvider(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    a.registry.ActiveName(),
		"available": a.registry.Available(),
	})
}

// providerRequest is the body of POST /api/ai/provider.
type providerRequest struct {
	Provider string `json:"provider"`
}

// SwitchProvider changes the active AI provider at runtime. Sessions in
// progress keep their content; only subsequent generation calls use the
// new provider.
func (a *API) SwitchProvider(w http.ResponseWriter, r *http.Request) {
	var req providerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := a.registry.SetActive(req.Provider); err != nil {
		writeError(w, http.StatusBadRequest, "unknown or unconfigured provider")
		return
	}

	slog.Info("ai provider switched", "provider", req.Provider)
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    a.registry.ActiveName(),
		"available": a.registry.Available(),
	})
}
