// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"brandforge/internal/ics"
	"brandforge/internal/schedule"
)

// weekParam reads the optional ?week=N offset; 0 is the current week.
func weekParam(r *http.Request) int {
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil {
		return 0
	}
	return week
}

// GetSchedule returns the calendar for one week of a set, including any
// explicit posting dates.
func (a *API) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ws, ok := a.setRoute(w, r)
	if !ok {
		return
	}
	week := weekParam(r)

	snap := ws.Snapshot()
	s := a.schedule.Get(r.Context(), snap, week)
	dates, err := a.schedule.PostingDates(r.Context(), snap.ID)
	if err != nil {
		slog.Error("load posting dates failed", "set_id", snap.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load posting dates")
		return
	}

	weekStart := schedule.WeekStart(week)
	writeJSON(w, http.StatusOK, map[string]any{
		"schedule":      s,
		"week_start":    weekStart.Format("2006-01-02"),
		"posting_dates": formatDates(dates),
	})
}

func formatDates(dates map[string]time.Time) map[string]string {
	out := make(map[string]string, len(dates))
	for key, d := range dates {
		out[key] = d.Format("2006-01-02")
	}
	return out
}

// moveRequest is the body of POST .../schedule/move.
type moveRequest struct {
	Week    int    `json:"week"`
	FromDay int    `json:"from_day"`
	ItemID  string `json:"item_id"`
	ToDay   int    `json:"to_day"`
}

// MoveScheduleItem applies one drag-and-drop transfer. A stale transfer,
// where the item already left the source day, is dropped without error and
// the current schedule is returned as-is.
func (a *API) MoveScheduleItem(w http.ResponseWriter, r *http.Request) {
	ws, ok := a.setRoute(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	snap := ws.Snapshot()
	s := a.schedule.Move(r.Context(), snap, req.Week, req.FromDay, req.ItemID, req.ToDay)
	writeJSON(w, http.StatusOK, s)
}

// dateRequest is the body of PUT .../schedule/dates/{itemID}.
type dateRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// SetPostingDate pins an item to an explicit calendar date, overriding its
// weekday bucket in exports.
func (a *API) SetPostingDate(w http.ResponseWriter, r *http.Request) {
	id, ok := setIDParam(w, r)
	if !ok {
		return
	}
	itemKey := chi.URLParam(r, "itemID")

	var req dateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if err := a.schedule.SetPostingDate(r.Context(), id, itemKey, date); err != nil {
		slog.Error("set posting date failed", "item", itemKey, "error", err)
		writeError(w, http.StatusInternalServerError, "could not save the posting date")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearPostingDate removes an item's explicit date; the item falls back to
// its weekday bucket.
func (a *API) ClearPostingDate(w http.ResponseWriter, r *http.Request) {
	id, ok := setIDParam(w, r)
	if !ok {
		return
	}
	itemKey := chi.URLParam(r, "itemID")

	if err := a.schedule.ClearPostingDate(r.Context(), id, itemKey); err != nil {
		slog.Error("clear posting date failed", "item", itemKey, "error", err)
		writeError(w, http.StatusInternalServerError, "could not clear the posting date")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportICS renders one week of the schedule as an iCalendar download.
func (a *API) ExportICS(w http.ResponseWriter, r *http.Request) {
	ws, ok := a.setRoute(w, r)
	if !ok {
		return
	}
	week := weekParam(r)

	snap := ws.Snapshot()
	s := a.schedule.Get(r.Context(), snap, week)
	dates, err := a.schedule.PostingDates(r.Context(), snap.ID)
	if err != nil {
		slog.Error("load posting dates failed", "set_id", snap.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load posting dates")
		return
	}

	events := ics.FromSchedule(s, schedule.WeekStart(week), dates)
	body := ics.Encode(events, time.Now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
