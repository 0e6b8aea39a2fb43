// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/models"
)

// cacheTTL bounds how long a serialized week survives in the shared cache.
const cacheTTL = 24 * time.Hour

// Cache is the shared key/value cache the manager writes schedules
// through. A miss returns (nil, nil). *cache.ScheduleCache satisfies this.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DateStore persists explicit per-item posting dates.
type DateStore interface {
	Set(ctx context.Context, setID uuid.UUID, key string, date time.Time) error
	Clear(ctx context.Context, setID uuid.UUID, key string) error
	List(ctx context.Context, setID uuid.UUID) (map[string]time.Time, error)
}

// Manager owns the live schedules, one per (set, week offset). Schedules
// are held in memory and written through to the shared cache so another
// instance, or a restart, picks up manual placements. All methods are
// safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	schedules map[string]*Schedule

	cache Cache     // may be nil when no cache is configured
	dates DateStore // may be nil when posting dates are not persisted
}

// NewManager creates a schedule manager. Both cache and dates may be nil;
// the manager then works purely in memory.
func NewManager(cache Cache, dates DateStore) *Manager {
	return &Manager{
		schedules: make(map[string]*Schedule),
		cache:     cache,
		dates:     dates,
	}
}

func cacheKey(setID uuid.UUID, weekOffset int) string {
	return fmt.Sprintf("schedule:%s:%d", setID, weekOffset)
}

// Get returns the schedule for a set and week, redistributing only when
// the fingerprint changed since the schedule was last built. A schedule
// with a matching fingerprint is returned as-is, preserving manual moves.
func (m *Manager) Get(ctx context.Context, set *models.ContentSet, weekOffset int) *Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cacheKey(set.ID, weekOffset)
	fp := Fingerprint(set, weekOffset)

	if s, ok := m.schedules[key]; ok && s.Fingerprint == fp {
		return s
	}

	// Not in memory: try the shared cache before redistributing, so a
	// restart does not wipe manual placements.
	if _, ok := m.schedules[key]; !ok && m.cache != nil {
		if s := m.loadCached(ctx, key, fp); s != nil {
			m.schedules[key] = s
			return s
		}
	}

	s := Distribute(set, weekOffset)
	m.schedules[key] = s
	m.writeThrough(ctx, key, s)
	return s
}

// Move applies a drag transaction to the set's schedule for the given
// week and persists the result. Stale moves leave the schedule unchanged
// but are not an error.
func (m *Manager) Move(ctx context.Context, set *models.ContentSet, weekOffset, fromDay int, itemID string, toDay int) *Schedule {
	s := m.Get(ctx, set, weekOffset)

	m.mu.Lock()
	defer m.mu.Unlock()
	s.Move(fromDay, itemID, toDay)
	m.writeThrough(ctx, cacheKey(set.ID, weekOffset), s)
	return s
}

// Invalidate drops every cached week for a set. Called when a set is
// deleted.
func (m *Manager) Invalidate(ctx context.Context, setID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := fmt.Sprintf("schedule:%s:", setID)
	for key := range m.schedules {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(m.schedules, key)
			if m.cache != nil {
				if err := m.cache.Delete(ctx, key); err != nil {
					slog.Warn("schedule cache delete failed", "key", key, "error", err)
				}
			}
		}
	}
}

// SetPostingDate records an explicit posting date for an item.
func (m *Manager) SetPostingDate(ctx context.Context, setID uuid.UUID, itemKey string, date time.Time) error {
	if m.dates == nil {
		return fmt.Errorf("posting dates are not persisted")
	}
	return m.dates.Set(ctx, setID, itemKey, date)
}

// ClearPostingDate removes an item's explicit posting date.
func (m *Manager) ClearPostingDate(ctx context.Context, setID uuid.UUID, itemKey string) error {
	if m.dates == nil {
		return fmt.Errorf("posting dates are not persisted")
	}
	return m.dates.Clear(ctx, setID, itemKey)
}

// PostingDates returns the explicit dates for a set, keyed by item key.
// Returns an empty map when no date store is configured.
func (m *Manager) PostingDates(ctx context.Context, setID uuid.UUID) (map[string]time.Time, error) {
	if m.dates == nil {
		return map[string]time.Time{}, nil
	}
	return m.dates.List(ctx, setID)
}

// loadCached fetches and validates a cached schedule. Returns nil on
// miss, decode failure, or fingerprint mismatch.
func (m *Manager) loadCached(ctx context.Context, key, fingerprint string) *Schedule {
	raw, err := m.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("schedule cache read failed", "key", key, "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var s Schedule
	if err := json.Unmarshal(raw, &s); err != nil {
		slog.Warn("schedule cache entry corrupt", "key", key, "error", err)
		return nil
	}
	if s.Fingerprint != fingerprint {
		return nil
	}
	return &s
}

// writeThrough serializes the schedule into the shared cache. Cache
// failures are logged, never surfaced: the in-memory schedule is the
// source of truth.
func (m *Manager) writeThrough(ctx context.Context, key string, s *Schedule) {
	if m.cache == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		slog.Warn("schedule marshal failed", "key", key, "error", err)
		return
	}
	if err := m.cache.Set(ctx, key, raw, cacheTTL); err != nil {
		slog.Warn("schedule cache write failed", "key", key, "error", err)
	}
}
