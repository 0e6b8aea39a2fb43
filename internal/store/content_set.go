// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the PostgreSQL persistence layer: one store per
// entity, raw SQL, no ORM. Lookups return (nil, nil) when the row does
// not exist; callers decide whether that is an error.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/models"
)

// ContentSetStore persists content sets. The six sections travel as one
// JSONB payload: the set is always read and written whole, which matches
// how the workspace mutates it.
type ContentSetStore struct {
	db *sql.DB
}

// NewContentSetStore creates a ContentSetStore with the given connection.
func NewContentSetStore(db *sql.DB) *ContentSetStore {
	return &ContentSetStore{db: db}
}

// Create inserts a new content set.
func (s *ContentSetStore) Create(ctx context.Context, set *models.ContentSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal content set: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO content_sets (id, theme, tone, language, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, set.ID, set.Theme, set.Tone, set.Language, payload, set.CreatedAt, set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert content set: %w", err)
	}
	return nil
}

// Save replaces the stored payload for an existing set.
func (s *ContentSetStore) Save(ctx context.Context, set *models.ContentSet) error {
	set.UpdatedAt = time.Now()
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal content set: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE content_sets
		SET theme = $2, tone = $3, language = $4, payload = $5, updated_at = $6
		WHERE id = $1
	`, set.ID, set.Theme, set.Tone, set.Language, payload, set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update content set: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("content set %s not found", set.ID)
	}
	return nil
}

// FindByID retrieves a content set by its UUID. Returns nil if not found.
func (s *ContentSetStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentSet, error) {
	var payload []byte
	var createdAt, updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT payload, created_at, updated_at FROM content_sets WHERE id = $1
	`, id).Scan(&payload, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content set by id: %w", err)
	}

	set := &models.ContentSet{}
	if err := json.Unmarshal(payload, set); err != nil {
		return nil, fmt.Errorf("unmarshal content set %s: %w", id, err)
	}
	// The columns are authoritative for identity and timestamps.
	set.ID = id
	set.CreatedAt = createdAt
	set.UpdatedAt = updatedAt
	return set, nil
}

// SetSummary is a listing row: the generation parameters without the
// section payload.
type SetSummary struct {
	ID        uuid.UUID `json:"id"`
	Theme     string    `json:"theme"`
	Tone      string    `json:"tone"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List returns summaries of all sets, newest first.
func (s *ContentSetStore) List(ctx context.Context) ([]SetSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, theme, tone, language, created_at, updated_at
		FROM content_sets
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list content sets: %w", err)
	}
	defer rows.Close()

	var out []SetSummary
	for rows.Next() {
		var sum SetSummary
		if err := rows.Scan(&sum.ID, &sum.Theme, &sum.Tone, &sum.Language,
			&sum.CreatedAt, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan content set summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a set; assets, dates, and brand profile cascade.
func (s *ContentSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM content_sets WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete content set: %w", err)
	}
	return nil
}
