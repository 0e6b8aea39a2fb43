// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostingDateStore persists the explicit per-item posting dates that
// override the calendar's computed weekday.
type PostingDateStore struct {
	db *sql.DB
}

// NewPostingDateStore creates a PostingDateStore with the given connection.
func NewPostingDateStore(db *sql.DB) *PostingDateStore {
	return &PostingDateStore{db: db}
}

// Set records or replaces the posting date for an item.
func (s *PostingDateStore) Set(ctx context.Context, setID uuid.UUID, key string, date time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posting_dates (set_id, item_key, post_on)
		VALUES ($1, $2, $3)
		ON CONFLICT (set_id, item_key) DO UPDATE SET post_on = EXCLUDED.post_on
	`, setID, key, date)
	if err != nil {
		return fmt.Errorf("set posting date for %s: %w", key, err)
	}
	return nil
}

// Clear removes an item's posting date. Clearing a missing entry is fine.
func (s *PostingDateStore) Clear(ctx context.Context, setID uuid.UUID, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM posting_dates WHERE set_id = $1 AND item_key = $2", setID, key)
	if err != nil {
		return fmt.Errorf("clear posting date for %s: %w", key, err)
	}
	return nil
}

// List returns every explicit posting date for a set, keyed by item key.
func (s *PostingDateStore) List(ctx context.Context, setID uuid.UUID) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT item_key, post_on FROM posting_dates WHERE set_id = $1", setID)
	if err != nil {
		return nil, fmt.Errorf("list posting dates: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var key string
		var date time.Time
		if err := rows.Scan(&key, &date); err != nil {
			return nil, fmt.Errorf("scan posting date: %w", err)
		}
		out[key] = date
	}
	return out, rows.Err()
}
