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

	"brandforge/internal/models"
)

// BrandProfileStore persists the per-set visual identity used to augment
// image prompts.
type BrandProfileStore struct {
	db *sql.DB
}

// NewBrandProfileStore creates a BrandProfileStore with the given connection.
func NewBrandProfileStore(db *sql.DB) *BrandProfileStore {
	return &BrandProfileStore{db: db}
}

// FindBySetID retrieves the brand profile for a set. Returns nil if the
// set has none.
func (s *BrandProfileStore) FindBySetID(ctx context.Context, setID uuid.UUID) (*models.BrandProfile, error) {
	p := &models.BrandProfile{SetID: setID}
	err := s.db.QueryRowContext(ctx, `
		SELECT colors, character, updated_at
		FROM brand_profiles WHERE set_id = $1
	`, setID).Scan(&p.Colors, &p.Character, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand profile: %w", err)
	}
	return p, nil
}

// Upsert inserts or replaces a set's brand profile.
func (s *BrandProfileStore) Upsert(ctx context.Context, p *models.BrandProfile) error {
	p.UpdatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO brand_profiles (set_id, colors, character, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (set_id) DO UPDATE
		SET colors = EXCLUDED.colors,
		    character = EXCLUDED.character,
		    updated_at = EXCLUDED.updated_at
	`, p.SetID, p.Colors, p.Character, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert brand profile: %w", err)
	}
	return nil
}
