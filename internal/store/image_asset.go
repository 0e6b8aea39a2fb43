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

// ImageAssetStore persists generated images, keyed by (set, key). Put is
// an upsert so a regenerated image replaces its predecessor atomically.
type ImageAssetStore struct {
	db *sql.DB
}

// NewImageAssetStore creates an ImageAssetStore with the given connection.
func NewImageAssetStore(db *sql.DB) *ImageAssetStore {
	return &ImageAssetStore{db: db}
}

// Get retrieves one asset. Returns nil if not found.
func (s *ImageAssetStore) Get(ctx context.Context, setID uuid.UUID, key string) (*models.ImageAsset, error) {
	a := &models.ImageAsset{SetID: setID, Key: key}
	err := s.db.QueryRowContext(ctx, `
		SELECT content_type, data, s3_key, created_at
		FROM image_assets WHERE set_id = $1 AND key = $2
	`, setID, key).Scan(&a.ContentType, &a.Data, &a.S3Key, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find image asset %s: %w", key, err)
	}
	return a, nil
}

// Put inserts or replaces an asset.
func (s *ImageAssetStore) Put(ctx context.Context, asset *models.ImageAsset) error {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO image_assets (set_id, key, content_type, data, s3_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (set_id, key) DO UPDATE
		SET content_type = EXCLUDED.content_type,
		    data = EXCLUDED.data,
		    s3_key = EXCLUDED.s3_key,
		    created_at = EXCLUDED.created_at
	`, asset.SetID, asset.Key, asset.ContentType, asset.Data, asset.S3Key, asset.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert image asset %s: %w", asset.Key, err)
	}
	return nil
}

// Delete removes an asset. Deleting a missing key is not an error.
func (s *ImageAssetStore) Delete(ctx context.Context, setID uuid.UUID, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM image_assets WHERE set_id = $1 AND key = $2", setID, key)
	if err != nil {
		return fmt.Errorf("delete image asset %s: %w", key, err)
	}
	return nil
}

// Keys returns the set of keys that have a stored asset. Used to compute
// which items are still pending generation.
func (s *ImageAssetStore) Keys(ctx context.Context, setID uuid.UUID) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM image_assets WHERE set_id = $1", setID)
	if err != nil {
		return nil, fmt.Errorf("list image asset keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan image asset key: %w", err)
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}
