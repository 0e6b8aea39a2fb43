// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package images

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"brandforge/internal/models"
	"brandforge/internal/storage"
)

// OffloadStore wraps an AssetStore and moves image payloads to S3-compatible
// object storage, keeping only the object key in the database row. Reads
// hydrate the payload back from storage so callers never see the difference.
type OffloadStore struct {
	inner   AssetStore
	objects *storage.Client
}

// NewOffloadStore returns an asset store that offloads payloads to objects.
func NewOffloadStore(inner AssetStore, objects *storage.Client) *OffloadStore {
	return &OffloadStore{inner: inner, objects: objects}
}

func (s *OffloadStore) Get(ctx context.Context, setID uuid.UUID, key string) (*models.ImageAsset, error) {
	asset, err := s.inner.Get(ctx, setID, key)
	if err != nil || asset == nil {
		return asset, err
	}
	if asset.S3Key != nil && len(asset.Data) == 0 {
		data, err := s.objects.DownloadImage(ctx, *asset.S3Key)
		if err != nil {
			return nil, fmt.Errorf("hydrate asset %s: %w", key, err)
		}
		asset.Data = data
	}
	return asset, nil
}

func (s *OffloadStore) Put(ctx context.Context, asset *models.ImageAsset) error {
	objectKey, err := s.objects.UploadImage(ctx, asset.SetID, asset.Key, asset.ContentType, asset.Data)
	if err != nil {
		return fmt.Errorf("offload asset %s: %w", asset.Key, err)
	}
	stored := *asset
	stored.S3Key = &objectKey
	stored.Data = nil
	return s.inner.Put(ctx, &stored)
}

func (s *OffloadStore) Delete(ctx context.Context, setID uuid.UUID, key string) error {
	asset, err := s.inner.Get(ctx, setID, key)
	if err != nil {
		return err
	}
	if asset != nil && asset.S3Key != nil {
		// The row is authoritative; a dangling object is only logged.
		if err := s.objects.DeleteImage(ctx, *asset.S3Key); err != nil {
			slog.Warn("delete image object failed", "key", key, "error", err)
		}
	}
	return s.inner.Delete(ctx, setID, key)
}

func (s *OffloadStore) Keys(ctx context.Context, setID uuid.UUID) (map[string]struct{}, error) {
	return s.inner.Keys(ctx, setID)
}
