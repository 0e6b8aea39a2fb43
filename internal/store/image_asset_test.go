// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"bytes"
	"context"
	"testing"

	"brandforge/internal/models"
)

func TestImageAssetStore_PutGetDelete(t *testing.T) {
	db := testDB(t)
	s := NewImageAssetStore(db)
	ctx := context.Background()

	set := newStoredSet(t, db)
	key := set.Posts[0].Key()

	asset := &models.ImageAsset{
		SetID:       set.ID,
		Key:         key,
		ContentType: "image/png",
		Data:        []byte{0x89, 0x50, 0x4e, 0x47},
	}
	if err := s.Put(ctx, asset); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, set.ID, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("stored asset not found")
	}
	if !bytes.Equal(got.Data, asset.Data) {
		t.Error("image bytes did not round-trip")
	}
	if got.ContentType != "image/png" {
		t.Errorf("content type: got %q", got.ContentType)
	}

	if err := s.Delete(ctx, set.ID, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = s.Get(ctx, set.ID, key)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if got != nil {
		t.Error("asset still present after delete")
	}

	// Idempotent delete.
	if err := s.Delete(ctx, set.ID, key); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestImageAssetStore_PutReplaces(t *testing.T) {
	db := testDB(t)
	s := NewImageAssetStore(db)
	ctx := context.Background()

	set := newStoredSet(t, db)
	key := set.Posts[0].Key()

	first := &models.ImageAsset{SetID: set.ID, Key: key, ContentType: "image/png", Data: []byte("v1")}
	if err := s.Put(ctx, first); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	second := &models.ImageAsset{SetID: set.ID, Key: key, ContentType: "image/webp", Data: []byte("v2")}
	if err := s.Put(ctx, second); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, _ := s.Get(ctx, set.ID, key)
	if string(got.Data) != "v2" || got.ContentType != "image/webp" {
		t.Errorf("upsert did not replace: %q %q", got.Data, got.ContentType)
	}
}

func TestImageAssetStore_Keys(t *testing.T) {
	db := testDB(t)
	s := NewImageAssetStore(db)
	ctx := context.Background()

	set := newStoredSet(t, db)
	slideKey := models.SlideKey(set.Posts[0].ID, 0)

	for _, k := range []string{set.Posts[0].Key(), slideKey} {
		if err := s.Put(ctx, &models.ImageAsset{SetID: set.ID, Key: k, Data: []byte("x")}); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}

	keys, err := s.Keys(ctx, set.ID)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys: got %d, want 2", len(keys))
	}
	if _, ok := keys[slideKey]; !ok {
		t.Error("slide key missing from listing")
	}
}
