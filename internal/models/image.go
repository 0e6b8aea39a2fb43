// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ImageAsset is one generated image, keyed by the owning item's ID (or an
// item ID plus slide suffix for carousel slides). The payload lives either
// inline in Data or in object storage under S3Key, never both.
type ImageAsset struct {
	SetID       uuid.UUID `json:"set_id"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	S3Key       *string   `json:"s3_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
