// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// BrandProfile holds the visual identity attached to a content set.
// When present, its colors and character description are appended to every
// image-generation prompt so the whole batch stays on-brand.
type BrandProfile struct {
	SetID     uuid.UUID `json:"set_id"`
	Colors    string    `json:"colors"`    // e.g. "#1a2b3c, #ff6600"
	Character string    `json:"character"` // likeness description, e.g. a mascot
	UpdatedAt time.Time `json:"updated_at"`
}
