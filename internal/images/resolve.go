// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package images

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"brandforge/internal/models"
)

// ErrUnknownKey reports an asset key that does not resolve to any item or
// slide in the set.
var ErrUnknownKey = errors.New("images: no item for asset key")

// ResolveJob maps an asset key back to the prompt and aspect ratio for a
// single-key generation request. Item keys resolve to the item's image
// prompt; slide keys ("itemID:slide:N") resolve to the slide's prompt
// including the carousel's style and, for later slides, the textual
// reference to the first slide.
func ResolveJob(set *models.ContentSet, key string) (prompt, aspect string, err error) {
	if id, n, ok := parseSlideKey(key); ok {
		_, item := set.FindItem(models.SectionCarousels, id)
		if item == nil || n < 0 || n >= len(item.Slides) {
			return "", "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		anchor := ""
		if n > 0 {
			anchor = item.Slides[0].ImagePrompt
		}
		return slidePrompt(*item, n, anchor), AspectFor(models.SectionCarousels), nil
	}

	id, parseErr := uuid.Parse(key)
	if parseErr != nil {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	for _, sec := range models.SectionOrder {
		_, item := set.FindItem(sec, id)
		if item == nil {
			continue
		}
		if item.ImagePrompt == "" {
			return "", "", fmt.Errorf("%w: item %s has no image prompt", ErrUnknownKey, key)
		}
		return item.ImagePrompt, AspectFor(sec), nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// parseSlideKey splits "itemID:slide:N" into its parts.
func parseSlideKey(key string) (uuid.UUID, int, bool) {
	idPart, nPart, found := strings.Cut(key, ":slide:")
	if !found {
		return uuid.Nil, 0, false
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, 0, false
	}
	n, err := strconv.Atoi(nPart)
	if err != nil {
		return uuid.Nil, 0, false
	}
	return id, n, true
}
