// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"io"

	"brandforge/internal/ai"
)

// AIGenerator adapts the provider registry to the Generator interface,
// pairing the content prompts with whichever provider is active.
type AIGenerator struct {
	registry *ai.Registry
}

// NewAIGenerator creates a Generator backed by the AI provider registry.
func NewAIGenerator(registry *ai.Registry) *AIGenerator {
	return &AIGenerator{registry: registry}
}

// StreamSet opens a generation stream for a full six-section batch.
func (g *AIGenerator) StreamSet(ctx context.Context, req SetRequest) (io.ReadCloser, error) {
	return g.registry.GenerateStream(ctx, setSystemPrompt(req), setUserPrompt(req))
}

// StreamItem opens a generation stream for a single item.
func (g *AIGenerator) StreamItem(ctx context.Context, req ItemRequest) (io.ReadCloser, error) {
	return g.registry.GenerateStream(ctx, itemSystemPrompt(req), itemUserPrompt(req))
}
