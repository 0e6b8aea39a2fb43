// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package images orchestrates image-generation jobs for content items.
// Each job is keyed by the owning item's ID (or item ID plus slide suffix
// for carousel slides). Jobs for different keys run concurrently and fail
// independently; the one ordering rule is that a carousel's first slide is
// generated before its remaining slides, so it can anchor their visual
// style.
package images

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"brandforge/internal/ai"
	"brandforge/internal/models"
)

// maxConcurrentJobs bounds the image fan-out so a generate-all on a large
// set does not open dozens of provider connections at once.
const maxConcurrentJobs = 4

// Client generates one image from a prompt. *ai.Registry satisfies this.
type Client interface {
	GenerateImage(ctx context.Context, prompt string, opts ai.ImageOptions) ([]byte, string, error)
}

// AssetStore persists generated images keyed by (set, key).
type AssetStore interface {
	Get(ctx context.Context, setID uuid.UUID, key string) (*models.ImageAsset, error)
	Put(ctx context.Context, asset *models.ImageAsset) error
	Delete(ctx context.Context, setID uuid.UUID, key string) error
	Keys(ctx context.Context, setID uuid.UUID) (map[string]struct{}, error)
}

// Report collects the outcome of a batch generation run. Failures are
// per-key: one failed job never cancels or blocks its siblings.
type Report struct {
	Generated []string         // keys that produced a new asset
	Failed    map[string]error // keys whose job returned an error
}

// Ok reports whether every attempted job succeeded.
func (r *Report) Ok() bool { return len(r.Failed) == 0 }

// Orchestrator issues image-generation jobs against a provider client and
// stores the results. A brand profile, when set, is appended to every
// prompt before submission.
type Orchestrator struct {
	client Client
	store  AssetStore
}

// New creates an orchestrator over the given provider client and store.
func New(client Client, store AssetStore) *Orchestrator {
	return &Orchestrator{client: client, store: store}
}

// AspectFor returns the default aspect ratio for a section's imagery:
// square for feed content, portrait for short-form video, landscape for
// article headers.
func AspectFor(sec models.Section) string {
	switch sec {
	case models.SectionReels, models.SectionVideos:
		return "9:16"
	case models.SectionArticles:
		return "16:9"
	default:
		return "1:1"
	}
}

// WithBrandContext appends the brand's color palette and character
// likeness clauses to a prompt. The output is deterministic for a given
// prompt and profile. A nil or empty profile returns the prompt unchanged.
func WithBrandContext(prompt string, brand *models.BrandProfile) string {
	if brand == nil {
		return prompt
	}

	var b strings.Builder
	b.WriteString(prompt)
	if brand.Colors != "" {
		b.WriteString(". Use the brand color palette: ")
		b.WriteString(brand.Colors)
	}
	if brand.Character != "" {
		b.WriteString(". Feature the brand character: ")
		b.WriteString(brand.Character)
	}
	return b.String()
}

// Generate runs one image job for the given key and stores the result.
// The brand profile (may be nil) is applied to the prompt. Concurrent
// calls for different keys are independent.
func (o *Orchestrator) Generate(ctx context.Context, setID uuid.UUID, key, prompt, aspectRatio string, brand *models.BrandProfile) error {
	return o.generate(ctx, setID, key, WithBrandContext(prompt, brand), aspectRatio, nil)
}

// RegenerateWithFeedback re-runs a key's job with the user's correction
// appended to the base prompt. The prior asset is replaced only when the
// new job succeeds; on failure it is left in place.
func (o *Orchestrator) RegenerateWithFeedback(ctx context.Context, setID uuid.UUID, key, basePrompt, feedback string, aspectRatio string, brand *models.BrandProfile) error {
	prompt := WithBrandContext(basePrompt, brand)
	if strings.TrimSpace(feedback) != "" {
		prompt += ". IMPORTANT CHANGE: " + strings.TrimSpace(feedback)
	}
	return o.generate(ctx, setID, key, prompt, aspectRatio, nil)
}

// Delete removes the stored asset for a key. Deleting a key that has no
// asset is not an error.
func (o *Orchestrator) Delete(ctx context.Context, setID uuid.UUID, key string) error {
	return o.store.Delete(ctx, setID, key)
}

// GenerateAllPending finds every key in the set that has no stored asset
// and runs one job per key. Jobs run concurrently up to maxConcurrentJobs,
// except that within one carousel slide 0 completes first and the later
// slides reference its established style (and its image, for providers
// that accept reference images). Carousels never wait on each other, and
// a failure is recorded per key without cancelling siblings.
func (o *Orchestrator) GenerateAllPending(ctx context.Context, set *models.ContentSet, brand *models.BrandProfile) *Report {
	report := &Report{Failed: make(map[string]error)}

	existing, err := o.store.Keys(ctx, set.ID)
	if err != nil {
		report.Failed["*"] = fmt.Errorf("list existing assets: %w", err)
		return report
	}

	var mu sync.Mutex
	record := func(key string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Failed[key] = err
			return
		}
		report.Generated = append(report.Generated, key)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentJobs)

	// Flat sections: one independent job per item lacking an asset.
	for _, sec := range models.SectionOrder {
		if sec == models.SectionCarousels {
			continue
		}
		aspect := AspectFor(sec)
		for _, item := range set.Section(sec) {
			if item.ImagePrompt == "" {
				continue
			}
			key := item.Key()
			if _, ok := existing[key]; ok {
				continue
			}
			prompt := WithBrandContext(item.ImagePrompt, brand)
			g.Go(func() error {
				record(key, o.generate(gctx, set.ID, key, prompt, aspect, nil))
				return nil
			})
		}
	}

	// Carousels: each carousel is one sequential unit — slide 0 first,
	// then the remaining slides with slide 0 as their style anchor.
	for _, item := range set.Carousels {
		item := item
		g.Go(func() error {
			o.generateCarousel(gctx, set, item, brand, existing, record)
			return nil
		})
	}

	g.Wait()

	slog.Info("image batch complete",
		"set_id", set.ID,
		"generated", len(report.Generated),
		"failed", len(report.Failed))
	return report
}

// generateCarousel runs one carousel's slide jobs in anchor order. When
// slide 0 fails (and no prior slide-0 asset exists), the later slides are
// skipped for this run rather than generated off-style.
func (o *Orchestrator) generateCarousel(ctx context.Context, set *models.ContentSet, item models.Item, brand *models.BrandProfile, existing map[string]struct{}, record func(string, error)) {
	if len(item.Slides) == 0 {
		return
	}

	anchorKey := models.SlideKey(item.ID, 0)
	anchorPrompt := slidePrompt(item, 0, "")

	var anchor *models.ImageAsset
	if _, ok := existing[anchorKey]; ok {
		// Anchor already generated in a previous run; load it so later
		// slides can still reference its image.
		a, err := o.store.Get(ctx, set.ID, anchorKey)
		if err != nil {
			slog.Warn("style anchor unreadable, continuing without reference",
				"key", anchorKey, "error", err)
		}
		anchor = a
	} else {
		asset, err := o.generateAsset(ctx, set.ID, anchorKey, WithBrandContext(anchorPrompt, brand), AspectFor(models.SectionCarousels), nil)
		record(anchorKey, err)
		if err != nil {
			return
		}
		anchor = asset
	}

	var refs []ai.ReferenceImage
	if anchor != nil && len(anchor.Data) > 0 {
		refs = []ai.ReferenceImage{{Data: anchor.Data, ContentType: anchor.ContentType}}
	}

	for n := 1; n < len(item.Slides); n++ {
		key := models.SlideKey(item.ID, n)
		if _, ok := existing[key]; ok {
			continue
		}
		prompt := WithBrandContext(slidePrompt(item, n, anchorPrompt), brand)
		record(key, o.generate(ctx, set.ID, key, prompt, AspectFor(models.SectionCarousels), refs))
	}
}

// slidePrompt builds the prompt for one carousel slide. Slides after the
// first carry a textual reference to the anchor slide's prompt so the
// whole carousel reads as one visual series even without image references.
func slidePrompt(item models.Item, n int, anchorPrompt string) string {
	prompt := item.Slides[n].ImagePrompt
	if item.StylePrompt != "" {
		prompt += ". Overall style: " + item.StylePrompt
	}
	if n > 0 && anchorPrompt != "" {
		prompt += ". Match the established visual style of the first slide: " + anchorPrompt
	}
	return prompt
}

// generate runs one job and stores the asset, discarding the returned copy.
func (o *Orchestrator) generate(ctx context.Context, setID uuid.UUID, key, prompt, aspectRatio string, refs []ai.ReferenceImage) error {
	_, err := o.generateAsset(ctx, setID, key, prompt, aspectRatio, refs)
	return err
}

// generateAsset runs one image job and stores the result under the key,
// returning the stored asset. The prior asset for the key survives any
// failure; it is only replaced after the new image exists.
func (o *Orchestrator) generateAsset(ctx context.Context, setID uuid.UUID, key, prompt, aspectRatio string, refs []ai.ReferenceImage) (*models.ImageAsset, error) {
	start := time.Now()
	data, contentType, err := o.client.GenerateImage(ctx, prompt, ai.ImageOptions{
		AspectRatio: aspectRatio,
		References:  refs,
	})
	if err != nil {
		return nil, fmt.Errorf("image job %s: %w", key, err)
	}

	asset := &models.ImageAsset{
		SetID:       setID,
		Key:         key,
		ContentType: contentType,
		Data:        data,
		CreatedAt:   time.Now(),
	}
	if err := o.store.Put(ctx, asset); err != nil {
		return nil, fmt.Errorf("store image %s: %w", key, err)
	}

	slog.Info("image generated",
		"key", key,
		"bytes", len(data),
		"aspect", aspectRatio,
		"took", time.Since(start).Round(time.Millisecond))
	return asset, nil
}
