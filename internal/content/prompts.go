// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"brandforge/internal/models"
)

// Counts maps sections to the requested number of items.
type Counts map[models.Section]int

// DefaultCounts is used when a generation request omits a section.
var DefaultCounts = Counts{
	models.SectionPosts:     3,
	models.SectionReels:     2,
	models.SectionArticles:  1,
	models.SectionCarousels: 1,
	models.SectionQuotes:    2,
	models.SectionVideos:    1,
}

// itemSchemas documents the JSON shape per section, embedded in the prompts
// so the model emits exactly the fields the parser expects.
var itemSchemas = map[models.Section]string{
	models.SectionPosts:    `{"title": "...", "caption": "...", "image_prompt": "..."}`,
	models.SectionReels:    `{"title": "...", "hook": "...", "script": "...", "caption": "...", "image_prompt": "..."}`,
	models.SectionArticles: `{"title": "...", "body": "...", "image_prompt": "..."}`,
	models.SectionCarousels: `{"caption": "...", "style_prompt": "...", ` +
		`"slides": [{"heading": "...", "body": "...", "image_prompt": "..."}]}`,
	models.SectionQuotes: `{"body": "...", "author": "...", "image_prompt": "..."}`,
	models.SectionVideos: `{"title": "...", "script": "...", "image_prompt": "..."}`,
}

const promptRules = `CRITICAL RULES:
1. Output ONLY a single JSON object. No explanations, no markdown code fences.
2. Every string value must be publication-ready marketing copy, not placeholders.
3. Every image_prompt must be a self-contained visual description suitable for
   an image generation model (subject, composition, mood, no text overlays).
4. For carousels, style_prompt describes the shared visual style of all slides
   and each slide's image_prompt describes only that slide's subject.
5. Write all copy in the requested language and tone.`

// setSystemPrompt instructs the model to emit the full six-section payload.
func setSystemPrompt(req SetRequest) string {
	var schema strings.Builder
	schema.WriteString("{\n")
	for i, sec := range models.SectionOrder {
		n := req.Counts[sec]
		fmt.Fprintf(&schema, "  %q: [ %s ]  // exactly %d item(s)", sec, itemSchemas[sec], n)
		if i < len(models.SectionOrder)-1 {
			schema.WriteString(",")
		}
		schema.WriteString("\n")
	}
	schema.WriteString("}")

	return fmt.Sprintf(`You are a senior social media strategist. Generate a complete weekly
marketing content batch as one JSON object with this exact structure:

%s

%s`, schema.String(), promptRules)
}

// setUserPrompt carries the user's theme, tone, and language.
func setUserPrompt(req SetRequest) string {
	return fmt.Sprintf("Theme: %s\nTone: %s\nLanguage: %s", req.Theme, req.Tone, req.Language)
}

// itemSystemPrompt instructs the model to emit one item of the given section.
func itemSystemPrompt(req ItemRequest) string {
	return fmt.Sprintf(`You are a senior social media strategist. Generate exactly ONE %s item
as a single JSON object with this exact structure:

%s

%s`, sectionSingular(req.Section), itemSchemas[req.Section], promptRules)
}

// itemUserPrompt carries the theme plus, for regeneration, the current item
// serialized as context so the model produces a materially different take.
func itemUserPrompt(req ItemRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Theme: %s\nTone: %s\nLanguage: %s\n", req.Theme, req.Tone, req.Language)

	if req.Current != nil {
		cur, err := json.Marshal(req.Current)
		if err == nil {
			sb.WriteString("\nCurrent item (produce a clearly different alternative, ")
			sb.WriteString("do not rephrase it):\n")
			sb.Write(cur)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// sectionSingular maps a section name to its singular item label.
func sectionSingular(sec models.Section) string {
	switch sec {
	case models.SectionPosts:
		return "social post"
	case models.SectionReels:
		return "reel"
	case models.SectionArticles:
		return "article"
	case models.SectionCarousels:
		return "carousel"
	case models.SectionQuotes:
		return "quote"
	case models.SectionVideos:
		return "video script"
	}
	return string(sec)
}
