// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"brandforge/internal/models"
)

// Seed populates the database with initial development data: one sample
// content set so the calendar and editor have something to show before
// the first generation. It only runs against an empty content_sets table.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM content_sets").Scan(&count); err != nil {
		return fmt.Errorf("seed check content sets: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	set := sampleSet()
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("seed marshal sample set: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO content_sets (id, theme, tone, language, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, set.ID, set.Theme, set.Tone, set.Language, payload)
	if err != nil {
		return fmt.Errorf("seed insert sample set: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO brand_profiles (set_id, colors, character)
		VALUES ($1, $2, $3)
	`, set.ID, "#2563eb, #f59e0b", "a friendly cartoon espresso cup with round eyes")
	if err != nil {
		return fmt.Errorf("seed insert brand profile: %w", err)
	}

	slog.Info("database seeded with sample content set",
		"set_id", set.ID,
		"theme", set.Theme,
	)
	return nil
}

// sampleSet builds a small but fully-shaped content set covering every
// section, so the whole UI is exercised in development.
func sampleSet() *models.ContentSet {
	set := &models.ContentSet{
		ID:       uuid.New(),
		Theme:    "Specialty coffee roastery launch",
		Tone:     "warm and confident",
		Language: "en",
	}

	set.Posts = []models.Item{
		{
			Title:       "Meet your new morning ritual",
			Caption:     "Small-batch roasting, big flavor. Our first single-origin drop lands Friday.",
			ImagePrompt: "overhead shot of a pour-over coffee setup on a walnut counter, morning light",
		},
		{
			Title:       "From farm to first sip",
			Caption:     "Every bag is traceable to the farm that grew it. Transparency you can taste.",
			ImagePrompt: "hands holding freshly picked coffee cherries, shallow depth of field",
		},
	}
	set.Reels = []models.Item{
		{
			Title:       "Roast day in 30 seconds",
			Hook:        "Ever wondered what 12 hours of roast day looks like?",
			Script:      "Open on green beans pouring into the roaster. Cut to first crack. End on a fresh espresso shot.",
			ImagePrompt: "coffee beans mid-roast tumbling inside a drum roaster, warm tones",
		},
	}
	set.Articles = []models.Item{
		{
			Title:       "Why single-origin matters",
			Body:        "When coffee comes from one farm, one harvest, one process, you taste a place instead of a blend. This is what that means for your cup.",
			ImagePrompt: "wide landscape of a hillside coffee farm at golden hour",
		},
	}
	set.Carousels = []models.Item{
		{
			StylePrompt: "warm flat illustration, cream background, burnt orange accents",
			Slides: []models.Slide{
				{Heading: "Brewing at home, step one", Body: "Start with fresh beans. Whole, not pre-ground.", ImagePrompt: "illustrated bag of coffee beans with a small grinder"},
				{Heading: "Grind for your brewer", Body: "Coarse for press, medium for drip, fine for espresso.", ImagePrompt: "illustrated trio of grind sizes in small bowls"},
				{Heading: "Water is 98% of the cup", Body: "Filtered water at 93 degrees. Your kettle matters.", ImagePrompt: "illustrated gooseneck kettle pouring a steady spiral"},
			},
		},
	}
	set.Quotes = []models.Item{
		{
			Body:        "Coffee is a language in itself.",
			Author:      "Jackie Chan",
			ImagePrompt: "minimal typographic quote card, cream background, serif type",
		},
	}
	set.Videos = []models.Item{
		{
			Title:       "Our roastery tour",
			Script:      "Walk through the roastery from green-bean intake to the cupping table, introducing the team along the way.",
			ImagePrompt: "cinematic interior of a small coffee roastery, dust motes in sunlight",
		},
	}

	set.AssignIDs()
	return set
}
