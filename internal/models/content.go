// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Section names one of the six content categories in a generated batch.
type Section string

const (
	SectionPosts     Section = "posts"
	SectionReels     Section = "reels"
	SectionArticles  Section = "articles"
	SectionCarousels Section = "carousels"
	SectionQuotes    Section = "quotes"
	SectionVideos    Section = "videos"
)

// SectionOrder is the canonical display and flattening order of sections.
var SectionOrder = []Section{
	SectionPosts, SectionReels, SectionArticles,
	SectionCarousels, SectionQuotes, SectionVideos,
}

// ParseSection validates a section name from a URL or request payload.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionPosts, SectionReels, SectionArticles,
		SectionCarousels, SectionQuotes, SectionVideos:
		return Section(s), nil
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Slide is one panel of a carousel. Slides have no identity of their own;
// they are addressed through their parent item's ID plus their position.
type Slide struct {
	Heading     string `json:"heading"`
	Body        string `json:"body"`
	ImagePrompt string `json:"image_prompt"`
}

// Item is a single piece of content in any section. All sections share one
// shape, differentiated by which fields the section populates: posts use
// Title/Caption/ImagePrompt, reels add Hook and Script, articles use Body,
// carousels use Slides plus a shared StylePrompt, quotes use Body/Author,
// videos use Title/Script.
//
// Every item carries an immutable ID assigned at creation. Image assets,
// posting dates, and calendar entries key off that ID, so removing or
// reordering items never invalidates a reference. Position in the section
// slice is display order only.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title,omitempty"`
	Caption     string    `json:"caption,omitempty"`
	Body        string    `json:"body,omitempty"`
	Hook        string    `json:"hook,omitempty"`
	Script      string    `json:"script,omitempty"`
	Author      string    `json:"author,omitempty"`
	ImagePrompt string    `json:"image_prompt,omitempty"`
	StylePrompt string    `json:"style_prompt,omitempty"`
	Slides      []Slide   `json:"slides,omitempty"`

	// FreshUntil marks a just-generated item for a short-lived UI highlight.
	// Zero means not fresh.
	FreshUntil time.Time `json:"fresh_until"`
}

// Fresh reports whether the item is still inside its freshness window.
func (it *Item) Fresh() bool {
	return !it.FreshUntil.IsZero() && time.Now().Before(it.FreshUntil)
}

// Key returns the asset/schedule key for the item itself.
func (it *Item) Key() string { return it.ID.String() }

// SlideKey returns the asset key for one slide of a carousel item.
func SlideKey(itemID uuid.UUID, n int) string {
	return fmt.Sprintf("%s:slide:%d", itemID, n)
}

// DisplayTitle returns the best human-readable label for an item,
// falling back through the populated fields.
func (it *Item) DisplayTitle() string {
	switch {
	case it.Title != "":
		return it.Title
	case len(it.Slides) > 0 && it.Slides[0].Heading != "":
		return it.Slides[0].Heading
	case it.Body != "":
		return it.Body
	case it.Caption != "":
		return it.Caption
	}
	return "Untitled"
}

// DisplayText returns the full text shown for an item on the calendar.
func (it *Item) DisplayText() string {
	switch {
	case it.Caption != "":
		return it.Caption
	case it.Script != "":
		return it.Script
	case it.Body != "":
		return it.Body
	}
	return it.Title
}

// Clone returns a deep copy of the item, including its slide list.
func (it *Item) Clone() Item {
	c := *it
	if it.Slides != nil {
		c.Slides = make([]Slide, len(it.Slides))
		copy(c.Slides, it.Slides)
	}
	return c
}

// CloneItems deep-copies a section's item sequence. Used for history
// snapshots, which must never alias the live slice.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}

// ContentSet is one generated batch of marketing content: six ordered
// sections plus the generation parameters that produced them.
type ContentSet struct {
	ID       uuid.UUID `json:"id"`
	Theme    string    `json:"theme"`
	Tone     string    `json:"tone"`
	Language string    `json:"language"`

	Posts     []Item `json:"posts"`
	Reels     []Item `json:"reels"`
	Articles  []Item `json:"articles"`
	Carousels []Item `json:"carousels"`
	Quotes    []Item `json:"quotes"`
	Videos    []Item `json:"videos"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section returns the item sequence for the named section.
func (s *ContentSet) Section(sec Section) []Item {
	switch sec {
	case SectionPosts:
		return s.Posts
	case SectionReels:
		return s.Reels
	case SectionArticles:
		return s.Articles
	case SectionCarousels:
		return s.Carousels
	case SectionQuotes:
		return s.Quotes
	case SectionVideos:
		return s.Videos
	}
	return nil
}

// SetSection replaces the item sequence for the named section.
func (s *ContentSet) SetSection(sec Section, items []Item) {
	switch sec {
	case SectionPosts:
		s.Posts = items
	case SectionReels:
		s.Reels = items
	case SectionArticles:
		s.Articles = items
	case SectionCarousels:
		s.Carousels = items
	case SectionQuotes:
		s.Quotes = items
	case SectionVideos:
		s.Videos = items
	}
}

// FindItem locates an item by ID within a section. Returns the index and a
// pointer into the live slice, or (-1, nil) when absent.
func (s *ContentSet) FindItem(sec Section, id uuid.UUID) (int, *Item) {
	items := s.Section(sec)
	for i := range items {
		if items[i].ID == id {
			return i, &items[i]
		}
	}
	return -1, nil
}

// AssignIDs gives an ID to every item that lacks one. Called once after a
// generation payload is parsed, since the model does not emit IDs.
func (s *ContentSet) AssignIDs() {
	for _, sec := range SectionOrder {
		items := s.Section(sec)
		for i := range items {
			if items[i].ID == uuid.Nil {
				items[i].ID = uuid.New()
			}
		}
	}
}

// Clone returns a deep copy of the whole set.
func (s *ContentSet) Clone() *ContentSet {
	c := *s
	for _, sec := range SectionOrder {
		c.SetSection(sec, CloneItems(s.Section(sec)))
	}
	return &c
}

// ItemCount returns the total number of items across all six sections.
func (s *ContentSet) ItemCount() int {
	n := 0
	for _, sec := range SectionOrder {
		n += len(s.Section(sec))
	}
	return n
}
