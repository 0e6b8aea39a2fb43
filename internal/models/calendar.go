// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "unicode/utf8"

// CalendarItem is a read-only projection of one content item onto the
// weekly calendar. It is rebuilt from the content set whenever the schedule
// is redistributed and is never mutated in place.
type CalendarItem struct {
	ID       string  `json:"id"`
	Kind     Section `json:"kind"`
	Title    string  `json:"title"`
	Preview  string  `json:"preview"`
	FullText string  `json:"full_text"`
	Color    string  `json:"color"`
}

// previewMax is the rune budget for calendar previews.
const previewMax = 80

// sectionColors gives each section a stable accent color for calendar chips.
var sectionColors = map[Section]string{
	SectionPosts:     "#6366f1",
	SectionReels:     "#ec4899",
	SectionArticles:  "#10b981",
	SectionCarousels: "#f59e0b",
	SectionQuotes:    "#8b5cf6",
	SectionVideos:    "#ef4444",
}

// NewCalendarItem projects a content item into its calendar representation.
// For carousels the title and preview summarize the first slide.
func NewCalendarItem(sec Section, it *Item) CalendarItem {
	full := it.DisplayText()
	return CalendarItem{
		ID:       it.Key(),
		Kind:     sec,
		Title:    it.DisplayTitle(),
		Preview:  truncateRunes(full, previewMax),
		FullText: full,
		Color:    sectionColors[sec],
	}
}

// truncateRunes shortens s to at most max runes, appending an ellipsis.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
