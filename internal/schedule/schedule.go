// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package schedule builds and maintains the weekly posting calendar for a
// content set. Items are auto-distributed over the five weekdays; manual
// drag moves persist until the underlying content or the selected week
// changes, which is detected through a fingerprint of both.
package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/models"
)

// weekdayBuckets is how many buckets receive auto-distributed items.
// Saturday and Sunday (buckets 5 and 6) are only ever filled by hand.
const weekdayBuckets = 5

// DaysPerWeek is the bucket count of one schedule week, Monday first.
const DaysPerWeek = 7

// Schedule is one week's calendar for a content set: seven ordered day
// buckets plus the fingerprint of the content state that produced it.
type Schedule struct {
	SetID       uuid.UUID                       `json:"set_id"`
	WeekOffset  int                             `json:"week_offset"`
	Fingerprint string                          `json:"fingerprint"`
	Days        [DaysPerWeek][]models.CalendarItem `json:"days"`
}

// Fingerprint derives the redistribution key for a set and week: the
// concatenated item IDs in flattening order plus the week offset. Any
// add, remove, or regenerate changes an ID and therefore the fingerprint;
// editing an item's text does not.
func Fingerprint(set *models.ContentSet, weekOffset int) string {
	var b strings.Builder
	for _, sec := range models.SectionOrder {
		for _, item := range set.Section(sec) {
			b.WriteString(item.Key())
			b.WriteByte('|')
		}
	}
	b.WriteString(strconv.Itoa(weekOffset))
	return b.String()
}

// Distribute builds a fresh schedule: all six sections flattened in
// canonical order, item at flat index i placed in weekday bucket i mod 5.
// Carousel entries summarize their first slide.
func Distribute(set *models.ContentSet, weekOffset int) *Schedule {
	s := &Schedule{
		SetID:       set.ID,
		WeekOffset:  weekOffset,
		Fingerprint: Fingerprint(set, weekOffset),
	}

	i := 0
	for _, sec := range models.SectionOrder {
		for idx := range set.Section(sec) {
			item := set.Section(sec)[idx]
			day := i % weekdayBuckets
			s.Days[day] = append(s.Days[day], models.NewCalendarItem(sec, &item))
			i++
		}
	}
	return s
}

// Move applies one drag-and-drop transaction: remove the item with the
// given ID from fromDay and append it to toDay. Moving within the same
// day is a no-op. A stale transfer, where the item is no longer present
// in fromDay, is silently dropped and the schedule is unchanged.
func (s *Schedule) Move(fromDay int, itemID string, toDay int) {
	if fromDay == toDay {
		return
	}
	if fromDay < 0 || fromDay >= DaysPerWeek || toDay < 0 || toDay >= DaysPerWeek {
		return
	}

	for i, item := range s.Days[fromDay] {
		if item.ID != itemID {
			continue
		}
		s.Days[fromDay] = append(s.Days[fromDay][:i], s.Days[fromDay][i+1:]...)
		s.Days[toDay] = append(s.Days[toDay], item)
		return
	}
}

// Find returns the day index and position of an item on the schedule,
// or (-1, -1) when it is not placed.
func (s *Schedule) Find(itemID string) (day, pos int) {
	for d := range s.Days {
		for p, item := range s.Days[d] {
			if item.ID == itemID {
				return d, p
			}
		}
	}
	return -1, -1
}

// ItemCount returns the number of items placed across all seven days.
func (s *Schedule) ItemCount() int {
	n := 0
	for d := range s.Days {
		n += len(s.Days[d])
	}
	return n
}

// WeekStart returns the anchor Monday (local midnight) for a week offset
// relative to now: offset 0 is the current week, +1 the next, -1 the
// previous.
func WeekStart(offset int) time.Time {
	return weekStartFrom(time.Now(), offset)
}

func weekStartFrom(now time.Time, offset int) time.Time {
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	wd := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return monday.AddDate(0, 0, -wd+offset*7)
}

// DayDate resolves a bucket index to its calendar date within a week.
func DayDate(weekStart time.Time, day int) time.Time {
	return weekStart.AddDate(0, 0, day)
}
