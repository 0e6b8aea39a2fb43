// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ics serializes a week's schedule into an iCalendar document
// (RFC 5545 subset): one VEVENT per scheduled item, free text escaped
// and physical lines folded at 75 octets.
package ics

import (
	"strings"
	"time"

	"brandforge/internal/schedule"
)

const (
	// maxLineOctets is the RFC 5545 physical line limit before folding.
	maxLineOctets = 75

	// dayStartHour is the wall-clock hour of a day's first event.
	dayStartHour = 9

	// eventDuration is the slot length, and also the stagger between
	// consecutive events on the same day.
	eventDuration = 30 * time.Minute
)

// Event is one calendar entry ready for serialization.
type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
}

// FromSchedule projects a week of buckets into events. Each item starts
// at 09:00 local plus 30 minutes per position within its day. An explicit
// posting date in dates overrides the bucket's computed day; the slot
// time within the day is kept.
func FromSchedule(s *schedule.Schedule, weekStart time.Time, dates map[string]time.Time) []Event {
	var events []Event
	for day := 0; day < schedule.DaysPerWeek; day++ {
		date := schedule.DayDate(weekStart, day)
		for pos, item := range s.Days[day] {
			d := date
			if explicit, ok := dates[item.ID]; ok {
				d = explicit
			}
			start := time.Date(d.Year(), d.Month(), d.Day(),
				dayStartHour, 0, 0, 0, d.Location()).
				Add(time.Duration(pos) * eventDuration)

			events = append(events, Event{
				UID:         item.ID,
				Summary:     item.Title,
				Description: item.FullText,
				Start:       start,
			})
		}
	}
	return events
}

// Encode renders the events as a complete VCALENDAR document.
func Encode(events []Event, now time.Time) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//brandforge//content calendar//EN")

	stamp := formatLocal(now)
	for _, ev := range events {
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+ev.UID)
		writeLine(&b, "DTSTAMP:"+stamp)
		writeLine(&b, "DTSTART:"+formatLocal(ev.Start))
		writeLine(&b, "DTEND:"+formatLocal(ev.Start.Add(eventDuration)))
		writeLine(&b, "SUMMARY:"+Escape(ev.Summary))
		writeLine(&b, "DESCRIPTION:"+Escape(ev.Description))
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// Escape backslash-escapes the characters RFC 5545 reserves in free text:
// backslash, semicolon, comma, and newline.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// Bare CR is dropped; CRLF collapses into the escaped newline.
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fold splits a content line into physical lines of at most 75 octets,
// continuation lines beginning with a single space. Multi-byte runes are
// never split.
func Fold(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}

	var b strings.Builder
	budget := maxLineOctets
	count := 0
	for _, r := range line {
		size := len(string(r))
		if count+size > budget {
			b.WriteString("\r\n ")
			count = 0
			budget = maxLineOctets - 1 // continuation lines lose one octet to the space
		}
		b.WriteRune(r)
		count += size
	}
	return b.String()
}

// formatLocal renders a time in the floating local form YYYYMMDDTHHMMSS.
func formatLocal(t time.Time) string {
	return t.Format("20060102T150405")
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(Fold(line))
	b.WriteString("\r\n")
}
