// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ingest

import (
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
)

// chunkedReader yields its parts one Read at a time, simulating a streamed
// response arriving in multiple network chunks.
type chunkedReader struct {
	parts []string
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.parts) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.parts[0])
	c.parts[0] = c.parts[0][n:]
	if c.parts[0] == "" {
		c.parts = c.parts[1:]
	}
	return n, nil
}

// failingReader errors mid-stream after yielding one chunk.
type failingReader struct {
	sent bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.sent {
		f.sent = true
		n := copy(p, `{"partial":`)
		return n, nil
	}
	return 0, errors.New("connection reset")
}

func TestCollectConcatenatesChunks(t *testing.T) {
	r := &chunkedReader{parts: []string{"hello ", "streamed ", "world"}}

	var seen []string
	got, err := Collect(r, func(chunk string) { seen = append(seen, chunk) })
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if got != "hello streamed world" {
		t.Errorf("Collect = %q", got)
	}
	if len(seen) != 3 {
		t.Errorf("onChunk called %d times, want 3", len(seen))
	}
}

func TestCollectTransportError(t *testing.T) {
	_, err := Collect(&failingReader{}, nil)
	if err == nil {
		t.Fatal("Collect did not report the read failure")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error is %T, want *TransportError", err)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"plain text", "hello", "hello"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripFences(tc.in); got != tc.want {
				t.Errorf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFencedBodyParsesLikeBareBody(t *testing.T) {
	fenced := "```json\n{\"posts\":[{\"title\":\"A\"}]}\n```"
	bare := `{"posts":[{"title":"A"}]}`

	a, err := ParseSet(fenced)
	if err != nil {
		t.Fatalf("ParseSet(fenced) failed: %v", err)
	}
	b, err := ParseSet(bare)
	if err != nil {
		t.Fatalf("ParseSet(bare) failed: %v", err)
	}

	if len(a.Posts) != 1 || len(b.Posts) != 1 || a.Posts[0].Title != b.Posts[0].Title {
		t.Error("fenced and bare bodies parsed differently")
	}
}

func TestParseSetAssignsIDs(t *testing.T) {
	set, err := ParseSet(`{"posts":[{"title":"A"}],"quotes":[{"body":"Q"}]}`)
	if err != nil {
		t.Fatalf("ParseSet failed: %v", err)
	}
	if set.Posts[0].ID == uuid.Nil || set.Quotes[0].ID == uuid.Nil {
		t.Error("parsed items missing generated IDs")
	}
}

func TestParseSetRejectsGarbage(t *testing.T) {
	_, err := ParseSet("The model apologizes and refuses to answer.")
	if err == nil {
		t.Fatal("ParseSet accepted non-JSON body")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error is %T, want *ParseError", err)
	}
}

func TestParseItem(t *testing.T) {
	it, err := ParseItem("```json\n{\"title\":\"New post\",\"caption\":\"cap\",\"image_prompt\":\"p\"}\n```")
	if err != nil {
		t.Fatalf("ParseItem failed: %v", err)
	}
	if it.Title != "New post" || it.Caption != "cap" {
		t.Errorf("unexpected item: %+v", it)
	}
	if it.ID == uuid.Nil {
		t.Error("parsed item missing generated ID")
	}
}

func TestCollectItemEndToEnd(t *testing.T) {
	body := "```json\n{\"title\":\"Streamed\"}\n```"
	r := &chunkedReader{parts: []string{body[:7], body[7:]}}

	it, err := CollectItem(r, nil)
	if err != nil {
		t.Fatalf("CollectItem failed: %v", err)
	}
	if it.Title != "Streamed" {
		t.Errorf("title = %q", it.Title)
	}
}
