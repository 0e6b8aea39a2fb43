// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ingest assembles streamed generation responses into structured
// content. Chunks are accumulated into a single buffer while the stream is
// live; validation happens exactly once, on the completed buffer. No
// partial-JSON repair is attempted.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"brandforge/internal/models"
)

// TransportError reports a failed read of the generation stream. The buffer
// collected so far is discarded; no content state has been touched.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ingest: stream read failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports an assembled body that is not valid for the expected
// shape. Distinct from TransportError so callers can surface it separately.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ingest: response not parseable: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// readChunkSize is the buffer size of the chunk-read loop. Small enough to
// surface streaming progress, large enough to not matter for throughput.
const readChunkSize = 4 * 1024

// Collect reads r until EOF, concatenating all chunks into one string.
// onChunk, when non-nil, is invoked with each raw chunk as it arrives so a
// caller can show streaming progress. A read failure returns a
// *TransportError wrapping the underlying error.
func Collect(r io.Reader, onChunk func(chunk string)) (string, error) {
	var sb strings.Builder
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			sb.WriteString(chunk)
			if onChunk != nil {
				onChunk(chunk)
			}
		}
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", &TransportError{Err: err}
		}
	}
}

// StripFences removes one surrounding markdown code fence (``` with an
// optional language tag) plus surrounding whitespace. Bodies without fences
// pass through trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line, including any "json"/"html" tag.
	if i := strings.Index(s, "\n"); i != -1 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	// Drop the closing fence.
	if i := strings.LastIndex(s, "```"); i != -1 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ParseSet parses a completed stream body into a full six-section content
// payload and assigns IDs to every item. Returns a *ParseError when the
// body does not decode.
func ParseSet(body string) (*models.ContentSet, error) {
	body = StripFences(body)

	var set models.ContentSet
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(&set); err != nil {
		return nil, &ParseError{Err: err}
	}

	set.AssignIDs()
	return &set, nil
}

// ParseItem parses a completed stream body into a single content item and
// assigns it an ID. Returns a *ParseError when the body does not decode.
func ParseItem(body string) (*models.Item, error) {
	body = StripFences(body)

	var item models.Item
	if err := json.Unmarshal([]byte(body), &item); err != nil {
		return nil, &ParseError{Err: err}
	}

	item.ID = uuid.New()
	return &item, nil
}

// CollectSet drains the stream and parses the result as a full payload.
func CollectSet(r io.Reader, onChunk func(string)) (*models.ContentSet, error) {
	body, err := Collect(r, onChunk)
	if err != nil {
		return nil, err
	}
	return ParseSet(body)
}

// CollectItem drains the stream and parses the result as a single item.
func CollectItem(r io.Reader, onChunk func(string)) (*models.Item, error) {
	body, err := Collect(r, onChunk)
	if err != nil {
		return nil, err
	}
	return ParseItem(body)
}
