// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content owns the six ordered item sequences of a content set and
// the operations that add, regenerate, edit, and remove items. Every
// structural mutation pushes a pre-mutation section snapshot to the history
// manager before applying, so undo always restores a consistent state.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/history"
	"brandforge/internal/ingest"
	"brandforge/internal/models"
)

// FreshWindow is how long a just-generated item keeps its highlight.
const FreshWindow = 5 * time.Second

var (
	// ErrLastItem guards against emptying a section.
	ErrLastItem = errors.New("content: cannot remove the last item in a section")

	// ErrItemNotFound reports an unknown item ID within a section.
	ErrItemNotFound = errors.New("content: item not found")

	// ErrUnknownField reports a field name no item shape carries.
	ErrUnknownField = errors.New("content: unknown field")
)

// SetRequest describes a full-batch generation call.
type SetRequest struct {
	Theme    string `json:"theme"`
	Tone     string `json:"tone"`
	Language string `json:"language"`
	Counts   Counts `json:"counts"`
}

// ItemRequest describes a single-item generation call. Current is nil for
// "add" and carries the existing item for "regenerate".
type ItemRequest struct {
	Theme    string
	Tone     string
	Language string
	Section  models.Section
	Current  *models.Item
}

// Generator produces live generation streams. The production implementation
// wraps the AI provider registry; tests substitute canned readers.
type Generator interface {
	StreamSet(ctx context.Context, req SetRequest) (io.ReadCloser, error)
	StreamItem(ctx context.Context, req ItemRequest) (io.ReadCloser, error)
}

// Workspace is the in-memory editing state for one content set: the live
// sections plus their undo/redo history. All mutations are serialized
// through one mutex, matching the strict per-section ordering the editing
// model requires. History is not persisted; it lives and dies with the
// workspace.
type Workspace struct {
	mu      sync.Mutex
	set     *models.ContentSet
	hist    *history.Manager
	gen     Generator
	editing uuid.UUID // item currently open for editing, bounds the debounce session
}

// NewWorkspace wraps an existing content set for editing.
func NewWorkspace(set *models.ContentSet, gen Generator) *Workspace {
	return &Workspace{set: set, hist: history.New(), gen: gen}
}

// Generate streams a full batch, parses it once on completion, and returns
// a fresh workspace around it. Nothing is created when the stream or the
// parse fails.
func Generate(ctx context.Context, gen Generator, req SetRequest, onChunk func(string)) (*Workspace, error) {
	if req.Counts == nil {
		req.Counts = DefaultCounts
	}

	stream, err := gen.StreamSet(ctx, req)
	if err != nil {
		return nil, &ingest.TransportError{Err: err}
	}
	defer stream.Close()

	set, err := ingest.CollectSet(stream, onChunk)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	set.ID = uuid.New()
	set.Theme = req.Theme
	set.Tone = req.Tone
	set.Language = req.Language
	set.CreatedAt = now
	set.UpdatedAt = now

	return NewWorkspace(set, gen), nil
}

// Snapshot returns a deep copy of the current set, safe to persist or
// serialize without holding the workspace lock.
func (w *Workspace) Snapshot() *models.ContentSet {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.set.Clone()
}

// ID returns the content set's ID.
func (w *Workspace) ID() uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.set.ID
}

// AddItem generates one new item for a section (no current-item context),
// appends it, and marks it fresh. The generation round trip happens before
// any state is touched, so a failure leaves the section unmodified.
func (w *Workspace) AddItem(ctx context.Context, sec models.Section) (models.Item, error) {
	req := w.itemRequest(sec, nil)

	item, err := w.generateItem(ctx, req)
	if err != nil {
		return models.Item{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	live := w.set.Section(sec)
	w.hist.Push(sec, live)

	item.FreshUntil = time.Now().Add(FreshWindow)
	w.set.SetSection(sec, append(live, item))
	w.touch()
	return item, nil
}

// RegenerateItem generates a replacement for an existing item, with the
// current item serialized into the request as context, and swaps it in at
// the same position. The new item keeps a new ID; assets tied to the old
// item become stale by design.
func (w *Workspace) RegenerateItem(ctx context.Context, sec models.Section, id uuid.UUID) (models.Item, error) {
	w.mu.Lock()
	_, cur := w.set.FindItem(sec, id)
	if cur == nil {
		w.mu.Unlock()
		return models.Item{}, ErrItemNotFound
	}
	curCopy := cur.Clone()
	req := w.itemRequestLocked(sec, &curCopy)
	w.mu.Unlock()

	item, err := w.generateItem(ctx, req)
	if err != nil {
		return models.Item{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Re-resolve: the item may have moved or vanished while we were
	// waiting on the model. A vanished item means the replace is dropped.
	idx, _ := w.set.FindItem(sec, id)
	if idx < 0 {
		return models.Item{}, ErrItemNotFound
	}

	live := w.set.Section(sec)
	w.hist.Push(sec, live)

	item.FreshUntil = time.Now().Add(FreshWindow)
	live[idx] = item
	w.touch()
	return item, nil
}

// RemoveItem deletes an item from a section. A section holding a single
// item rejects the removal; content never drops to an empty section.
func (w *Workspace) RemoveItem(sec models.Section, id uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	live := w.set.Section(sec)
	idx, _ := w.set.FindItem(sec, id)
	if idx < 0 {
		return ErrItemNotFound
	}
	if len(live) <= 1 {
		return ErrLastItem
	}

	w.hist.Push(sec, live)
	w.set.SetSection(sec, append(live[:idx:idx], live[idx+1:]...))
	w.touch()
	return nil
}

// EditField applies a free-text edit to one field of an item. The first
// edit of a field within an editing session pushes a history snapshot;
// subsequent keystrokes mutate in place. Switching to a different item
// starts a new session.
func (w *Workspace) EditField(sec models.Section, id uuid.UUID, field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, item := w.set.FindItem(sec, id)
	if item == nil {
		return ErrItemNotFound
	}

	// Validate against a copy first: a rejected edit must leave the item,
	// the history stacks, and the debounce session untouched.
	edited := item.Clone()
	if err := setField(&edited, field, value); err != nil {
		return err
	}

	if w.editing != id {
		w.editing = id
		w.hist.ResetSession()
	}

	w.hist.PushFieldEdit(sec, id, field, w.set.Section(sec))
	*item = edited
	w.touch()
	return nil
}

// Undo restores the previous snapshot of a section. Returns false when
// there is nothing to undo.
func (w *Workspace) Undo(sec models.Section) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, ok := w.hist.Undo(sec, w.set.Section(sec))
	if !ok {
		return false
	}
	w.set.SetSection(sec, snap)
	w.touch()
	return true
}

// Redo restores the most recently undone snapshot of a section.
func (w *Workspace) Redo(sec models.Section) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, ok := w.hist.Redo(sec, w.set.Section(sec))
	if !ok {
		return false
	}
	w.set.SetSection(sec, snap)
	w.touch()
	return true
}

// HistoryDepths reports undo/redo availability for a section.
func (w *Workspace) HistoryDepths(sec models.Section) (undo, redo int) {
	return w.hist.Depths(sec)
}

// touch bumps the set's modification time. Callers hold w.mu.
func (w *Workspace) touch() {
	w.set.UpdatedAt = time.Now()
}

func (w *Workspace) itemRequest(sec models.Section, cur *models.Item) ItemRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.itemRequestLocked(sec, cur)
}

func (w *Workspace) itemRequestLocked(sec models.Section, cur *models.Item) ItemRequest {
	return ItemRequest{
		Theme:    w.set.Theme,
		Tone:     w.set.Tone,
		Language: w.set.Language,
		Section:  sec,
		Current:  cur,
	}
}

// generateItem runs the stream-and-parse round trip for one item.
func (w *Workspace) generateItem(ctx context.Context, req ItemRequest) (models.Item, error) {
	stream, err := w.gen.StreamItem(ctx, req)
	if err != nil {
		return models.Item{}, &ingest.TransportError{Err: err}
	}
	defer stream.Close()

	item, err := ingest.CollectItem(stream, nil)
	if err != nil {
		return models.Item{}, err
	}
	return *item, nil
}

// setField writes a named free-text field on an item. Slide fields are
// addressed as "slides.N.heading", "slides.N.body", "slides.N.image_prompt".
func setField(item *models.Item, field, value string) error {
	switch field {
	case "title":
		item.Title = value
	case "caption":
		item.Caption = value
	case "body":
		item.Body = value
	case "hook":
		item.Hook = value
	case "script":
		item.Script = value
	case "author":
		item.Author = value
	case "image_prompt":
		item.ImagePrompt = value
	case "style_prompt":
		item.StylePrompt = value
	default:
		parts := strings.Split(field, ".")
		if len(parts) != 3 || parts[0] != "slides" {
			return fmt.Errorf("%w %q", ErrUnknownField, field)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 0 || n >= len(item.Slides) {
			return fmt.Errorf("%w: no slide %q", ErrUnknownField, parts[1])
		}
		switch parts[2] {
		case "heading":
			item.Slides[n].Heading = value
		case "body":
			item.Slides[n].Body = value
		case "image_prompt":
			item.Slides[n].ImagePrompt = value
		default:
			return fmt.Errorf("%w %q", ErrUnknownField, parts[2])
		}
	}
	return nil
}
