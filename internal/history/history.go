// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package history tracks bounded, per-section undo/redo stacks over content
// edits. It is a command-style service: it never mutates content itself, it
// hands snapshots back to the caller, who installs them as the live state
// and refreshes whatever view depends on them.
package history

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"brandforge/internal/models"
)

// Depth caps each undo and redo stack. The oldest snapshot is evicted first
// when a stack would grow past it.
const Depth = 20

// sectionStacks holds one undo/redo pair. Snapshots are deep copies of a
// section's full item sequence.
type sectionStacks struct {
	undo [][]models.Item
	redo [][]models.Item
}

// Manager owns the undo/redo stacks for all six sections of one content set
// plus the debounce tracking for free-text field edits. Safe for concurrent
// use, though callers normally serialize through the owning workspace.
type Manager struct {
	mu       sync.Mutex
	sections map[models.Section]*sectionStacks
	touched  map[string]struct{} // field-edit debounce keys for the open session
}

// New creates an empty history manager.
func New() *Manager {
	return &Manager{
		sections: make(map[models.Section]*sectionStacks),
		touched:  make(map[string]struct{}),
	}
}

func (m *Manager) stacks(sec models.Section) *sectionStacks {
	s, ok := m.sections[sec]
	if !ok {
		s = &sectionStacks{}
		m.sections[sec] = s
	}
	return s
}

// push appends a snapshot, evicting the oldest entry past Depth.
func push(stack [][]models.Item, snap []models.Item) [][]models.Item {
	stack = append(stack, snap)
	if len(stack) > Depth {
		stack = stack[1:]
	}
	return stack
}

// Push records a pre-mutation snapshot of a section. The snapshot is deep
// copied, so the caller may mutate the live slice immediately after. Any
// push clears the section's redo stack.
func (m *Manager) Push(sec models.Section, live []models.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stacks(sec)
	s.undo = push(s.undo, models.CloneItems(live))
	s.redo = nil
}

// PushFieldEdit records a snapshot for a free-text field edit, debounced so
// only the first touch of a given (item, field) pair within an editing
// session pushes. Later keystrokes on the same field fall through, leaving
// undo pointed at the state from before the session began.
func (m *Manager) PushFieldEdit(sec models.Section, itemID uuid.UUID, field string, live []models.Item) {
	key := fmt.Sprintf("%s|%s|%s", sec, itemID, field)

	m.mu.Lock()
	if _, seen := m.touched[key]; seen {
		m.mu.Unlock()
		return
	}
	m.touched[key] = struct{}{}
	m.mu.Unlock()

	m.Push(sec, live)
}

// ResetSession forgets all field-edit debounce tracking. Called when the
// item open for editing changes.
func (m *Manager) ResetSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = make(map[string]struct{})
}

// Undo pops the latest snapshot for a section, pushing the current live
// state onto the redo stack. Returns the restored sequence and true, or
// (nil, false) when there is nothing to undo.
func (m *Manager) Undo(sec models.Section, live []models.Item) ([]models.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stacks(sec)
	if len(s.undo) == 0 {
		return nil, false
	}

	snap := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = push(s.redo, models.CloneItems(live))
	return snap, true
}

// Redo is the symmetric inverse of Undo.
func (m *Manager) Redo(sec models.Section, live []models.Item) ([]models.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stacks(sec)
	if len(s.redo) == 0 {
		return nil, false
	}

	snap := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = push(s.undo, models.CloneItems(live))
	return snap, true
}

// Depths reports the current undo and redo stack sizes for a section,
// letting the API expose whether undo/redo are available.
func (m *Manager) Depths(sec models.Section) (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stacks(sec)
	return len(s.undo), len(s.redo)
}
