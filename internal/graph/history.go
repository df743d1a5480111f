/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package graph

// Snapshot is a full deep copy of the editable state. History keeps a
// bounded stack of these; restoring one replaces the live state wholesale.
type Snapshot struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	Active      NodeID       `json:"active"`
	Pan         Point        `json:"pan"`
	Zoom        float64      `json:"zoom"`
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Nodes = make([]Node, len(s.Nodes))
	for i, n := range s.Nodes {
		c.Nodes[i] = n.Clone()
	}
	c.Connections = append([]Connection(nil), s.Connections...)
	return c
}

// DefaultHistoryLimit caps the undo stack when the caller does not choose.
const DefaultHistoryLimit = 30

// History is a bounded linear undo/redo stack. The first snapshot pushed
// via Init is the floor: it is never evicted and never popped, so the
// editor can always get back to the state it opened with. Commits while
// the guard is suspended are dropped, which keeps snapshot restoration
// and continuous gestures from flooding the stack.
//
// History is not safe for concurrent use; Store serializes access.
type History struct {
	undo      []Snapshot
	redo      []Snapshot
	limit     int
	suspended bool
}

// NewHistory returns a History bounded to limit snapshots. Limits below 2
// fall back to DefaultHistoryLimit, since a usable stack needs at least
// the floor plus one committed state.
func NewHistory(limit int) *History {
	if limit < 2 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Init seeds the stack with the opening state and clears everything else.
func (h *History) Init(s Snapshot) {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
	h.undo = append(h.undo, s.Clone())
	h.suspended = false
}

// Commit records a new current state. The redo stack is invalidated: a
// fresh edit forks history and the abandoned branch is gone. When the
// stack is full, the oldest snapshot is evicted from the front, the
// original floor included; the next-oldest entry becomes the new floor.
func (h *History) Commit(s Snapshot) {
	if h.suspended {
		return
	}
	h.redo = h.redo[:0]
	h.undo = append(h.undo, s.Clone())
	if len(h.undo) > h.limit {
		over := len(h.undo) - h.limit
		h.undo = append(h.undo[:0], h.undo[over:]...)
	}
}

// Undo moves the current state onto the redo stack and returns a copy of
// the state underneath it. It reports false at the floor.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)
	return h.undo[len(h.undo)-1].Clone(), true
}

// Redo reverses the most recent Undo.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, top)
	return top.Clone(), true
}

// CanUndo reports whether any state above the floor exists.
func (h *History) CanUndo() bool { return len(h.undo) > 1 }

// CanRedo reports whether an undone state is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Suspend drops all Commits until Resume. Nested use is not supported.
func (h *History) Suspend() { h.suspended = true }

// Resume re-enables Commit.
func (h *History) Resume() { h.suspended = false }

// Depth returns the number of stored undo snapshots including the floor.
func (h *History) Depth() int { return len(h.undo) }
