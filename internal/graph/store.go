/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package graph

import (
	"errors"
	"sync"
)

// ErrDocumentsDisabled is returned by AddDocument when the store was
// created without document support.
var ErrDocumentsDisabled = errors.New("graph: document nodes are not enabled")

// noActive marks "no node selected". Real ids start at 0.
const noActive NodeID = -1

// Config tunes a Store.
type Config struct {
	// HistoryLimit caps the undo stack; 0 means DefaultHistoryLimit.
	HistoryLimit int
	// EnableDocuments turns on the document node type.
	EnableDocuments bool
}

// Store owns the live graph and its history. One editor loop drives it;
// the mutex exists so exporters and autosave can read concurrently.
// Every mutating operation records a history snapshot after applying,
// so Undo steps back exactly one operation at a time.
type Store struct {
	mu        sync.Mutex
	nodes     []Node
	conns     []Connection
	active    NodeID
	pan       Point
	zoom      float64
	hist      *History
	documents bool
}

// NewStore returns an empty store whose history floor is the empty graph.
func NewStore(cfg Config) *Store {
	s := &Store{
		active:    noActive,
		zoom:      1,
		hist:      NewHistory(cfg.HistoryLimit),
		documents: cfg.EnableDocuments,
	}
	s.hist.Init(s.snapshotLocked())
	return s
}

// DocumentsEnabled reports whether document nodes may be created.
func (s *Store) DocumentsEnabled() bool { return s.documents }

func (s *Store) findLocked(id NodeID) *Node {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return &s.nodes[i]
		}
	}
	return nil
}

// nextIDLocked hands out ids that are never reused: one past the largest
// id ever still present. Deleting the newest node and adding another
// reuses its slot in the id space, which is fine; references to deleted
// nodes are already gone by then.
func (s *Store) nextIDLocked() NodeID {
	next := NodeID(0)
	for i := range s.nodes {
		if s.nodes[i].ID >= next {
			next = s.nodes[i].ID + 1
		}
	}
	return next
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Nodes:       make([]Node, len(s.nodes)),
		Connections: append([]Connection(nil), s.conns...),
		Active:      s.active,
		Pan:         s.pan,
		Zoom:        s.zoom,
	}
	for i, n := range s.nodes {
		snap.Nodes[i] = n.Clone()
	}
	return snap
}

func (s *Store) restoreLocked(snap Snapshot) {
	c := snap.Clone()
	s.nodes = c.Nodes
	s.conns = c.Connections
	s.active = c.Active
	s.pan = c.Pan
	s.zoom = c.Zoom
}

func (s *Store) commitLocked() {
	s.hist.Commit(s.snapshotLocked())
}

// AddMenuItem creates a menu item node at pos and returns its id.
func (s *Store) AddMenuItem(pos Point, title string) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextIDLocked()
	s.nodes = append(s.nodes, newMenuItemNode(id, pos, title))
	s.commitLocked()
	return id
}

// AddFaqItem creates a FAQ node at pos and returns its id.
func (s *Store) AddFaqItem(pos Point, title string) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextIDLocked()
	s.nodes = append(s.nodes, newFaqItemNode(id, pos, title))
	s.commitLocked()
	return id
}

// AddDocument creates a document node at pos. It fails with
// ErrDocumentsDisabled when the store was built without document support.
func (s *Store) AddDocument(pos Point, title string) (NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.documents {
		return 0, ErrDocumentsDisabled
	}
	id := s.nextIDLocked()
	s.nodes = append(s.nodes, newDocumentNode(id, pos, title))
	s.commitLocked()
	return id, nil
}

// AddNodeCopy inserts a deep copy of n under a fresh id at pos. This is
// what paste uses; the source node may come from another store or from
// a clipboard that outlived its origin.
func (s *Store) AddNodeCopy(n Node, pos Point) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := n.Clone()
	c.ID = s.nextIDLocked()
	c.Position = pos
	s.nodes = append(s.nodes, c)
	s.commitLocked()
	return c.ID
}

// Connect wires fromPort on fromNode to toPort on toNode. It reports
// false without touching the graph when the connection is invalid:
// self loop, missing node, fromPort is not an output, toPort is not an
// input, port types differ, or the identical connection already exists.
func (s *Store) Connect(fromNode NodeID, fromPort string, toNode NodeID, toPort string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fromNode == toNode {
		return false
	}
	from := s.findLocked(fromNode)
	to := s.findLocked(toNode)
	if from == nil || to == nil {
		return false
	}
	out := from.Output(fromPort)
	in := to.Input(toPort)
	if out == nil || in == nil || out.Type != in.Type {
		return false
	}
	c := Connection{FromNode: fromNode, FromPort: fromPort, ToNode: toNode, ToPort: toPort}
	for _, existing := range s.conns {
		if existing == c {
			return false
		}
	}
	s.conns = append(s.conns, c)
	s.commitLocked()
	return true
}

// Disconnect removes the matching connection. A snapshot is committed
// even when nothing matched, mirroring how the editor always treats the
// gesture as an edit.
func (s *Store) Disconnect(fromNode NodeID, fromPort string, toNode NodeID, toPort string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Connection{FromNode: fromNode, FromPort: fromPort, ToNode: toNode, ToPort: toPort}
	kept := s.conns[:0]
	for _, existing := range s.conns {
		if existing != c {
			kept = append(kept, existing)
		}
	}
	s.conns = kept
	s.commitLocked()
}

// DeleteNode removes the node and every connection touching it. The
// active selection is cleared when it pointed at the deleted node.
// Deleting a missing id is a no-op.
func (s *Store) DeleteNode(id NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(id) == nil {
		return
	}
	keptNodes := s.nodes[:0]
	for _, n := range s.nodes {
		if n.ID != id {
			keptNodes = append(keptNodes, n)
		}
	}
	s.nodes = keptNodes
	keptConns := s.conns[:0]
	for _, c := range s.conns {
		if c.FromNode != id && c.ToNode != id {
			keptConns = append(keptConns, c)
		}
	}
	s.conns = keptConns
	if s.active == id {
		s.active = noActive
	}
	s.commitLocked()
}

// Node returns a deep copy of the node with the given id.
func (s *Store) Node(id NodeID) (Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.findLocked(id); n != nil {
		return n.Clone(), true
	}
	return Node{}, false
}

// Nodes returns deep copies of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Connections returns a copy of all connections in insertion order.
func (s *Store) Connections() []Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Connection(nil), s.conns...)
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// ConnectionCount returns the number of connections.
func (s *Store) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// SetNodeTitle renames a node and commits; false when the id is unknown.
func (s *Store) SetNodeTitle(id NodeID, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.findLocked(id)
	if n == nil {
		return false
	}
	n.Title = title
	s.commitLocked()
	return true
}

// SetParamText applies text input to a node parameter (see
// Parameter.SetText for the interpretation rules) and commits. It
// reports false when node or parameter does not exist.
func (s *Store) SetParamText(id NodeID, paramID, input string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.findLocked(id)
	if n == nil {
		return false
	}
	p := n.Param(paramID)
	if p == nil {
		return false
	}
	p.SetText(input)
	s.commitLocked()
	return true
}

// setParamValueLocked installs a value directly, bypassing text
// interpretation. Import uses it to attach raw payload parameters.
func (s *Store) setParamValueLocked(id NodeID, paramID, label string, v Value) bool {
	n := s.findLocked(id)
	if n == nil {
		return false
	}
	if p := n.Param(paramID); p != nil {
		p.Value = v.Clone()
	} else {
		n.Params = append(n.Params, Parameter{ID: paramID, Label: label, Value: v.Clone()})
	}
	s.commitLocked()
	return true
}

// SetParamValue installs a value on a parameter, creating the parameter
// when it does not exist yet.
func (s *Store) SetParamValue(id NodeID, paramID, label string, v Value) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setParamValueLocked(id, paramID, label, v)
}

// MoveNode shifts a node by delta. Callers wrap drags in a gesture so a
// whole drag is one history entry.
func (s *Store) MoveNode(id NodeID, delta Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.findLocked(id)
	if n == nil {
		return false
	}
	n.Position.X += delta.X
	n.Position.Y += delta.Y
	s.commitLocked()
	return true
}

// SetActive selects a node, or clears the selection for an unknown id.
// Selection changes are not history-worthy and do not commit.
func (s *Store) SetActive(id NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(id) == nil {
		s.active = noActive
		return
	}
	s.active = id
}

// Active returns the selected node id, false when nothing is selected.
func (s *Store) Active() (NodeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.active != noActive
}

// SetView updates pan and zoom without committing; view changes ride
// along in whatever snapshot the next edit records.
func (s *Store) SetView(pan Point, zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pan = pan
	if zoom > 0 {
		s.zoom = zoom
	}
}

// View returns the current pan and zoom.
func (s *Store) View() (Point, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pan, s.zoom
}

// BeginGesture commits the state once and then suppresses further
// commits, so a continuous manipulation (drag, slider scrub) lands on
// the undo stack as a single step. Every BeginGesture must be paired
// with EndGesture.
func (s *Store) BeginGesture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked()
	s.hist.Suspend()
}

// EndGesture re-enables history commits.
func (s *Store) EndGesture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.Resume()
}

// Undo steps back one committed state; false at the history floor.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.restoreLocked(snap)
	return true
}

// Redo reverses the most recent Undo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.restoreLocked(snap)
	return true
}

// CanUndo reports whether Undo would succeed.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether Redo would succeed.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}

// Snapshot returns a deep copy of the full editable state, for
// persistence and exporters.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Restore replaces the live state with snap and re-seeds history so
// the restored state becomes the new floor. Project open uses this.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(snap)
	s.hist.Init(s.snapshotLocked())
}

// RootMenuNodes returns, in insertion order, the ids of menu item nodes
// with no incoming parent connection. These are the top level menu
// entries of the exported document.
func (s *Store) RootMenuNodes() []NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []NodeID
	for _, n := range s.nodes {
		if n.Type != NodeMenuItem {
			continue
		}
		hasParent := false
		for _, c := range s.conns {
			if c.ToNode == n.ID && c.ToPort == PortParentMenu {
				hasParent = true
				break
			}
		}
		if !hasParent {
			out = append(out, n.ID)
		}
	}
	return out
}

// FaqNodes returns the ids of all FAQ nodes in insertion order.
func (s *Store) FaqNodes() []NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []NodeID
	for _, n := range s.nodes {
		if n.Type == NodeFaqItem {
			out = append(out, n.ID)
		}
	}
	return out
}

// ChildMenuNodes returns, in connection order, the menu item nodes
// hanging off the parent's sub menu output.
func (s *Store) ChildMenuNodes(parent NodeID) []NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []NodeID
	for _, c := range s.conns {
		if c.FromNode != parent || c.FromPort != PortSubMenu {
			continue
		}
		if n := s.findLocked(c.ToNode); n != nil && n.Type == NodeMenuItem {
			out = append(out, n.ID)
		}
	}
	return out
}

// DocumentsFor returns, in connection order, the nodes attached to the
// parent's documents output.
func (s *Store) DocumentsFor(parent NodeID) []NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []NodeID
	for _, c := range s.conns {
		if c.FromNode == parent && c.FromPort == PortDocuments {
			out = append(out, c.ToNode)
		}
	}
	return out
}
