/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package graph

// Port ids shared by the catalog and by everything that walks the graph.
const (
	PortParentMenu = "parent_menu"
	PortSubMenu    = "sub_menu"
	PortDocuments  = "documents"
)

// Node header height and per-port row spacing, in canvas units. Renderers
// and the model agree on these so hit testing and drawing line up.
const (
	portHeaderOffset = 45.0
	portRowSpacing   = 25.0
)

// newMenuItemNode builds a menu item node: one parent slot in, submenu
// and document slots out, plus the fields the bot menu entry carries.
func newMenuItemNode(id NodeID, pos Point, title string) Node {
	return Node{
		ID:       id,
		Title:    title,
		Type:     NodeMenuItem,
		Position: pos,
		Size:     Size{W: 180, H: 170},
		Inputs: []Port{
			{ID: PortParentMenu, Label: "Parent Menu", Type: PortObject},
		},
		Outputs: []Port{
			{ID: PortSubMenu, Label: "Sub Menu", Type: PortObject},
			{ID: PortDocuments, Label: "Documents", Type: PortObject},
		},
		Params: []Parameter{
			{ID: "name", Label: "Name", Value: TextValue(title)},
			{ID: "callback_data", Label: "Callback Data", Value: TextValue("")},
			{ID: "description", Label: "Description", Value: TextValue("")},
			{ID: "url", Label: "URL", Value: TextValue("")},
			{ID: "text_content", Label: "Text Content", Value: TextValue("")},
		},
	}
}

// newFaqItemNode builds a FAQ entry node. FAQ entries live outside the
// menu tree, so the node has no ports at all.
func newFaqItemNode(id NodeID, pos Point, title string) Node {
	return Node{
		ID:       id,
		Title:    title,
		Type:     NodeFaqItem,
		Position: pos,
		Size:     Size{W: 180, H: 120},
		Params: []Parameter{
			{ID: "question", Label: "Question", Value: TextValue(title)},
			{ID: "answer", Label: "Answer", Value: TextValue("")},
			{ID: "tags", Label: "Tags", Value: TextValue("")},
		},
	}
}

// newDocumentNode builds a document attachment node.
func newDocumentNode(id NodeID, pos Point, title string) Node {
	return Node{
		ID:       id,
		Title:    title,
		Type:     NodeDocument,
		Position: pos,
		Size:     Size{W: 180, H: 120},
		Inputs: []Port{
			{ID: PortParentMenu, Label: "Parent Menu", Type: PortObject},
		},
		Params: []Parameter{
			{ID: "text", Label: "Text", Value: TextValue(title)},
			{ID: "callback_data", Label: "Callback Data", Value: TextValue("")},
			{ID: "url", Label: "URL", Value: TextValue("")},
		},
	}
}

// PortPosition reports where a port sits on the canvas: inputs on the
// left edge, outputs on the right, rows stacked under the node header.
// The second return is false when the node or port does not exist.
func (s *Store) PortPosition(id NodeID, portID string, isInput bool) (Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.findLocked(id)
	if n == nil {
		return Point{}, false
	}
	ports := n.Outputs
	x := n.Position.X + n.Size.W
	if isInput {
		ports = n.Inputs
		x = n.Position.X
	}
	for i := range ports {
		if ports[i].ID == portID {
			return Point{X: x, Y: n.Position.Y + portHeaderOffset + float64(i)*portRowSpacing}, true
		}
	}
	return Point{}, false
}
