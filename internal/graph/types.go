/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package graph holds the editable node graph behind the menu editor:
// typed nodes, typed ports, parameters, connections, and the snapshot
// based undo history. It is the model layer; nothing in here draws.
package graph

import (
	"strconv"
	"strings"
)

// NodeID identifies a node for its whole lifetime. IDs are assigned
// monotonically and never reused, so references held by the UI or by
// history snapshots stay unambiguous across deletions.
type NodeID int

// Point is a position on the editor canvas in logical units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a node extent in logical units.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// PortType is the wire type of a port. Connections require exact type
// equality on both ends.
type PortType string

const (
	PortString PortType = "string"
	PortNumber PortType = "number"
	PortObject PortType = "object"
	PortAction PortType = "action"
)

// Port is a named connection endpoint on a node.
type Port struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Type  PortType `json:"type"`
}

// ValueKind discriminates the payload stored in a parameter Value.
type ValueKind string

const (
	KindText    ValueKind = "text"
	KindNumber  ValueKind = "number"
	KindBoolean ValueKind = "boolean"
	KindSelect  ValueKind = "select"
)

// Value is the tagged union behind a parameter. Exactly the field
// matching Kind is meaningful; the rest stay zero.
type Value struct {
	Kind     ValueKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Number   float64   `json:"number,omitempty"`
	Bool     bool      `json:"bool,omitempty"`
	Selected string    `json:"selected,omitempty"`
	Options  []string  `json:"options,omitempty"`
}

// TextValue returns a text Value holding s.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// NumberValue returns a numeric Value holding f.
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// BoolValue returns a boolean Value holding b.
func BoolValue(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// SelectValue returns a select Value with the given choice and option set.
func SelectValue(selected string, options []string) Value {
	return Value{Kind: KindSelect, Selected: selected, Options: append([]string(nil), options...)}
}

// Clone deep-copies the value, including the options slice.
func (v Value) Clone() Value {
	c := v
	if v.Options != nil {
		c.Options = append([]string(nil), v.Options...)
	}
	return c
}

// String renders the value the way a single line editor would show it.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindSelect:
		return v.Selected
	default:
		return v.Text
	}
}

// Parameter is a node-local editable field.
type Parameter struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value Value  `json:"value"`
}

// SetText applies raw text input to the parameter, interpreting it
// against the current value kind. A numeric parameter parses the input
// as a float, a boolean parameter accepts only the literal tokens
// "true" and "false", and a select parameter accepts only one of its
// options. When the input does not fit, the parameter silently becomes
// a plain text parameter holding the raw input, so user typing is never
// lost to a failed parse.
func (p *Parameter) SetText(input string) {
	switch p.Value.Kind {
	case KindNumber:
		if f, err := strconv.ParseFloat(strings.TrimSpace(input), 64); err == nil {
			p.Value = NumberValue(f)
			return
		}
	case KindBoolean:
		switch input {
		case "true":
			p.Value = BoolValue(true)
			return
		case "false":
			p.Value = BoolValue(false)
			return
		}
	case KindSelect:
		for _, opt := range p.Value.Options {
			if input == opt {
				p.Value.Selected = input
				return
			}
		}
	}
	p.Value = TextValue(input)
}

// NodeType tags which catalog entry a node was created from.
type NodeType string

const (
	NodeMenuItem NodeType = "menu_item"
	NodeFaqItem  NodeType = "faq_item"
	NodeDocument NodeType = "document"
)

// Node is one box on the canvas.
type Node struct {
	ID       NodeID      `json:"id"`
	Title    string      `json:"title"`
	Type     NodeType    `json:"type"`
	Position Point       `json:"position"`
	Size     Size        `json:"size"`
	Inputs   []Port      `json:"inputs,omitempty"`
	Outputs  []Port      `json:"outputs,omitempty"`
	Params   []Parameter `json:"params,omitempty"`
}

// Clone deep-copies the node.
func (n Node) Clone() Node {
	c := n
	c.Inputs = append([]Port(nil), n.Inputs...)
	c.Outputs = append([]Port(nil), n.Outputs...)
	if n.Params != nil {
		c.Params = make([]Parameter, len(n.Params))
		for i, p := range n.Params {
			p.Value = p.Value.Clone()
			c.Params[i] = p
		}
	}
	return c
}

// Param returns the parameter with the given id, or nil.
func (n *Node) Param(id string) *Parameter {
	for i := range n.Params {
		if n.Params[i].ID == id {
			return &n.Params[i]
		}
	}
	return nil
}

// ParamText returns the rendered text of a parameter, "" when absent.
func (n *Node) ParamText(id string) string {
	if p := n.Param(id); p != nil {
		return p.Value.String()
	}
	return ""
}

// Input returns the input port with the given id, or nil.
func (n *Node) Input(id string) *Port {
	for i := range n.Inputs {
		if n.Inputs[i].ID == id {
			return &n.Inputs[i]
		}
	}
	return nil
}

// Output returns the output port with the given id, or nil.
func (n *Node) Output(id string) *Port {
	for i := range n.Outputs {
		if n.Outputs[i].ID == id {
			return &n.Outputs[i]
		}
	}
	return nil
}

// Connection links an output port to an input port. Two connections are
// the same connection iff all four fields match.
type Connection struct {
	FromNode NodeID `json:"from_node"`
	FromPort string `json:"from_port"`
	ToNode   NodeID `json:"to_node"`
	ToPort   string `json:"to_port"`
}
