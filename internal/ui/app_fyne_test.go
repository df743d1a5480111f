//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"

	"tgmenued/internal/graph"
)

func newTestCanvas() (*GraphCanvas, *graph.Store) {
	s := graph.NewStore(graph.Config{EnableDocuments: true})
	return NewGraphCanvas(s), s
}

func TestGraphCanvas_Defaults(t *testing.T) {
	gc, s := newTestCanvas()
	if _, zoom := s.View(); zoom != 1 {
		t.Fatalf("expected default zoom 1, got %v", zoom)
	}
	sz := gc.PreferredSize()
	if sz.Width != 800 || sz.Height != 600 {
		t.Fatalf("unexpected PreferredSize: %v", sz)
	}
}

func TestGraphCanvas_CoordinateRoundTrip(t *testing.T) {
	gc, s := newTestCanvas()
	s.SetView(graph.Point{X: 50, Y: 20}, 2)
	world := graph.Point{X: 150, Y: 120}
	screen := gc.toScreen(world)
	if screen.X != 200 || screen.Y != 200 {
		t.Fatalf("toScreen = %v, want (200,200)", screen)
	}
	back := gc.toWorld(screen)
	if back.X != world.X || back.Y != world.Y {
		t.Fatalf("toWorld(toScreen(p)) = %+v, want %+v", back, world)
	}
}

func TestGraphCanvas_HitTestAndTapSelects(t *testing.T) {
	gc, s := newTestCanvas()
	id := s.AddMenuItem(graph.Point{X: 100, Y: 100}, "Target")

	if hit, ok := gc.hitTest(graph.Point{X: 110, Y: 110}); !ok || hit != id {
		t.Fatalf("hitTest inside node = (%v,%v), want (%v,true)", hit, ok, id)
	}
	if _, ok := gc.hitTest(graph.Point{X: 5, Y: 5}); ok {
		t.Fatalf("hitTest outside node should miss")
	}

	gc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(110, 110)})
	if active, ok := s.Active(); !ok || active != id {
		t.Fatalf("tap did not select node %v", id)
	}
}

func TestGraphCanvas_DragMovesNodeAsOneHistoryStep(t *testing.T) {
	gc, s := newTestCanvas()
	id := s.AddMenuItem(graph.Point{X: 100, Y: 100}, "Drag Me")

	gc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(110, 110)}})
	gc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(150, 140)}})
	gc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(180, 160)}})
	gc.DragEnd()

	n, _ := s.Node(id)
	if n.Position.X != 170 || n.Position.Y != 150 {
		t.Fatalf("node at (%v,%v), want (170,150)", n.Position.X, n.Position.Y)
	}

	if !s.Undo() {
		t.Fatalf("expected undo after drag")
	}
	n, _ = s.Node(id)
	if n.Position.X != 100 || n.Position.Y != 100 {
		t.Fatalf("undo did not revert whole drag, node at (%v,%v)", n.Position.X, n.Position.Y)
	}
}

func TestGraphCanvas_ScrollClampsZoom(t *testing.T) {
	gc, s := newTestCanvas()
	for i := 0; i < 50; i++ {
		gc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 1}})
	}
	if _, zoom := s.View(); zoom > 4 {
		t.Fatalf("zoom %v exceeds clamp", zoom)
	}
	for i := 0; i < 100; i++ {
		gc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -1}})
	}
	if _, zoom := s.View(); zoom < 0.2 {
		t.Fatalf("zoom %v below clamp", zoom)
	}
}
