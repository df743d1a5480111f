//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"tgmenued/internal/graph"
)

var (
	nodeFill     = color.NRGBA{R: 0x2b, G: 0x2f, B: 0x3a, A: 0xff}
	nodeStroke   = color.NRGBA{R: 0x6c, G: 0x75, B: 0x86, A: 0xff}
	nodeSelected = color.NRGBA{R: 0xff, G: 0xb0, B: 0x3a, A: 0xff}
	wireColor    = color.NRGBA{R: 0x8a, G: 0xb4, B: 0xf8, A: 0xff}
	titleColor   = color.NRGBA{R: 0xe8, G: 0xea, B: 0xed, A: 0xff}
)

// GraphCanvas renders the node graph and handles selection, dragging
// and zoom. All edits go through the Store so they land in history.
type GraphCanvas struct {
	widget.BaseWidget

	store *graph.Store

	OnSelect func(graph.NodeID)
	OnChange func()

	dragging bool
	dragNode graph.NodeID
	lastDrag fyne.Position
	panDrag  bool
	panLast  fyne.Position
}

func NewGraphCanvas(s *graph.Store) *GraphCanvas {
	g := &GraphCanvas{store: s}
	g.ExtendBaseWidget(g)
	return g
}

func (g *GraphCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func (g *GraphCanvas) MinSize() fyne.Size { return fyne.NewSize(400, 300) }

func (g *GraphCanvas) toScreen(p graph.Point) fyne.Position {
	pan, zoom := g.store.View()
	return fyne.NewPos(float32((p.X-pan.X)*zoom), float32((p.Y-pan.Y)*zoom))
}

func (g *GraphCanvas) toWorld(pos fyne.Position) graph.Point {
	pan, zoom := g.store.View()
	if zoom == 0 {
		zoom = 1
	}
	return graph.Point{X: float64(pos.X)/zoom + pan.X, Y: float64(pos.Y)/zoom + pan.Y}
}

// hitTest returns the topmost node under the world point.
func (g *GraphCanvas) hitTest(pt graph.Point) (graph.NodeID, bool) {
	nodes := g.store.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if pt.X >= n.Position.X && pt.X <= n.Position.X+n.Size.W &&
			pt.Y >= n.Position.Y && pt.Y <= n.Position.Y+n.Size.H {
			return n.ID, true
		}
	}
	return 0, false
}

func (g *GraphCanvas) Tapped(e *fyne.PointEvent) {
	if id, ok := g.hitTest(g.toWorld(e.Position)); ok {
		g.store.SetActive(id)
		if g.OnSelect != nil {
			g.OnSelect(id)
		}
	}
	g.Refresh()
}

func (g *GraphCanvas) Dragged(e *fyne.DragEvent) {
	_, zoom := g.store.View()
	if zoom == 0 {
		zoom = 1
	}
	if !g.dragging && !g.panDrag {
		if id, ok := g.hitTest(g.toWorld(e.Position)); ok {
			g.dragging = true
			g.dragNode = id
			g.lastDrag = e.Position
			g.store.SetActive(id)
			g.store.BeginGesture()
		} else {
			g.panDrag = true
			g.panLast = e.Position
		}
	}
	if g.dragging {
		dx := float64(e.Position.X-g.lastDrag.X) / zoom
		dy := float64(e.Position.Y-g.lastDrag.Y) / zoom
		g.store.MoveNode(g.dragNode, graph.Point{X: dx, Y: dy})
		g.lastDrag = e.Position
	} else if g.panDrag {
		pan, z := g.store.View()
		pan.X -= float64(e.Position.X-g.panLast.X) / zoom
		pan.Y -= float64(e.Position.Y-g.panLast.Y) / zoom
		g.store.SetView(pan, z)
		g.panLast = e.Position
	}
	g.Refresh()
}

func (g *GraphCanvas) DragEnd() {
	if g.dragging {
		g.store.EndGesture()
		if g.OnChange != nil {
			g.OnChange()
		}
	}
	g.dragging = false
	g.panDrag = false
}

func (g *GraphCanvas) Scrolled(e *fyne.ScrollEvent) {
	pan, zoom := g.store.View()
	if zoom == 0 {
		zoom = 1
	}
	if e.Scrolled.DY > 0 {
		zoom *= 1.1
	} else if e.Scrolled.DY < 0 {
		zoom /= 1.1
	}
	if zoom < 0.2 {
		zoom = 0.2
	}
	if zoom > 4 {
		zoom = 4
	}
	g.store.SetView(pan, zoom)
	g.Refresh()
}

func (g *GraphCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &graphCanvasRenderer{gc: g}
}

type graphCanvasRenderer struct {
	gc      *GraphCanvas
	objects []fyne.CanvasObject
}

func (r *graphCanvasRenderer) Destroy()                     {}
func (r *graphCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *graphCanvasRenderer) MinSize() fyne.Size           { return r.gc.MinSize() }
func (r *graphCanvasRenderer) Refresh() {
	r.Layout(r.gc.Size())
	canvas.Refresh(r.gc)
}

func (r *graphCanvasRenderer) Layout(fyne.Size) {
	r.objects = r.objects[:0]
	s := r.gc.store
	_, zoom := s.View()
	if zoom == 0 {
		zoom = 1
	}

	// wires first, under the nodes
	for _, c := range s.Connections() {
		from, okF := s.PortPosition(c.FromNode, c.FromPort, false)
		to, okT := s.PortPosition(c.ToNode, c.ToPort, true)
		if !okF || !okT {
			continue
		}
		line := canvas.NewLine(wireColor)
		line.StrokeWidth = 2
		line.Position1 = r.gc.toScreen(from)
		line.Position2 = r.gc.toScreen(to)
		r.objects = append(r.objects, line)
	}

	active, hasActive := s.Active()
	for _, n := range s.Nodes() {
		rect := canvas.NewRectangle(nodeFill)
		rect.StrokeColor = nodeStroke
		if hasActive && n.ID == active {
			rect.StrokeColor = nodeSelected
		}
		rect.StrokeWidth = 2
		rect.Move(r.gc.toScreen(n.Position))
		rect.Resize(fyne.NewSize(float32(n.Size.W*zoom), float32(n.Size.H*zoom)))
		r.objects = append(r.objects, rect)

		label := canvas.NewText(n.Title, titleColor)
		label.TextSize = float32(12 * zoom)
		pos := r.gc.toScreen(n.Position)
		label.Move(fyne.NewPos(pos.X+6, pos.Y+4))
		r.objects = append(r.objects, label)
	}
}
