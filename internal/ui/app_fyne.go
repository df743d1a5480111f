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
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"tgmenued/internal/backend"
	"tgmenued/internal/config"
	"tgmenued/internal/crash"
	"tgmenued/internal/domain"
	"tgmenued/internal/export"
	"tgmenued/internal/graph"
	applog "tgmenued/internal/log"
	"tgmenued/internal/menu"
	"tgmenued/internal/storage"
	"tgmenued/internal/telemetry"
)

// Run starts the Fyne-based node editor shell.
func Run(projectDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	telemetry.InitDefault()
	telemetry.Event("ui_started", nil)

	cfg, dsn, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}
	if cfg.Backend.DSN != "" {
		dsn = cfg.Backend.DSN
	}

	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	fyneApp := app.NewWithID("tgmenued")
	w := fyneApp.NewWindow("Telegram Menu Editor")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	store := graph.NewStore(graph.Config{
		HistoryLimit:    cfg.Editor.HistoryLimit,
		EnableDocuments: cfg.Editor.EnableDocuments,
	})
	status := widget.NewLabel("Ready")
	gc := NewGraphCanvas(store)

	// Node list (left)
	nodeDisplay := []string{}
	nodeIDs := []graph.NodeID{}
	nodeList := widget.NewList(
		func() int { return len(nodeDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(nodeDisplay) {
				o.(*widget.Label).SetText(nodeDisplay[i])
			}
		},
	)

	// Parameter inspector (right)
	inspectorBox := container.NewVBox()

	refreshAll := func() {}

	refreshNodeList := func() {
		nodeDisplay = nodeDisplay[:0]
		nodeIDs = nodeIDs[:0]
		for _, n := range store.Nodes() {
			nodeDisplay = append(nodeDisplay, fmt.Sprintf("%d: %s", n.ID, n.Title))
			nodeIDs = append(nodeIDs, n.ID)
		}
		nodeList.Refresh()
	}

	refreshInspector := func() {
		inspectorBox.Objects = nil
		id, ok := store.Active()
		if !ok {
			inspectorBox.Add(widget.NewLabel("No node selected"))
			inspectorBox.Refresh()
			return
		}
		n, ok := store.Node(id)
		if !ok {
			inspectorBox.Refresh()
			return
		}
		titleEntry := widget.NewEntry()
		titleEntry.SetText(n.Title)
		titleEntry.OnSubmitted = func(s string) {
			store.SetNodeTitle(id, s)
			refreshAll()
		}
		inspectorBox.Add(widget.NewLabel(fmt.Sprintf("Node %d (%s)", n.ID, n.Type)))
		inspectorBox.Add(widget.NewForm(widget.NewFormItem("Title", titleEntry)))
		for _, p := range n.Params {
			p := p
			entry := widget.NewEntry()
			entry.SetText(p.Value.String())
			entry.OnSubmitted = func(s string) {
				store.SetParamText(id, p.ID, s)
				refreshAll()
				status.SetText(fmt.Sprintf("Updated %s", p.Label))
			}
			inspectorBox.Add(widget.NewForm(widget.NewFormItem(p.Label, entry)))
		}
		inspectorBox.Refresh()
	}

	refreshAll = func() {
		refreshNodeList()
		refreshInspector()
		gc.Refresh()
	}
	gc.OnSelect = func(graph.NodeID) { refreshInspector() }
	gc.OnChange = refreshAll

	nodeList.OnSelected = func(i widget.ListItemID) {
		if int(i) < len(nodeIDs) {
			store.SetActive(nodeIDs[i])
			refreshInspector()
			gc.Refresh()
		}
	}

	// Search box backed by the project index
	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Search nodes…")
	searchEntry.OnSubmitted = func(q string) {
		if ph == nil {
			status.SetText("Open a project to search.")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := storage.InitOrOpenIndex(ph.Root)
		if err != nil {
			l.Error("open index failed", slog.Any("err", err))
			status.SetText("Search unavailable.")
			return
		}
		defer db.Close()
		hits, err := storage.SearchNodes(ctx, db, q)
		if err != nil {
			l.Error("search failed", slog.Any("err", err))
			status.SetText("Search failed.")
			return
		}
		if len(hits) == 0 {
			status.SetText("No matches.")
			return
		}
		store.SetActive(hits[0].NodeID)
		refreshInspector()
		gc.Refresh()
		status.SetText(fmt.Sprintf("%d match(es); selected node %d", len(hits), hits[0].NodeID))
	}

	saveProject := func() {
		if ph == nil {
			status.SetText("No project open.")
			return
		}
		ph.Project.Graph = store.Snapshot()
		if err := storage.Save(ph); err != nil {
			dialog.ShowError(err, w)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.UpdateIndex(ctx, ph.Root, ph.Project); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		status.SetText("Saved.")
	}

	openProject := func(dir string) {
		h, err := storage.Open(dir)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		ph = h
		store.Restore(ph.Project.Graph)
		refreshAll()
		w.SetTitle("Telegram Menu Editor - " + ph.Project.Title)
		status.SetText("Opened " + dir)
		telemetry.Event("project_opened", nil)
	}

	exportJSON := func() {
		if ph == nil {
			status.SetText("No project open.")
			return
		}
		cfgDoc := menu.Build(store, ph.Project.Title)
		data, err := export.ExportMenuJSON(ph, cfgDoc, "config.json")
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if db, derr := storage.InitOrOpenIndex(ph.Root); derr == nil {
			if _, rerr := storage.RecordExport(ctx, db, cfgDoc.Title, data); rerr != nil {
				l.Warn("record export failed", slog.Any("err", rerr))
			}
			_ = db.Close()
		}
		status.SetText("Exported config.json")
	}

	exportPDF := func() {
		if ph == nil {
			status.SetText("No project open.")
			return
		}
		cfgDoc := menu.Build(store, ph.Project.Title)
		if err := export.ExportMenuPDF(ph, cfgDoc, "menu-report.pdf", export.PDFOptions{IncludeFAQ: true}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported menu-report.pdf")
	}

	importJSON := func() {
		entry := widget.NewMultiLineEntry()
		entry.SetPlaceHolder("Paste bot config JSON…")
		d := dialog.NewForm("Import Config", "Import", "Cancel", []*widget.FormItem{
			widget.NewFormItem("JSON", entry),
		}, func(ok bool) {
			if !ok {
				return
			}
			title, err := menu.Import(store, []byte(entry.Text))
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if ph != nil && title != "" {
				ph.Project.Title = title
			}
			refreshAll()
			status.SetText("Imported.")
		}, w)
		d.Resize(fyne.NewSize(600, 400))
		d.Show()
	}

	publish := func() {
		if ph == nil {
			status.SetText("No project open.")
			return
		}
		if dsn == "" {
			dialog.ShowError(backend.ErrNoDSN, w)
			return
		}
		cfgDoc := menu.Build(store, ph.Project.Title)
		name := ph.Project.Metadata.Name
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			pub, err := backend.Connect(ctx, dsn)
			if err == nil {
				defer pub.Close()
				_, err = pub.Publish(ctx, name, cfgDoc)
			}
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				status.SetText("Published " + name)
			})
		}()
	}

	toolbar := container.NewHBox(
		widget.NewButton("Menu Item", func() {
			id := store.AddMenuItem(centerSpawn(store), "New Menu Item")
			store.SetActive(id)
			refreshAll()
		}),
		widget.NewButton("FAQ Item", func() {
			id := store.AddFaqItem(centerSpawn(store), "New Question")
			store.SetActive(id)
			refreshAll()
		}),
		widget.NewButton("Document", func() {
			id, err := store.AddDocument(centerSpawn(store), "New Document")
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			store.SetActive(id)
			refreshAll()
		}),
		widget.NewSeparator(),
		widget.NewButton("Undo", func() {
			if store.Undo() {
				refreshAll()
			}
		}),
		widget.NewButton("Redo", func() {
			if store.Redo() {
				refreshAll()
			}
		}),
		widget.NewButton("Delete", func() {
			if id, ok := store.Active(); ok {
				store.DeleteNode(id)
				refreshAll()
			}
		}),
		widget.NewSeparator(),
		widget.NewButton("Save", saveProject),
	)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project…", func() {
			nameEntry := widget.NewEntry()
			titleEntry := widget.NewEntry()
			dirEntry := widget.NewEntry()
			dialog.NewForm("New Project", "Create", "Cancel", []*widget.FormItem{
				widget.NewFormItem("Name", nameEntry),
				widget.NewFormItem("Bot Title", titleEntry),
				widget.NewFormItem("Folder", dirEntry),
			}, func(ok bool) {
				if !ok {
					return
				}
				dir := strings.TrimSpace(dirEntry.Text)
				if dir == "" {
					return
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					dialog.ShowError(err, w)
					return
				}
				proj := domain.NewProject(strings.TrimSpace(nameEntry.Text), strings.TrimSpace(titleEntry.Text))
				h, err := storage.InitProject(dir, proj)
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				ph = h
				store.Restore(graph.Snapshot{})
				graph.SeedSample(store)
				ph.Project.Graph = store.Snapshot()
				refreshAll()
				w.SetTitle("Telegram Menu Editor - " + ph.Project.Title)
				status.SetText("Created " + dir)
			}, w).Show()
		}),
		fyne.NewMenuItem("Open…", func() {
			dirEntry := widget.NewEntry()
			dialog.NewForm("Open Project", "Open", "Cancel", []*widget.FormItem{
				widget.NewFormItem("Folder", dirEntry),
			}, func(ok bool) {
				if ok {
					openProject(strings.TrimSpace(dirEntry.Text))
				}
			}, w).Show()
		}),
		fyne.NewMenuItem("Save", saveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Config JSON…", importJSON),
		fyne.NewMenuItem("Export Config JSON", exportJSON),
		fyne.NewMenuItem("Export PDF Report", exportPDF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Publish to Backend", publish),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu))

	left := container.NewBorder(widget.NewLabel("Nodes"), nil, nil, nil, nodeList)
	right := container.NewVBox(widget.NewLabel("Inspector"), widget.NewSeparator(), inspectorBox)
	top := container.NewVBox(toolbar, searchEntry)
	content := container.NewBorder(top, status, left, right, gc)
	w.SetContent(content)

	w.SetOnClosed(func() {
		prefs.SetInt("window.width", int(w.Canvas().Size().Width))
		prefs.SetInt("window.height", int(w.Canvas().Size().Height))
	})

	if projectDir != "" {
		openProject(projectDir)
	}
	refreshAll()
	w.ShowAndRun()
	return nil
}

// centerSpawn picks a spawn position near the current view center so
// new nodes do not pile up at the origin.
func centerSpawn(s *graph.Store) graph.Point {
	pan, zoom := s.View()
	if zoom <= 0 {
		zoom = 1
	}
	return graph.Point{X: pan.X + 400/zoom, Y: pan.Y + 300/zoom}
}
