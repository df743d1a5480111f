/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tgmenued/internal/backend"
	"tgmenued/internal/config"
	"tgmenued/internal/crash"
	"tgmenued/internal/domain"
	"tgmenued/internal/export"
	"tgmenued/internal/graph"
	applog "tgmenued/internal/log"
	"tgmenued/internal/menu"
	"tgmenued/internal/storage"
	"tgmenued/internal/ui"
	"tgmenued/internal/version"
)

func usage() {
	fmt.Println("Telegram Menu Editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tgmenued version|-v|--version             Show version")
	fmt.Println("  tgmenued init <dir> <name> [title]        Create a new project at <dir>")
	fmt.Println("  tgmenued open <dir>                       Open project at <dir> and print summary")
	fmt.Println("  tgmenued export <dir> [out.json]          Export the bot config JSON")
	fmt.Println("  tgmenued export-pdf <dir> [out.pdf]       Export a printable menu report")
	fmt.Println("  tgmenued import <dir> <config.json>       Import a bot config into the project")
	fmt.Println("  tgmenued exports <dir>                    List export history")
	fmt.Println("  tgmenued publish <dir>                    Publish the config to the backend")
	fmt.Println("  tgmenued serve                            Run the backend read API")
	fmt.Println("  tgmenued ui [<dir>]                       Launch desktop UI (build with -tags fyne)")
}

func fatal(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

// storeFor builds an editing store seeded from the project graph,
// honoring the user's editor settings.
func storeFor(ph *storage.ProjectHandle) *graph.Store {
	cfg, _, _ := config.Load()
	s := graph.NewStore(graph.Config{
		HistoryLimit:    cfg.Editor.HistoryLimit,
		EnableDocuments: cfg.Editor.EnableDocuments,
	})
	s.Restore(ph.Project.Graph)
	return s
}

func openOrDie(l *slog.Logger, dir string) *storage.ProjectHandle {
	abs, _ := filepath.Abs(dir)
	h, err := storage.Open(abs)
	if err != nil {
		fatal(l, "open failed", err)
	}
	return h
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) <= 1 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Telegram Menu Editor")
		fmt.Println(version.String())

	case "init":
		if len(args) < 4 {
			fmt.Println("init requires <dir> and <name>")
			usage()
			os.Exit(2)
		}
		dir, name := args[2], args[3]
		title := name
		if len(args) >= 5 {
			title = args[4]
		}
		abs, _ := filepath.Abs(dir)
		l.Info("init project", slog.String("root", abs), slog.String("name", name))
		h, err := storage.InitProject(abs, domain.NewProject(name, title))
		if err != nil {
			fatal(l, "init failed", err)
		}
		ph = h
		s := storeFor(ph)
		graph.SeedSample(s)
		ph.Project.Graph = s.Snapshot()
		if err := storage.Save(ph); err != nil {
			fatal(l, "save failed", err)
		}
		fmt.Println("Created project at", abs)

	case "open":
		if len(args) < 3 {
			fmt.Println("open requires <dir>")
			usage()
			os.Exit(2)
		}
		ph = openOrDie(l, args[2])
		s := storeFor(ph)
		fmt.Printf("Opened project: %s\n", ph.Project.Metadata.Name)
		fmt.Printf("Bot title: %s\n", ph.Project.Title)
		fmt.Printf("Nodes: %d  Connections: %d\n", s.NodeCount(), s.ConnectionCount())
		fmt.Println("Root:", ph.Root)

	case "export":
		if len(args) < 3 {
			fmt.Println("export requires <dir>")
			usage()
			os.Exit(2)
		}
		ph = openOrDie(l, args[2])
		out := "config.json"
		if len(args) >= 4 {
			out = args[3]
		}
		s := storeFor(ph)
		cfgDoc := menu.Build(s, ph.Project.Title)
		data, err := export.ExportMenuJSON(ph, cfgDoc, out)
		if err != nil {
			fatal(l, "export failed", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if db, derr := storage.InitOrOpenIndex(ph.Root); derr == nil {
			if _, rerr := storage.RecordExport(ctx, db, cfgDoc.Title, data); rerr != nil {
				l.Warn("record export failed", slog.Any("err", rerr))
			}
			_ = db.Close()
		}
		fmt.Printf("Exported %d menu item(s), %d FAQ item(s) to %s\n",
			len(cfgDoc.MainMenu), len(cfgDoc.FAQ), out)

	case "export-pdf":
		if len(args) < 3 {
			fmt.Println("export-pdf requires <dir>")
			usage()
			os.Exit(2)
		}
		ph = openOrDie(l, args[2])
		out := "menu-report.pdf"
		if len(args) >= 4 {
			out = args[3]
		}
		s := storeFor(ph)
		cfgDoc := menu.Build(s, ph.Project.Title)
		if err := export.ExportMenuPDF(ph, cfgDoc, out, export.PDFOptions{IncludeFAQ: true}); err != nil {
			fatal(l, "export-pdf failed", err)
		}
		fmt.Println("Exported", out)

	case "import":
		if len(args) < 4 {
			fmt.Println("import requires <dir> and <config.json>")
			usage()
			os.Exit(2)
		}
		ph = openOrDie(l, args[2])
		data, err := os.ReadFile(args[3])
		if err != nil {
			fatal(l, "read config failed", err)
		}
		s := storeFor(ph)
		title, err := menu.Import(s, data)
		if err != nil {
			fatal(l, "import failed", err)
		}
		if title != "" {
			ph.Project.Title = title
		}
		ph.Project.Graph = s.Snapshot()
		if err := storage.Save(ph); err != nil {
			fatal(l, "save failed", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.UpdateIndex(ctx, ph.Root, ph.Project); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		fmt.Printf("Imported %d node(s) into %s\n", s.NodeCount(), ph.Root)

	case "exports":
		if len(args) < 3 {
			fmt.Println("exports requires <dir>")
			usage()
			os.Exit(2)
		}
		ph = openOrDie(l, args[2])
		db, err := storage.InitOrOpenIndex(ph.Root)
		if err != nil {
			fatal(l, "open index failed", err)
		}
		defer db.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		list, err := storage.ListExports(ctx, db, 20)
		if err != nil {
			fatal(l, "list exports failed", err)
		}
		if len(list) == 0 {
			fmt.Println("No exports recorded.")
			return
		}
		for _, r := range list {
			fmt.Printf("%4d  %s  %6d bytes  %s\n", r.ID, r.Timestamp, r.Size, r.Title)
		}

	case "publish":
		if len(args) < 3 {
			fmt.Println("publish requires <dir>")
			usage()
			os.Exit(2)
		}
		ph = openOrDie(l, args[2])
		appCfg, dsn, err := config.Load()
		if err != nil {
			fatal(l, "config load failed", err)
		}
		if appCfg.Backend.DSN != "" {
			dsn = appCfg.Backend.DSN
		}
		s := storeFor(ph)
		cfgDoc := menu.Build(s, ph.Project.Title)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		pub, err := backend.Connect(ctx, dsn)
		if err != nil {
			fatal(l, "backend connect failed", err)
		}
		defer pub.Close()
		rev, err := pub.Publish(ctx, ph.Project.Metadata.Name, cfgDoc)
		if err != nil {
			fatal(l, "publish failed", err)
		}
		fmt.Printf("Published %s as revision %d\n", ph.Project.Metadata.Name, rev)

	case "serve":
		if err := backend.Serve(); err != nil {
			fatal(l, "serve failed", err)
		}

	case "ui":
		var dir string
		if len(args) >= 3 {
			dir = args[2]
		}
		if err := ui.Run(dir); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}

	default:
		usage()
	}
}
