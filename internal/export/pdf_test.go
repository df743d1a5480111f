/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"os"
	"path/filepath"
	"testing"

	"tgmenued/internal/domain"
	"tgmenued/internal/menu"
	"tgmenued/internal/storage"
)

func sampleConfig() menu.Config {
	return menu.Config{
		Title: "Support Bot",
		MainMenu: []menu.MenuItem{
			{
				Text:         "Services",
				CallbackData: "services",
				Description:  "What we offer",
				Submenu: []menu.MenuItem{
					{Text: "Pricing", CallbackData: "pricing", URL: "https://example.com/pricing"},
				},
				Documents: []menu.Document{
					{Text: "Brochure", URL: "https://example.com/brochure.pdf"},
				},
			},
		},
		FAQ: []menu.FaqItem{
			{Question: "How do I start?", Answer: "Press /start.", Tags: []string{"basics", "start"}},
		},
	}
}

func TestExportMenuPDF_CreatesFile(t *testing.T) {
	root := t.TempDir()
	ph, err := storage.InitProject(root, domain.NewProject("support-bot", "Support Bot"))
	if err != nil {
		t.Fatalf("init project: %v", err)
	}

	out := filepath.Join(root, "exports", "menu-report.pdf")
	if err := ExportMenuPDF(ph, sampleConfig(), out, PDFOptions{IncludeFAQ: true, Author: "tester"}); err != nil {
		t.Fatalf("export pdf: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty PDF, got 0 bytes")
	}
}

func TestCyrillicTranslator(t *testing.T) {
	tr := cyrillicTranslator()
	if got := tr("Яя"); got != "\xdf\xff" {
		t.Fatalf("tr(Яя) = %q, want cp1251 bytes df ff", got)
	}
	// A rune outside the code page becomes the substitute byte rather
	// than an error.
	if got := tr("汉"); len(got) != 1 {
		t.Fatalf("tr(out-of-page rune) = %q, want single substitute byte", got)
	}
	if got := tr("ASCII stays"); got != "ASCII stays" {
		t.Fatalf("tr(ascii) = %q", got)
	}
}

func TestExportMenuPDF_CyrillicContent(t *testing.T) {
	root := t.TempDir()
	ph, err := storage.InitProject(root, domain.NewProject("support-bot", "Бот поддержки"))
	if err != nil {
		t.Fatalf("init project: %v", err)
	}

	cfg := menu.Config{
		Title: "Меню бота",
		MainMenu: []menu.MenuItem{
			{Text: "Главное меню", CallbackData: "главное_меню", Description: "Описание"},
		},
		FAQ: []menu.FaqItem{
			{Question: "Как начать?", Answer: "Нажмите /start.", Tags: []string{"основы"}},
		},
	}
	out := filepath.Join(root, "exports", "меню.pdf")
	if err := ExportMenuPDF(ph, cfg, out, PDFOptions{IncludeFAQ: true, Author: "Автор"}); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty PDF, got 0 bytes")
	}
}

func TestExportMenuPDF_RelativePathLandsInExports(t *testing.T) {
	root := t.TempDir()
	ph, err := storage.InitProject(root, domain.NewProject("support-bot", "Support Bot"))
	if err != nil {
		t.Fatalf("init project: %v", err)
	}

	if err := ExportMenuPDF(ph, sampleConfig(), "report.pdf", PDFOptions{}); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "exports", "report.pdf")); err != nil {
		t.Fatalf("expected report under exports dir: %v", err)
	}
}
