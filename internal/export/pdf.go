/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders the bot document to shareable artifacts.
// The PDF report is a printable outline of the menu tree and FAQ for
// review outside the editor.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"tgmenued/internal/menu"
	"tgmenued/internal/storage"
)

// PDFOptions controls PDF report behavior. Units are points (pt).
// Built-in Helvetica keeps text vector without embedding; the cp1251
// translator maps Cyrillic titles onto it.
type PDFOptions struct {
	IncludeFAQ bool
	// Author stamped into document metadata; empty stays empty.
	Author string
}

const (
	pdfMarginPt     = 48.0
	pdfBodyPt       = 11.0
	pdfIndentPt     = 18.0
	pdfLineGapPt    = 1.45
	pdfPageWidthA4  = 595.28
	pdfPageHeightA4 = 841.89
)

// ExportMenuPDF renders the bot document as a structure report at
// outPath. A relative outPath lands under the project exports folder.
func ExportMenuPDF(ph *storage.ProjectHandle, cfg menu.Config, outPath string, opt PDFOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pdfPageWidthA4, Ht: pdfPageHeightA4},
		OrientationStr: "P",
	})
	tr := cyrillicTranslator()
	pdf.SetTitle(tr(cfg.Title), false)
	if opt.Author != "" {
		pdf.SetAuthor(tr(opt.Author), false)
	}
	pdf.SetMargins(pdfMarginPt, pdfMarginPt, pdfMarginPt)
	pdf.SetAutoPageBreak(true, pdfMarginPt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 22, tr(cfg.Title), "", "L", false)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 16, tr("Menu"), "", "L", false)
	pdf.SetFont("Helvetica", "", pdfBodyPt)
	if len(cfg.MainMenu) == 0 {
		writeLine(pdf, tr, 0, "(empty)")
	}
	for _, item := range cfg.MainMenu {
		writeMenuItem(pdf, tr, item, 0)
	}

	if opt.IncludeFAQ {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 16, tr("FAQ"), "", "L", false)
		pdf.SetFont("Helvetica", "", pdfBodyPt)
		for _, f := range cfg.FAQ {
			writeLine(pdf, tr, 0, "Q: "+f.Question)
			writeLine(pdf, tr, 1, "A: "+f.Answer)
			if len(f.Tags) > 0 {
				writeLine(pdf, tr, 1, "Tags: "+strings.Join(f.Tags, ", "))
			}
		}
		if len(cfg.FAQ) == 0 {
			writeLine(pdf, tr, 0, "(empty)")
		}
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// cyrillicTranslator maps UTF-8 text onto the cp1251 byte set expected
// by the built-in fonts. Runes outside the code page degrade to the
// substitute byte instead of aborting the export.
func cyrillicTranslator() func(string) string {
	enc := encoding.ReplaceUnsupported(charmap.Windows1251.NewEncoder())
	return func(s string) string {
		out, err := enc.String(s)
		if err != nil {
			return s
		}
		return out
	}
}

func writeMenuItem(pdf *gofpdf.Fpdf, tr func(string) string, item menu.MenuItem, depth int) {
	label := item.Text
	if item.CallbackData != "" {
		label += "  [" + item.CallbackData + "]"
	}
	writeLine(pdf, tr, depth, "- "+label)
	if item.Description != "" {
		writeLine(pdf, tr, depth+1, item.Description)
	}
	if item.URL != "" {
		writeLine(pdf, tr, depth+1, item.URL)
	}
	for _, d := range item.Documents {
		writeLine(pdf, tr, depth+1, "* "+d.Text+"  "+d.URL)
	}
	for _, sub := range item.Submenu {
		writeMenuItem(pdf, tr, sub, depth+1)
	}
}

func writeLine(pdf *gofpdf.Fpdf, tr func(string) string, depth int, text string) {
	pdf.SetX(pdfMarginPt + float64(depth)*pdfIndentPt)
	pdf.MultiCell(0, pdfBodyPt*pdfLineGapPt, tr(text), "", "L", false)
}
