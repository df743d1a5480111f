/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"tgmenued/internal/graph"
)

// ErrBadDocument wraps every import rejection so callers can tell a
// broken file from an IO problem.
var ErrBadDocument = errors.New("menu: document does not parse")

// Import defaults, used when a field the editor wants is absent.
const (
	DefaultTitle        = "Telegram Bot Menu"
	defaultMenuItemText = "Unnamed Menu Item"
	defaultDocumentText = "Unnamed Document"
	defaultQuestionText = "Unnamed Question"
)

// Node placement grid for imported graphs. Import is deterministic:
// the same document always lands on the same canvas coordinates.
const (
	menuColSpacing = 300.0
	menuRowSpacing = 120.0
	docRowOffset   = 80.0
	faqColumnX     = 100.0
	faqColumnYBase = 500.0
	faqRowSpacing  = 100.0
)

// Import rebuilds the graph from a bot document. Validation happens up
// front: a file that does not parse, is not an object, or has the wrong
// shape rejects the whole import with ErrBadDocument and the store is
// left untouched. After that the import is best-effort, defaulting
// missing fields instead of failing. Document nodes are skipped when the
// store has documents disabled. The document title is returned so the
// caller can keep it as the project's export title.
func Import(s *graph.Store, data []byte) (string, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return "", fmt.Errorf("%w: %s", ErrBadDocument, strings.Join(msgs, "; "))
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadDocument, err)
	}

	title := cfg.Title
	if title == "" {
		title = DefaultTitle
	}
	imp := importer{store: s}
	imp.menuItems(cfg.MainMenu, nil, 0, 0)
	for i, f := range cfg.FAQ {
		imp.faqItem(f, i)
	}
	return title, nil
}

type importer struct {
	store        *graph.Store
	docsDisabled bool
}

// menuItems lays one submenu level out as a row under its parent:
// columns step right per sibling, rows step down per nesting depth.
func (im *importer) menuItems(items []MenuItem, parent *graph.NodeID, depth int, baseX float64) {
	for i, item := range items {
		pos := graph.Point{
			X: baseX + float64(i)*menuColSpacing,
			Y: float64(depth) * menuRowSpacing,
		}
		id := im.menuItem(item, pos)
		if parent != nil {
			im.store.Connect(*parent, graph.PortSubMenu, id, graph.PortParentMenu)
		}
		im.menuItems(item.Submenu, &id, depth+1, pos.X)
		for j, doc := range item.Documents {
			im.document(doc, id, pos, j)
		}
	}
}

func (im *importer) menuItem(item MenuItem, pos graph.Point) graph.NodeID {
	text := item.Text
	if text == "" {
		text = defaultMenuItemText
	}
	id := im.store.AddMenuItem(pos, text)
	im.store.SetParamText(id, "name", text)
	im.store.SetParamText(id, "callback_data", item.CallbackData)
	im.store.SetParamText(id, "description", item.Description)
	im.store.SetParamText(id, "url", item.URL)
	im.store.SetParamText(id, "text_content", item.TextContent)
	if len(item.Data) > 0 {
		im.store.SetParamValue(id, DataParam, "Data", graph.TextValue(string(item.Data)))
	}
	return id
}

func (im *importer) document(doc Document, parent graph.NodeID, parentPos graph.Point, idx int) {
	if im.docsDisabled {
		return
	}
	text := doc.Text
	if text == "" {
		text = defaultDocumentText
	}
	pos := graph.Point{
		X: parentPos.X + menuColSpacing,
		Y: parentPos.Y + docRowOffset*float64(idx+1),
	}
	id, err := im.store.AddDocument(pos, text)
	if err != nil {
		im.docsDisabled = true
		return
	}
	im.store.SetParamText(id, "text", text)
	im.store.SetParamText(id, "callback_data", doc.CallbackData)
	im.store.SetParamText(id, "url", doc.URL)
	im.store.Connect(parent, graph.PortDocuments, id, graph.PortParentMenu)
}

func (im *importer) faqItem(f FaqItem, idx int) {
	question := f.Question
	if question == "" {
		question = defaultQuestionText
	}
	pos := graph.Point{X: faqColumnX, Y: faqColumnYBase + float64(idx)*faqRowSpacing}
	id := im.store.AddFaqItem(pos, question)
	im.store.SetParamText(id, "question", question)
	im.store.SetParamText(id, "answer", f.Answer)
	im.store.SetParamText(id, "tags", strings.Join(f.Tags, ", "))
}
