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
	"strings"

	"tgmenued/internal/graph"
)

// DataParam is the node parameter that carries a menu item's raw JSON
// payload through the editor.
const DataParam = "data"

// Build flattens the graph into the bot document. Roots of the exported
// tree are the menu nodes without a parent connection; FAQ nodes are
// collected regardless of connectivity. Document nodes without a URL and
// FAQ nodes without an answer are silently dropped, matching what the
// bot could not use anyway.
func Build(s *graph.Store, title string) Config {
	cfg := Config{
		Title:    title,
		MainMenu: []MenuItem{},
		FAQ:      []FaqItem{},
	}
	for _, id := range s.RootMenuNodes() {
		cfg.MainMenu = append(cfg.MainMenu, buildMenuItem(s, id, map[graph.NodeID]bool{}))
	}
	for _, id := range s.FaqNodes() {
		if item, ok := buildFaqItem(s, id); ok {
			cfg.FAQ = append(cfg.FAQ, item)
		}
	}
	return cfg
}

// path holds the node ids of the current walk so that connection
// cycles terminate; a child already on the path is skipped.
func buildMenuItem(s *graph.Store, id graph.NodeID, path map[graph.NodeID]bool) MenuItem {
	n, ok := s.Node(id)
	if !ok {
		return MenuItem{}
	}
	text := n.ParamText("name")
	if text == "" {
		text = n.Title
	}
	callback := n.ParamText("callback_data")
	if callback == "" {
		callback = Slug(text)
	}
	item := MenuItem{
		Text:         text,
		CallbackData: callback,
		Description:  n.ParamText("description"),
		URL:          n.ParamText("url"),
		TextContent:  n.ParamText("text_content"),
	}
	if raw := strings.TrimSpace(n.ParamText(DataParam)); raw != "" && json.Valid([]byte(raw)) {
		item.Data = json.RawMessage(raw)
	}
	path[id] = true
	for _, child := range s.ChildMenuNodes(id) {
		if path[child] {
			continue
		}
		item.Submenu = append(item.Submenu, buildMenuItem(s, child, path))
	}
	delete(path, id)
	for _, docID := range s.DocumentsFor(id) {
		if doc, ok := buildDocument(s, docID); ok {
			item.Documents = append(item.Documents, doc)
		}
	}
	return item
}

func buildDocument(s *graph.Store, id graph.NodeID) (Document, bool) {
	n, ok := s.Node(id)
	if !ok {
		return Document{}, false
	}
	url := n.ParamText("url")
	if url == "" {
		return Document{}, false
	}
	text := n.ParamText("text")
	if text == "" {
		text = n.Title
	}
	return Document{
		Text:         text,
		CallbackData: n.ParamText("callback_data"),
		URL:          url,
	}, true
}

func buildFaqItem(s *graph.Store, id graph.NodeID) (FaqItem, bool) {
	n, ok := s.Node(id)
	if !ok {
		return FaqItem{}, false
	}
	answer := n.ParamText("answer")
	if answer == "" {
		return FaqItem{}, false
	}
	question := n.ParamText("question")
	if question == "" {
		question = n.Title
	}
	raw := n.ParamText("tags")
	if raw == "" {
		raw = n.ParamText("tag")
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return FaqItem{Question: question, Answer: answer, Tags: tags}, true
}
