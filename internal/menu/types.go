/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package menu maps between the editable node graph and the nested JSON
// document the Telegram bot consumes: Build flattens the graph into the
// document, Import rebuilds a graph from one.
package menu

import "encoding/json"

// Config is the document the bot reads: a titled menu tree plus a flat
// FAQ list. Optional fields are omitted rather than emitted as null.
type Config struct {
	Title    string     `json:"title"`
	MainMenu []MenuItem `json:"main_menu"`
	FAQ      []FaqItem  `json:"faq"`
}

// MenuItem is one button in the bot menu, possibly with a nested
// submenu, attached documents, and a free-form data payload that rides
// through the editor untouched.
type MenuItem struct {
	Text         string          `json:"text"`
	CallbackData string          `json:"callback_data"`
	Description  string          `json:"description,omitempty"`
	URL          string          `json:"url,omitempty"`
	Submenu      []MenuItem      `json:"submenu,omitempty"`
	Documents    []Document      `json:"documents,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
	TextContent  string          `json:"text_content,omitempty"`
}

// Document is a downloadable attachment under a menu item. Entries
// without a URL are meaningless to the bot and are dropped at export.
type Document struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url"`
}

// FaqItem is one question/answer pair. Entries without an answer are
// dropped at export.
type FaqItem struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags,omitempty"`
}
