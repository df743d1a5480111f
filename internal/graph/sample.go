/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package graph

// SeedSample populates an empty store with a small starter graph so a
// fresh project is not a blank canvas. No-op when nodes already exist.
func SeedSample(s *Store) {
	if s.NodeCount() > 0 {
		return
	}
	root := s.AddMenuItem(Point{X: 100, Y: 100}, "Main Menu")
	child := s.AddMenuItem(Point{X: 400, Y: 220}, "About")
	s.Connect(root, PortSubMenu, child, PortParentMenu)
	faq := s.AddFaqItem(Point{X: 100, Y: 500}, "How do I use this bot?")
	s.SetParamText(faq, "answer", "Pick an item from the menu below.")
}
