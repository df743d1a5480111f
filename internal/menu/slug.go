/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package menu

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// callbackDataMax is Telegram's callback_data size ceiling.
const callbackDataMax = 64

// Slug derives a callback_data token from a human title: lowercased,
// everything but letters, digits and spaces stripped, spaces turned into
// underscores, cut to 64 runes. Titles that strip down to nothing get a
// random item_N token so the bot still has something unique to match on.
func Slug(title string) string {
	lower := strings.ToLower(title)
	var b strings.Builder
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	slug := strings.ReplaceAll(b.String(), " ", "_")
	if runes := []rune(slug); len(runes) > callbackDataMax {
		slug = string(runes[:callbackDataMax])
	}
	if slug == "" {
		slug = fmt.Sprintf("item_%d", rand.Intn(1<<16))
	}
	return slug
}
