/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package menu

// configSchema constrains the SHAPE of a bot document, never the
// presence of optional fields: import fills gaps with defaults, but a
// main_menu that is not an array is a broken file, not a gap.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "main_menu": {
      "type": "array",
      "items": {"$ref": "#/definitions/menu_item"}
    },
    "faq": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "question": {"type": "string"},
          "answer": {"type": "string"},
          "tags": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  },
  "definitions": {
    "menu_item": {
      "type": "object",
      "properties": {
        "text": {"type": "string"},
        "callback_data": {"type": "string"},
        "description": {"type": "string"},
        "url": {"type": "string"},
        "text_content": {"type": "string"},
        "submenu": {
          "type": "array",
          "items": {"$ref": "#/definitions/menu_item"}
        },
        "documents": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "text": {"type": "string"},
              "callback_data": {"type": "string"},
              "url": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`
