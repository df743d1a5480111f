/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the persisted project model: the manifest that
// wraps an editable graph together with its workflow metadata. These
// types mirror the on-disk JSON exactly.
package domain

import (
	"time"

	"github.com/google/uuid"

	"tgmenued/internal/graph"
)

// SchemaVersion is bumped when the manifest structure changes in a
// backward-incompatible way.
const SchemaVersion = 1

// Metadata describes the workflow around a project. It stays in the
// manifest and is never part of the exported bot document.
type Metadata struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	Version     string    `json:"version,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// Project is the manifest written to the project directory.
type Project struct {
	SchemaVersion int            `json:"schema_version"`
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Metadata      Metadata       `json:"metadata"`
	Graph         graph.Snapshot `json:"graph"`
}

// NewProject returns a manifest for a fresh project with a random id
// and creation timestamps set to now.
func NewProject(name, title string) Project {
	now := time.Now().UTC()
	return Project{
		SchemaVersion: SchemaVersion,
		ID:            uuid.NewString(),
		Title:         title,
		Metadata: Metadata{
			Name:       name,
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

// Touch updates the modification timestamp.
func (p *Project) Touch() { p.Metadata.ModifiedAt = time.Now().UTC() }
