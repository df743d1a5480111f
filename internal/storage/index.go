/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tgmenued/internal/domain"
	"tgmenued/internal/graph"
	applog "tgmenued/internal/log"
	"tgmenued/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump on breaking schema changes and add a migration step.
	schemaVersion = 1
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at
// .tme/index.sqlite, opens the database, enables WAL mode, and ensures
// the meta/version tables exist. The returned *sql.DB is ready for use.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create index dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	path := IndexPath(projectRoot)
	// URI with shared cache and busy timeout; forward slashes for SQLite.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection is enough for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureIndexSchema creates the node text index and the export history.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// One row per node: search surface over titles and parameter text.
		`CREATE TABLE IF NOT EXISTS nodes (
			node_id INTEGER PRIMARY KEY,
			type    TEXT NOT NULL,
			title   TEXT NOT NULL,
			text    TEXT
		);`,

		// Contentless FTS5 index fed from nodes via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_nodes USING fts5(
			title,
			text,
			content='',
			tokenize = 'unicode61'
		);`,

		// Every recorded export of the bot document.
		`CREATE TABLE IF NOT EXISTS exports (
			id    INTEGER PRIMARY KEY,
			ts    TEXT NOT NULL,
			title TEXT NOT NULL,
			doc   BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exports_ts ON exports(ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS nodes_ai AFTER INSERT ON nodes BEGIN
			INSERT INTO fts_nodes(rowid, title, text) VALUES (new.node_id, new.title, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS nodes_ad AFTER DELETE ON nodes BEGIN
			INSERT INTO fts_nodes(fts_nodes, rowid, title, text) VALUES ('delete', old.node_id, old.title, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS nodes_au AFTER UPDATE ON nodes BEGIN
			INSERT INTO fts_nodes(fts_nodes, rowid, title, text) VALUES ('delete', old.node_id, old.title, old.text);
			INSERT INTO fts_nodes(rowid, title, text) VALUES (new.node_id, new.title, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// UpdateIndex replaces the node index content from the given manifest.
func UpdateIndex(ctx context.Context, projectRoot string, proj domain.Project) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildNodesFromProject(ctx, db, proj)
}

// rebuildNodesFromProject clears the nodes table and reinserts one row
// per graph node, aggregating all parameter text into the search column.
func rebuildNodesFromProject(ctx context.Context, db *sql.DB, proj domain.Project) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear nodes: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO nodes(node_id, type, title, text) VALUES(?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, n := range proj.Graph.Nodes {
		var parts []string
		for _, p := range n.Params {
			if s := strings.TrimSpace(p.Value.String()); s != "" {
				parts = append(parts, s)
			}
		}
		if _, err := ins.ExecContext(ctx, int64(n.ID), string(n.Type), n.Title, strings.Join(parts, " ")); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert node: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// NodeHit is one search result from the node index.
type NodeHit struct {
	NodeID graph.NodeID
	Type   string
	Title  string
}

// SearchNodes runs a full-text query over node titles and parameter
// text and returns matching nodes, best match first.
func SearchNodes(ctx context.Context, db *sql.DB, query string) ([]NodeHit, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	rows, err := db.QueryContext(ctx, `
		SELECT n.node_id, n.type, n.title
		FROM fts_nodes f
		JOIN nodes n ON n.node_id = f.rowid
		WHERE fts_nodes MATCH ?
		ORDER BY rank;`, q)
	if err != nil {
		return nil, fmt.Errorf("search nodes: %w", err)
	}
	defer rows.Close()
	var hits []NodeHit
	for rows.Next() {
		var h NodeHit
		var id int64
		if err := rows.Scan(&id, &h.Type, &h.Title); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		h.NodeID = graph.NodeID(id)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
