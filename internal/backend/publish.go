/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package backend publishes bot config documents to a shared Postgres
// instance and serves them back to bot runtimes over a thin HTTP API.
// Every publish appends a new row; bots read the latest row per menu
// name, so a bad publish is undone by publishing again.
package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	applog "tgmenued/internal/log"
	"tgmenued/internal/menu"
)

// ErrNoDSN is returned when publishing is attempted without a
// configured backend connection string.
var ErrNoDSN = errors.New("backend: no dsn configured")

// Record describes one published config revision.
type Record struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// Publisher owns a Postgres connection used to push and read published
// configs.
type Publisher struct {
	db *sql.DB
}

// Connect opens the backend database and ensures the schema exists.
func Connect(ctx context.Context, dsn string) (*Publisher, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open backend db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping backend db: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Publisher{db: db}, nil
}

func (p *Publisher) Close() error {
	return p.db.Close()
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	// dialect=PostgreSQL
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS bot_menu_configs (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT NOT NULL,
		config JSONB NOT NULL,
		published_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("ensure bot_menu_configs: %w", err)
	}
	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_bot_menu_configs_name_id
		ON bot_menu_configs (name, id DESC)`)
	if err != nil {
		return fmt.Errorf("ensure bot_menu_configs index: %w", err)
	}
	return nil
}

// Publish appends a new revision of the named menu and returns its id.
func (p *Publisher) Publish(ctx context.Context, name string, cfg menu.Config) (int64, error) {
	log := applog.WithOperation(applog.WithComponent("backend"), "publish")
	doc, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("marshal config: %w", err)
	}
	var id int64
	err = p.db.QueryRowContext(ctx,
		`INSERT INTO bot_menu_configs (name, title, config) VALUES ($1, $2, $3) RETURNING id`,
		name, cfg.Title, doc).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert config: %w", err)
	}
	log.Info("published menu config", "name", name, "revision", id, "bytes", len(doc))
	return id, nil
}

// Latest returns the newest revision of the named menu.
func (p *Publisher) Latest(ctx context.Context, name string) (menu.Config, Record, error) {
	var (
		rec Record
		doc []byte
	)
	row := p.db.QueryRowContext(ctx,
		`SELECT id, name, title, config, published_at FROM bot_menu_configs
		 WHERE name = $1 ORDER BY id DESC LIMIT 1`, name)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Title, &doc, &rec.PublishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return menu.Config{}, Record{}, fmt.Errorf("menu %q: %w", name, err)
		}
		return menu.Config{}, Record{}, fmt.Errorf("select latest config: %w", err)
	}
	var cfg menu.Config
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return menu.Config{}, Record{}, fmt.Errorf("decode stored config: %w", err)
	}
	return cfg, rec, nil
}

// List returns the newest revision per menu name, newest first.
func (p *Publisher) List(ctx context.Context) ([]Record, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT DISTINCT ON (name) id, name, title, published_at
		 FROM bot_menu_configs ORDER BY name, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	defer rows.Close()
	var list []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Title, &r.PublishedAt); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
