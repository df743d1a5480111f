/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	applog "tgmenued/internal/log"
	"tgmenued/internal/version"
)

// ServerConfig holds serve-mode configuration.
type ServerConfig struct {
	DBURL string
	Addr  string // http bind address, e.g., ":8080"
	Token string // optional static bearer token; empty disables auth
}

func loadServerConfig() ServerConfig {
	cfg := ServerConfig{
		DBURL: os.Getenv("DATABASE_URL"),
		Addr:  ":8080",
		Token: os.Getenv("TME_API_TOKEN"),
	}
	if v := os.Getenv("TME_PG_DSN"); v != "" {
		cfg.DBURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	return cfg
}

// Serve runs the read-only HTTP API bot runtimes poll for their menu
// config. It blocks until the listener fails.
func Serve() error {
	cfg := loadServerConfig()
	log := applog.WithComponent("backend")
	if cfg.DBURL == "" {
		return ErrNoDSN
	}
	if cfg.Token == "" {
		log.Warn("TME_API_TOKEN not set; serving without auth")
	}

	pub, err := Connect(context.Background(), cfg.DBURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("db close", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pub.db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(version.String()))
	})

	mux.HandleFunc("/api/menus", requireToken(cfg.Token, func(w http.ResponseWriter, r *http.Request) {
		list, err := pub.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if list == nil {
			list = []Record{}
		}
		writeJSON(w, http.StatusOK, list)
	}))

	mux.HandleFunc("/api/menus/", requireToken(cfg.Token, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/api/menus/")
		if name == "" || strings.Contains(name, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		menuCfg, rec, err := pub.Latest(r.Context(), name)
		if err != nil {
			writeError(w, http.StatusNotFound, fmt.Errorf("menu %q not found", name))
			return
		}
		writeJSON(w, http.StatusOK, MenuEnvelope{
			Name:        rec.Name,
			Revision:    rec.ID,
			PublishedAt: rec.PublishedAt.UTC().Format(time.RFC3339),
			Config:      menuCfg,
		})
	}))

	log.Info("backend listening", "addr", cfg.Addr)
	return http.ListenAndServe(cfg.Addr, mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func requireToken(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("missing or invalid bearer token"))
			return
		}
		next(w, r)
	}
}
