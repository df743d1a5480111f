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
	"net/http"
	"net/http/httptest"
	"testing"

	"tgmenued/internal/menu"
)

func TestClientGetMenu(t *testing.T) {
	srv := httptest.NewServer(requireToken("sekrit", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/menus/support" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, MenuEnvelope{
			Name:        "support",
			Revision:    7,
			PublishedAt: "2026-01-02T03:04:05Z",
			Config:      menu.Config{Title: "Support Bot", MainMenu: []menu.MenuItem{}, FAQ: []menu.FaqItem{}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "sekrit")
	env, err := c.GetMenu(context.Background(), "support")
	if err != nil {
		t.Fatalf("get menu: %v", err)
	}
	if env.Revision != 7 || env.Config.Title != "Support Bot" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestClientRejectedWithoutToken(t *testing.T) {
	srv := httptest.NewServer(requireToken("sekrit", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Record{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.ListMenus(context.Background()); err == nil {
		t.Fatalf("expected auth error without token")
	}
}

func TestRequireTokenPassThroughWhenDisabled(t *testing.T) {
	called := false
	h := requireToken("", func(w http.ResponseWriter, r *http.Request) { called = true })
	req := httptest.NewRequest(http.MethodGet, "/api/menus", nil)
	h(httptest.NewRecorder(), req)
	if !called {
		t.Fatalf("handler not invoked when auth disabled")
	}
}
