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
	"strings"
	"time"

	"tgmenued/internal/menu"
)

// Client is a minimal HTTP client for the published-menu API. The
// editor uses it to verify what bot runtimes will actually see.
type Client struct {
	BaseURL string
	Token   string // bearer token, empty when the server runs open
	client  *http.Client
}

// NewClient creates a backend client. baseURL may include a trailing
// slash; it will be normalized.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server GET %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// ListMenus returns the newest published revision per menu name.
func (c *Client) ListMenus(ctx context.Context) ([]Record, error) {
	var list []Record
	if err := c.doJSON(ctx, "/api/menus", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MenuEnvelope matches the server response for the latest revision of
// a named menu.
type MenuEnvelope struct {
	Name        string      `json:"name"`
	Revision    int64       `json:"revision"`
	PublishedAt string      `json:"published_at"`
	Config      menu.Config `json:"config"`
}

// GetMenu fetches the latest published config for a menu name.
func (c *Client) GetMenu(ctx context.Context, name string) (*MenuEnvelope, error) {
	var env MenuEnvelope
	if err := c.doJSON(ctx, "/api/menus/"+name, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
