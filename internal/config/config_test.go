/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// fileCfgFromYAML decodes a config file body the way Load does.
func fileCfgFromYAML(t *testing.T, body string) *fileConfig {
	t.Helper()
	var src fileConfig
	if err := yaml.Unmarshal([]byte(body), &src); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &src
}

// memStore keeps the keyring out of tests.
type memStore struct{ m map[string]string }

func (s *memStore) Get(service, key string) (string, error) {
	v, ok := s.m[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (s *memStore) Set(service, key, value string) error {
	s.m[service+"/"+key] = value
	return nil
}
func (s *memStore) Delete(service, key string) error {
	delete(s.m, service+"/"+key)
	return nil
}

func useMemStore(t *testing.T) *memStore {
	t.Helper()
	old := tokenStore
	ms := &memStore{m: map[string]string{}}
	tokenStore = ms
	t.Cleanup(func() { tokenStore = old })
	return ms
}

func TestEnvOverridesBackendDSN(t *testing.T) {
	useMemStore(t)
	old := os.Getenv(EnvBackendDSN)
	_ = os.Setenv(EnvBackendDSN, "postgres://bot@db.test/menus")
	t.Cleanup(func() { _ = os.Setenv(EnvBackendDSN, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Backend.DSN, "postgres://bot@db.test/menus"; got != want {
		t.Fatalf("Backend.DSN = %q, want %q", got, want)
	}
}

func TestEnvOverridesEditor(t *testing.T) {
	useMemStore(t)
	t.Setenv(EnvHistoryLimit, "50")
	t.Setenv(EnvEnableDocuments, "false")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.HistoryLimit != 50 {
		t.Fatalf("Editor.HistoryLimit = %d, want 50", cfg.Editor.HistoryLimit)
	}
	if cfg.Editor.EnableDocuments {
		t.Fatalf("Editor.EnableDocuments expected false from env override")
	}
}

func TestMergeIncludesEditor(t *testing.T) {
	// Given a file config that changes the editor section, mergeInto
	// should carry it through, including an explicit false.
	dst := Defaults()
	src := fileCfgFromYAML(t, "editor:\n  history_limit: 99\n  enable_documents: false\n")
	mergeInto(&dst, src)
	if dst.Editor.HistoryLimit != 99 {
		t.Fatalf("HistoryLimit was not merged from file config")
	}
	if dst.Editor.EnableDocuments {
		t.Fatalf("EnableDocuments was not merged from file config")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := fileCfgFromYAML(t, "logging:\n  level: debug\n  format: json\n  source: true\n  file: C:/tmp/tme.log\n")
	mergeInto(&dst, src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/tme.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestMergePartialFileKeepsBoolDefaults(t *testing.T) {
	// A file carrying only a logging section must not flip the true
	// defaults of the omitted sections.
	dst := Defaults()
	src := fileCfgFromYAML(t, "logging:\n  level: debug\n")
	mergeInto(&dst, src)
	if !dst.Editor.EnableDocuments {
		t.Fatalf("EnableDocuments default flipped by file without editor section")
	}
	if !dst.General.SeedSampleGraph {
		t.Fatalf("SeedSampleGraph default flipped by file without general section")
	}
	if dst.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", dst.Logging.Level)
	}
}

func TestLoadPartialConfigFile(t *testing.T) {
	useMemStore(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "tgmenued")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("logging:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Editor.EnableDocuments {
		t.Fatalf("Editor.EnableDocuments = false after loading partial config")
	}
	if !cfg.General.SeedSampleGraph {
		t.Fatalf("General.SeedSampleGraph = false after loading partial config")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	useMemStore(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/tme.log")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/tme.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	t.Setenv(EnvBackendDSN, "postgres://x")
	if env, ok := EnvOverrideFor("backend.dsn"); !ok || env != EnvBackendDSN {
		t.Fatalf("EnvOverrideFor(backend.dsn) = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("nonsense.key"); ok {
		t.Fatalf("unknown key reported as overridden")
	}
}
