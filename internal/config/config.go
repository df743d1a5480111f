/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config persists the user-editable editor settings to a YAML
// file in the user scope. Environment variables are read-only overrides
// at runtime; the backend DSN secret lives in the OS keychain, never on
// disk.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type GeneralConfig struct {
	Theme           string `yaml:"theme"` // "system" | "light" | "dark"
	AutosaveSeconds int    `yaml:"autosave_seconds"`
	SeedSampleGraph bool   `yaml:"seed_sample_graph"`
}

type EditorConfig struct {
	HistoryLimit    int  `yaml:"history_limit"`
	EnableDocuments bool `yaml:"enable_documents"`
}

type BackendConfig struct {
	// DSN may carry a full Postgres connection string; when empty the
	// secret from the OS keychain is used instead.
	DSN       string `yaml:"dsn"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the complete persisted configuration. config_version is
// bumped when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Editor        EditorConfig  `yaml:"editor"`
	Backend       BackendConfig `yaml:"backend"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system", AutosaveSeconds: 60, SeedSampleGraph: true},
		Editor:        EditorConfig{HistoryLimit: 30, EnableDocuments: true},
		Backend:       BackendConfig{TimeoutMs: 15000},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// fileConfig mirrors AppConfig for decoding the user YAML. Booleans are
// pointers so an omitted key can be told apart from an explicit false
// and does not clobber a true default.
type fileConfig struct {
	ConfigVersion int `yaml:"config_version"`
	General       struct {
		Theme           string `yaml:"theme"`
		AutosaveSeconds int    `yaml:"autosave_seconds"`
		SeedSampleGraph *bool  `yaml:"seed_sample_graph"`
	} `yaml:"general"`
	Editor struct {
		HistoryLimit    int   `yaml:"history_limit"`
		EnableDocuments *bool `yaml:"enable_documents"`
	} `yaml:"editor"`
	Backend BackendConfig `yaml:"backend"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Source *bool  `yaml:"source"`
		File   string `yaml:"file"`
	} `yaml:"logging"`
}

// Env var names used as overrides.
const (
	EnvBackendDSN       = "TME_BACKEND_DSN"
	EnvBackendTimeoutMs = "TME_BACKEND_TIMEOUT_MS"
	EnvHistoryLimit     = "TME_HISTORY_LIMIT"
	EnvEnableDocuments  = "TME_ENABLE_DOCUMENTS"
	EnvLogLevel         = "TME_LOG_LEVEL"
	EnvLogFormat        = "TME_LOG_FORMAT"
	EnvLogSource        = "TME_LOG_SOURCE"
	EnvLogFile          = "TME_LOG_FILE"
)

// Service/keys for the OS keyring.
const (
	keyringService = "TgMenuEd"
	keyringDSNKey  = "backend_dsn"
)

// tokenStore abstracts the keyring so tests can stub it.
var tokenStore TokenStore = &osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements TokenStore on the real OS keyring; the keyring
// functions are assigned in keyring_real.go or keyring_stub.go
// depending on the nokeyring build tag.
type osKeyring struct{}

func (k *osKeyring) Get(service, key string) (string, error) { return keyringGet(service, key) }
func (k *osKeyring) Set(service, key, value string) error    { return keyringSet(service, key, value) }
func (k *osKeyring) Delete(service, key string) error        { return keyringDelete(service, key) }

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "TgMenuEd")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "TgMenuEd")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "tgmenued")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and
// merges environment overrides. The backend DSN secret is read from the
// keyring and returned separately, never kept in the struct.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg fileConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	dsn, _ := tokenStore.Get(keyringService, keyringDSNKey)
	return cfg, dsn, nil
}

// Save writes the user config YAML and persists the DSN secret into the
// OS keyring (if non-empty).
func Save(cfg AppConfig, dsn string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if dsn != "" {
		if err := tokenStore.Set(keyringService, keyringDSNKey, dsn); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *fileConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if src.General.AutosaveSeconds != 0 {
		dst.General.AutosaveSeconds = src.General.AutosaveSeconds
	}
	// booleans apply only when the key is present in the file, so a
	// short config cannot silently flip a true default to false
	if src.General.SeedSampleGraph != nil {
		dst.General.SeedSampleGraph = *src.General.SeedSampleGraph
	}
	if src.Editor.HistoryLimit != 0 {
		dst.Editor.HistoryLimit = src.Editor.HistoryLimit
	}
	if src.Editor.EnableDocuments != nil {
		dst.Editor.EnableDocuments = *src.Editor.EnableDocuments
	}
	if src.Backend.DSN != "" {
		dst.Backend.DSN = src.Backend.DSN
	}
	if src.Backend.TimeoutMs != 0 {
		dst.Backend.TimeoutMs = src.Backend.TimeoutMs
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if src.Logging.Source != nil {
		dst.Logging.Source = *src.Logging.Source
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBackendDSN)); v != "" {
		cfg.Backend.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryLimit)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.HistoryLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnableDocuments)); v != "" {
		cfg.Editor.EnableDocuments = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// EnvOverrideFor returns the env var name if the field is overridden by
// environment variables, so the settings UI can mark it read-only.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "backend.dsn":
		env = EnvBackendDSN
	case "backend.timeout_ms":
		env = EnvBackendTimeoutMs
	case "editor.history_limit":
		env = EnvHistoryLimit
	case "editor.enable_documents":
		env = EnvEnableDocuments
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
