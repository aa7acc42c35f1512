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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.
type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	Editor        EditorConfig    `yaml:"editor"`
	Storage       StorageConfig   `yaml:"storage"`
	Sync          SyncConfig      `yaml:"sync"`
	Logging       LoggingConfig   `yaml:"logging"`
	Telemetry     TelemetryConfig `yaml:"telemetry"`
}

type EditorConfig struct {
	MinSize          int  `yaml:"min_size"`
	ResizeHandleSize int  `yaml:"resize_handle_size"`
	SnapThreshold    int  `yaml:"snap_threshold"` // 0 disables snapping
	Autosave         bool `yaml:"autosave"`
	UndoDepth        int  `yaml:"undo_depth"`
}

// StorageConfig paths; empty means "next to config.yaml".
type StorageConfig struct {
	SettingsFile string `yaml:"settings_file"`
	HistoryDB    string `yaml:"history_db"`
}

type SyncConfig struct {
	DSN     string `yaml:"dsn"`
	Profile string `yaml:"profile"`
	// Password is not stored on disk; it lives in the OS keychain.
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type TelemetryConfig struct {
	OptIn bool   `yaml:"opt_in"`
	URL   string `yaml:"url"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor:        EditorConfig{MinSize: 10, ResizeHandleSize: 6, SnapThreshold: 0, Autosave: true, UndoDepth: 32},
		Sync:          SyncConfig{Profile: "default"},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvSettingsFile   = "HUD_SETTINGS_FILE"
	EnvHistoryDB      = "HUD_HISTORY_DB"
	EnvMinSize        = "HUD_MIN_SIZE"
	EnvHandleSize     = "HUD_HANDLE_SIZE"
	EnvSnapThreshold  = "HUD_SNAP_THRESHOLD"
	EnvSyncDSN        = "HUD_SYNC_DSN"
	EnvSyncProfile    = "HUD_SYNC_PROFILE"
	EnvTelemetryOptIn = "HUD_TELEMETRY_OPT_IN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "HUD_LOG_LEVEL"
	EnvLogFormat = "HUD_LOG_FORMAT"
	EnvLogSource = "HUD_LOG_SOURCE"
	EnvLogFile   = "HUD_LOG_FILE"
	// EnvConfigDir relocates the whole per-user directory (tests, portable installs).
	EnvConfigDir = "HUD_CONFIG_DIR"
)

// Service/keys for OS keyring.
const (
	keyringService = "HudLayout"
	keyringSyncPwd = "sync_password"
)

// ConfigDir returns the per-user configuration directory.
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigDir)); v != "" {
		return v, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "HudLayout")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "HudLayout")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "hudlayout")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".config", "hudlayout")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, merges
// environment overrides and resolves empty storage paths.
// The sync password is loaded from the keyring and returned separately.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, "", fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	resolvePaths(&cfg, filepath.Dir(path))
	pwd, _ := tokenStore.Get(keyringService, keyringSyncPwd)
	return cfg, pwd, nil
}

// Save writes the user config YAML and persists the sync password into the OS keyring (if non-empty).
func Save(cfg AppConfig, password string) error {
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
	if password != "" {
		if err := tokenStore.Set(keyringService, keyringSyncPwd, password); err != nil {
			return fmt.Errorf("store sync password: %w", err)
		}
	}
	return nil
}

func resolvePaths(cfg *AppConfig, dir string) {
	if cfg.Storage.SettingsFile == "" {
		cfg.Storage.SettingsFile = filepath.Join(dir, "widgets.json")
	}
	if cfg.Storage.HistoryDB == "" {
		cfg.Storage.HistoryDB = filepath.Join(dir, "history.sqlite")
	}
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// editor: zero means "not set" for the sizes
	if src.Editor.MinSize > 0 {
		dst.Editor.MinSize = src.Editor.MinSize
	}
	if src.Editor.ResizeHandleSize > 0 {
		dst.Editor.ResizeHandleSize = src.Editor.ResizeHandleSize
	}
	if src.Editor.SnapThreshold > 0 {
		dst.Editor.SnapThreshold = src.Editor.SnapThreshold
	}
	if src.Editor.UndoDepth > 0 {
		dst.Editor.UndoDepth = src.Editor.UndoDepth
	}
	dst.Editor.Autosave = src.Editor.Autosave
	if strings.TrimSpace(src.Storage.SettingsFile) != "" {
		dst.Storage.SettingsFile = strings.TrimSpace(src.Storage.SettingsFile)
	}
	if strings.TrimSpace(src.Storage.HistoryDB) != "" {
		dst.Storage.HistoryDB = strings.TrimSpace(src.Storage.HistoryDB)
	}
	if strings.TrimSpace(src.Sync.DSN) != "" {
		dst.Sync.DSN = strings.TrimSpace(src.Sync.DSN)
	}
	if strings.TrimSpace(src.Sync.Profile) != "" {
		dst.Sync.Profile = strings.TrimSpace(src.Sync.Profile)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	dst.Telemetry.OptIn = src.Telemetry.OptIn
	if strings.TrimSpace(src.Telemetry.URL) != "" {
		dst.Telemetry.URL = strings.TrimSpace(src.Telemetry.URL)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvSettingsFile)); v != "" {
		cfg.Storage.SettingsFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryDB)); v != "" {
		cfg.Storage.HistoryDB = v
	}
	if n, ok := envInt(EnvMinSize); ok && n > 0 {
		cfg.Editor.MinSize = n
	}
	if n, ok := envInt(EnvHandleSize); ok && n > 0 {
		cfg.Editor.ResizeHandleSize = n
	}
	if n, ok := envInt(EnvSnapThreshold); ok && n >= 0 {
		cfg.Editor.SnapThreshold = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvSyncDSN)); v != "" {
		cfg.Sync.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSyncProfile)); v != "" {
		cfg.Sync.Profile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.Telemetry.OptIn = truthy(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func truthy(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

var envKeys = map[string]string{
	"storage.settings_file":     EnvSettingsFile,
	"storage.history_db":        EnvHistoryDB,
	"editor.min_size":           EnvMinSize,
	"editor.resize_handle_size": EnvHandleSize,
	"editor.snap_threshold":     EnvSnapThreshold,
	"sync.dsn":                  EnvSyncDSN,
	"sync.profile":              EnvSyncProfile,
	"telemetry.opt_in":          EnvTelemetryOptIn,
	"logging.level":             EnvLogLevel,
	"logging.format":            EnvLogFormat,
	"logging.source":            EnvLogSource,
	"logging.file":              EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}
