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
	"os"
	"path/filepath"
	"testing"
)

type memTokens map[string]string

func (m memTokens) Get(service, key string) (string, error) { return m[service+"/"+key], nil }
func (m memTokens) Set(service, key, value string) error {
	m[service+"/"+key] = value
	return nil
}
func (m memTokens) Delete(service, key string) error {
	delete(m, service+"/"+key)
	return nil
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Cleanup(SetTokenStore(memTokens{}))
	return dir
}

func TestLoadDefaultsResolvesStoragePaths(t *testing.T) {
	dir := isolate(t)
	cfg, pwd, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if pwd != "" {
		t.Fatalf("unexpected password %q", pwd)
	}
	if cfg.Editor.MinSize != 10 || cfg.Editor.ResizeHandleSize != 6 || !cfg.Editor.Autosave {
		t.Fatalf("editor defaults wrong: %#v", cfg.Editor)
	}
	if got, want := cfg.Storage.SettingsFile, filepath.Join(dir, "widgets.json"); got != want {
		t.Fatalf("SettingsFile = %q, want %q", got, want)
	}
	if got, want := cfg.Storage.HistoryDB, filepath.Join(dir, "history.sqlite"); got != want {
		t.Fatalf("HistoryDB = %q, want %q", got, want)
	}
}

func TestSaveLoadRoundTripWithPassword(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Editor.SnapThreshold = 4
	cfg.Editor.Autosave = false
	cfg.Sync.DSN = "postgres://hud@localhost/hud"
	if err := Save(cfg, "s3cret"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, pwd, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pwd != "s3cret" {
		t.Fatalf("password = %q", pwd)
	}
	if got.Editor.SnapThreshold != 4 || got.Editor.Autosave || got.Sync.DSN != cfg.Sync.DSN {
		t.Fatalf("round trip mismatch: %#v", got)
	}
	if err := ForgetSyncPassword(); err != nil {
		t.Fatalf("ForgetSyncPassword: %v", err)
	}
	if _, pwd, _ = Load(); pwd != "" {
		t.Fatalf("password not removed: %q", pwd)
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("editor: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Editor.MinSize != 10 {
		t.Fatalf("defaults should still be returned, got %#v", cfg.Editor)
	}
}

func TestEnvOverridesEditor(t *testing.T) {
	isolate(t)
	t.Setenv(EnvMinSize, "12")
	t.Setenv(EnvHandleSize, "8")
	t.Setenv(EnvSnapThreshold, "not-a-number")
	t.Setenv(EnvTelemetryOptIn, "yes")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.MinSize != 12 || cfg.Editor.ResizeHandleSize != 8 {
		t.Fatalf("editor overrides not applied: %#v", cfg.Editor)
	}
	if cfg.Editor.SnapThreshold != 0 {
		t.Fatalf("invalid snap threshold should be ignored, got %d", cfg.Editor.SnapThreshold)
	}
	if !cfg.Telemetry.OptIn {
		t.Fatalf("Telemetry.OptIn expected true from env override")
	}
	if name, ok := EnvOverrideFor("editor.min_size"); !ok || name != EnvMinSize {
		t.Fatalf("EnvOverrideFor(editor.min_size) = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("sync.dsn"); ok {
		t.Fatalf("sync.dsn is not overridden")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = " DEBUG "
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/hud.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/hud.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestMergeKeepsDefaultsForZeroSizes(t *testing.T) {
	dst := Defaults()
	var src AppConfig
	src.Editor.Autosave = true
	mergeInto(&dst, &src)
	if dst.Editor.MinSize != 10 || dst.Editor.UndoDepth != 32 {
		t.Fatalf("zero values should not override defaults: %#v", dst.Editor)
	}
	if dst.Sync.Profile != "default" {
		t.Fatalf("profile = %q", dst.Sync.Profile)
	}
}
