/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hudlayout/internal/domain"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.json")
	s := New(path)
	s.GetSized("inv", "sort", -30, 4, 24, 16)
	s.Get("fuel", "bar", 10, 10)
	s.Update("fuel", "bar", 12, -7)
	s.SetDisplayMode("inv", "sort", domain.DisplayNameAndIcon)
	s.SetEnabled("fuel", "bar", false)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("Save should clear dirty")
	}

	loaded, status := Open(path)
	if status != LoadOK {
		t.Fatalf("status = %v", status)
	}
	want := s.Snapshot()
	got := loaded.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for k, v := range want {
		if !got[k].Equal(v) {
			t.Fatalf("%s: got %v, want %v", k, got[k], v)
		}
	}
}

func TestSavedDocumentMatchesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.json")
	s := New(path)
	s.Get("mod", "w", 1, 2)
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(Schema()), gojsonschema.NewBytesLoader(data))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.Valid() {
		t.Fatalf("saved document invalid: %v", res.Errors())
	}
}

func TestLoadMissingFileIsFresh(t *testing.T) {
	s, status := Open(filepath.Join(t.TempDir(), "nope.json"))
	if status != LoadFresh || len(s.Modules()) != 0 {
		t.Fatalf("status = %v, modules = %v", status, s.Modules())
	}
}

func TestLoadCorruptFileWithoutBackupsIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, status := Open(path)
	if status != LoadDiscarded {
		t.Fatalf("status = %v", status)
	}
	ws := s.Get("mod", "w", 3, 4)
	if ws.OffsetX != 3 || ws.OffsetY != 4 {
		t.Fatalf("defaults not used after corrupt load: %v", ws)
	}
}

func TestLoadFallsBackToNewestValidBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgets.json")
	bdir := filepath.Join(dir, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(bdir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("widgets.json.20240101-000000.bak", `{"version":1,"modules":{"m":{"w":{"offsetX":1}}}}`)
	write("widgets.json.20240102-000000.bak", `{"version":1,"modules":{"m":{"w":{"offsetX":2}}}}`)
	// newest is broken and must be skipped
	write("widgets.json.20240103-000000.bak", `{"modules":{"m":{"w":{"offsetX":"two"}}}}`)
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, status := Open(path)
	if status != LoadFromBackup {
		t.Fatalf("status = %v", status)
	}
	got, ok := s.Lookup("m", "w")
	if !ok || got.OffsetX != 2 {
		t.Fatalf("restored %v ok=%v", got, ok)
	}
	if !s.Dirty() {
		t.Fatalf("restored store should be dirty so the main file gets rewritten")
	}
}

func TestLoadIgnoresUnknownKeysAndFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.json")
	doc := `{"version":1,"theme":"dark","modules":{"inv":{"sort":{"offsetY":9,"glow":true}}}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, status := Open(path)
	if status != LoadOK {
		t.Fatalf("status = %v", status)
	}
	ws := s.GetSized("inv", "sort", 40, 0, 32, 12)
	if ws.OffsetX != 40 || ws.OffsetY != 9 || ws.Width != 32 || ws.Height != 12 || !ws.Enabled {
		t.Fatalf("lazy fill failed: %v", ws)
	}
	if !s.Dirty() {
		t.Fatalf("filled record should mark the store dirty")
	}
}

func TestSaveKeepsNewestBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgets.json")
	bdir := filepath.Join(dir, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 7; i++ {
		name := fmt.Sprintf("widgets.json.2020010%d-000000.bak", i)
		if err := os.WriteFile(filepath.Join(bdir, name), []byte(`{}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s := New(path)
	s.Get("m", "w", 0, 0)
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	// second save backs up the first one and prunes
	s.Update("m", "w", 5, 5)
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	backups := s.Backups()
	if len(backups) != DefaultKeepBackups {
		t.Fatalf("kept %d backups: %v", len(backups), backups)
	}
	if strings.Contains(backups[len(backups)-1], "20200101") {
		t.Fatalf("oldest backup should have been pruned: %v", backups)
	}
	data, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil || doc["modules"] == nil {
		t.Fatalf("newest backup should hold the previous manifest: %s", data)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New("").Save(); err != ErrNoPath {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateRejectsWrongTypes(t *testing.T) {
	if err := Validate([]byte(`{"modules":{"m":{"w":{"width":"wide"}}}}`)); err == nil {
		t.Fatalf("expected schema error")
	}
	if err := Validate([]byte(`{"modules":{}}`)); err != nil {
		t.Fatalf("empty modules should validate: %v", err)
	}
}

func TestRepeatedSavesBackUpOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.json")
	before := `{"version":1,"modules":{"m":{"w":{"offsetX":1}}}}`
	if err := os.WriteFile(path, []byte(before), 0o644); err != nil {
		t.Fatal(err)
	}
	s, status := Open(path)
	if status != LoadOK {
		t.Fatalf("status = %v", status)
	}
	for i := 2; i <= 8; i++ {
		s.Update("m", "w", i, 0)
		if err := s.Save(); err != nil {
			t.Fatal(err)
		}
	}
	backups := s.Backups()
	if len(backups) != 1 {
		t.Fatalf("want one backup per session, got %v", backups)
	}
	data, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != before {
		t.Fatalf("backup should hold the file found on disk, got %s", data)
	}
}
