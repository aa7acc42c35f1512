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
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"hudlayout/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

// BackupsDirName is the folder next to the settings file holding backups.
const BackupsDirName = "backups"

const fileVersion = 1

//go:embed schema.json
var schemaJSON []byte

// LoadStatus tells where Load got its data from.
type LoadStatus int

const (
	// LoadFresh: no file and no backups; the store starts empty.
	LoadFresh LoadStatus = iota
	LoadOK
	LoadFromBackup
	// LoadDiscarded: files existed but none was usable; the store starts empty.
	LoadDiscarded
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadFromBackup:
		return "backup"
	case LoadDiscarded:
		return "discarded"
	default:
		return "fresh"
	}
}

type fileDoc struct {
	Version int                                           `json:"version"`
	Modules map[string]map[string]*domain.WidgetSettings `json:"modules"`
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// Schema returns the embedded JSON schema of the settings file.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

// Validate checks a settings document against the embedded schema.
func Validate(data []byte) error {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	if schemaErr != nil {
		return fmt.Errorf("compile schema: %w", schemaErr)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid settings document: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Decode validates and parses a settings document.
func Decode(data []byte) (map[string]map[string]*domain.WidgetSettings, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	mods := map[string]map[string]*domain.WidgetSettings{}
	for m, ws := range doc.Modules {
		for w, v := range ws {
			if v == nil {
				continue
			}
			if mods[m] == nil {
				mods[m] = map[string]*domain.WidgetSettings{}
			}
			mods[m][w] = v
		}
	}
	return mods, nil
}

// Encode renders the store contents as an indented document.
func (s *Store) Encode() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encodeLocked()
}

func (s *Store) encodeLocked() ([]byte, error) {
	data, err := json.MarshalIndent(fileDoc{Version: fileVersion, Modules: s.modules}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return append(data, '\n'), nil
}

// Load replaces the store contents from disk. A missing or corrupt file
// never fails: the newest valid backup is used instead, and with none the
// store starts empty.
func (s *Store) Load() LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules = map[string]map[string]*domain.WidgetSettings{}
	s.dirty = false
	if s.path == "" {
		return LoadFresh
	}

	seen := false
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		seen = true
		mods, derr := Decode(data)
		if derr == nil {
			s.adopt(mods)
			s.log.Debug("settings loaded", slog.String("path", s.path), slog.Int("modules", len(mods)))
			return LoadOK
		}
		s.log.Warn("settings file unusable, trying backups", slog.String("path", s.path), slog.String("err", derr.Error()))
	case !errors.Is(err, os.ErrNotExist):
		seen = true
		s.log.Warn("settings file unreadable, trying backups", slog.String("path", s.path), slog.String("err", err.Error()))
	}

	for _, b := range s.backupsLocked(true) {
		seen = true
		bdata, err := os.ReadFile(b)
		if err != nil {
			continue
		}
		mods, err := Decode(bdata)
		if err != nil {
			s.log.Debug("backup unusable", slog.String("path", b), slog.String("err", err.Error()))
			continue
		}
		s.adopt(mods)
		// rewrite the main file on the next autosave
		s.dirty = true
		s.log.Info("settings restored from backup", slog.String("path", b))
		return LoadFromBackup
	}
	if seen {
		s.log.Warn("no usable settings found, starting empty", slog.String("path", s.path))
		return LoadDiscarded
	}
	return LoadFresh
}

func (s *Store) adopt(mods map[string]map[string]*domain.WidgetSettings) {
	s.modules = mods
	// defaults remembered from earlier Get calls still apply to reloaded records
	for key, def := range s.defaults {
		if ws := s.lookup(key); ws != nil {
			ws.FillMissing(def)
		}
	}
}

// Save writes the whole store transactionally. The first save that finds a
// valid file on disk keeps a timestamped copy of it; later saves from the
// same store do not, so frequent autosaves cannot rotate older backups out.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return ErrNoPath
	}
	data, err := s.encodeLocked()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure settings dir: %w", err)
	}
	if err := s.backupCurrentLocked(); err != nil {
		return err
	}

	temp := filepath.Join(filepath.Dir(s.path), fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(s.path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		return fmt.Errorf("write temp settings: %w", err)
	}
	if err := os.Rename(temp, s.path); err != nil {
		// windows refuses to rename over an existing file
		_ = os.Remove(s.path)
		if rerr := os.Rename(temp, s.path); rerr != nil {
			_ = os.Remove(temp)
			return fmt.Errorf("replace settings: %w", rerr)
		}
	}
	s.dirty = false
	s.log.Debug("settings saved", slog.String("path", s.path))
	return nil
}

// SaveIfDirty saves only when there are unsaved changes.
func (s *Store) SaveIfDirty() error {
	if !s.Dirty() {
		return nil
	}
	return s.Save()
}

func (s *Store) backupCurrentLocked() error {
	if s.backedUp {
		return nil
	}
	cur, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	if Validate(cur) != nil {
		// do not rotate a good backup out for a corrupt file
		return nil
	}
	bdir := filepath.Join(filepath.Dir(s.path), BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(s.path), stamp))
	if err := copyFile(s.path, bpath); err != nil {
		return fmt.Errorf("backup current settings: %w", err)
	}
	s.backedUp = true
	old := s.backupsLocked(false)
	if extra := len(old) - s.keepBackups; extra > 0 {
		for _, p := range old[:extra] {
			_ = os.Remove(p)
		}
	}
	return nil
}

// backupsLocked lists backup files oldest first, or newest first when
// newestFirst is set. The timestamp in the name sorts lexicographically.
func (s *Store) backupsLocked(newestFirst bool) []string {
	bdir := filepath.Join(filepath.Dir(s.path), BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil
	}
	prefix := filepath.Base(s.path) + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	sort.Strings(out)
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Backups lists backup files, newest first.
func (s *Store) Backups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	return s.backupsLocked(true)
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sf.Close()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
