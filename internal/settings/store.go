/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package settings persists per-module, per-widget layout records.
//
// Records are created with module-supplied defaults on first access and
// mutated in place afterwards, so every caller asking for the same key
// shares one *domain.WidgetSettings.
package settings

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"hudlayout/internal/domain"
	applog "hudlayout/internal/log"
)

// ErrNoPath is returned by Save on a store without a backing file.
var ErrNoPath = errors.New("settings: store has no file path")

// DefaultKeepBackups is how many timestamped backups Save retains.
const DefaultKeepBackups = 5

// Store is the in-memory layout store with JSON persistence.
type Store struct {
	mu          sync.Mutex
	path        string
	modules     map[string]map[string]*domain.WidgetSettings
	defaults    map[domain.Key]domain.WidgetSettings
	dirty       bool
	keepBackups int
	log         *slog.Logger

	// backedUp is set once this store copied the file it found on disk;
	// later saves in the same session do not rotate backups.
	backedUp bool
}

// New returns an empty store persisted at path. An empty path gives a
// memory-only store.
func New(path string) *Store {
	return &Store{
		path:        path,
		modules:     map[string]map[string]*domain.WidgetSettings{},
		defaults:    map[domain.Key]domain.WidgetSettings{},
		keepBackups: DefaultKeepBackups,
		log:         applog.WithComponent("settings"),
	}
}

// Open creates a store for path and loads it.
func Open(path string) (*Store, LoadStatus) {
	s := New(path)
	return s, s.Load()
}

func (s *Store) Path() string { return s.path }

// SetKeepBackups changes backup retention; values below 1 keep one.
func (s *Store) SetKeepBackups(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	s.keepBackups = n
}

// Get returns the record for (moduleID, widgetID), creating it with the
// given default offset and the default 20x20 size on first access.
func (s *Store) Get(moduleID, widgetID string, offX, offY int) *domain.WidgetSettings {
	return s.GetSized(moduleID, widgetID, offX, offY, domain.DefaultWidth, domain.DefaultHeight)
}

// GetSized is Get with module-declared default size.
func (s *Store) GetSized(moduleID, widgetID string, offX, offY, w, h int) *domain.WidgetSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	def := *domain.NewWidgetSettings(offX, offY, w, h)
	key := domain.Key{Module: moduleID, Widget: widgetID}
	s.defaults[key] = def

	if ws := s.lookup(key); ws != nil {
		if ws.FillMissing(def) {
			s.dirty = true
		}
		return ws
	}
	ws := def
	s.put(key, &ws)
	s.dirty = true
	s.log.Debug("widget settings created", slog.String("key", key.String()), slog.String("settings", ws.String()))
	return &ws
}

// Lookup returns the record without creating one.
func (s *Store) Lookup(moduleID, widgetID string) (domain.WidgetSettings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.lookup(domain.Key{Module: moduleID, Widget: widgetID})
	if ws == nil {
		return domain.WidgetSettings{}, false
	}
	return ws.Values(), true
}

// Defaults returns the module-declared defaults remembered from the last Get.
func (s *Store) Defaults(moduleID, widgetID string) (domain.WidgetSettings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.defaults[domain.Key{Module: moduleID, Widget: widgetID}]
	return d, ok
}

// Update sets the anchor-relative offset. The store only becomes dirty when
// the value actually changes.
func (s *Store) Update(moduleID, widgetID string, offX, offY int) {
	s.mutate(moduleID, widgetID, func(ws *domain.WidgetSettings) bool {
		if ws.OffsetX == offX && ws.OffsetY == offY {
			return false
		}
		ws.OffsetX, ws.OffsetY = offX, offY
		return true
	})
}

// UpdateSize sets width and height, clamped to domain.MinSize.
func (s *Store) UpdateSize(moduleID, widgetID string, w, h int) {
	w, h = domain.ClampSize(w), domain.ClampSize(h)
	s.mutate(moduleID, widgetID, func(ws *domain.WidgetSettings) bool {
		if ws.Width == w && ws.Height == h {
			return false
		}
		ws.Width, ws.Height = w, h
		return true
	})
}

func (s *Store) SetEnabled(moduleID, widgetID string, enabled bool) {
	s.mutate(moduleID, widgetID, func(ws *domain.WidgetSettings) bool {
		if ws.Enabled == enabled {
			return false
		}
		ws.Enabled = enabled
		return true
	})
}

func (s *Store) SetDisplayMode(moduleID, widgetID string, mode domain.DisplayMode) {
	s.mutate(moduleID, widgetID, func(ws *domain.WidgetSettings) bool {
		if ws.DisplayMode == mode {
			return false
		}
		ws.DisplayMode = mode
		return true
	})
}

// Put replaces every field of a record, creating it if needed.
func (s *Store) Put(moduleID, widgetID string, v domain.WidgetSettings) {
	v = v.Values()
	v.Width, v.Height = domain.ClampSize(v.Width), domain.ClampSize(v.Height)
	s.mutate(moduleID, widgetID, func(ws *domain.WidgetSettings) bool {
		if ws.Equal(v) && !ws.Incomplete() {
			return false
		}
		*ws = v
		return true
	})
}

// mutate applies fn to the record, creating it from remembered defaults
// (or package defaults) when absent.
func (s *Store) mutate(moduleID, widgetID string, fn func(*domain.WidgetSettings) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.Key{Module: moduleID, Widget: widgetID}
	ws := s.lookup(key)
	created := false
	if ws == nil {
		def, ok := s.defaults[key]
		if !ok {
			def = *domain.NewWidgetSettings(0, 0, domain.DefaultWidth, domain.DefaultHeight)
		}
		ws = &def
		s.put(key, ws)
		created = true
	}
	if fn(ws) || created {
		s.dirty = true
	}
}

// ResetWidget restores the module defaults in place. Without known
// defaults the record is dropped and recreated by the next Get.
func (s *Store) ResetWidget(moduleID, widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(domain.Key{Module: moduleID, Widget: widgetID})
}

// ResetModule resets every widget of a module.
func (s *Store) ResetModule(moduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for widgetID := range s.modules[moduleID] {
		s.resetLocked(domain.Key{Module: moduleID, Widget: widgetID})
	}
}

func (s *Store) resetLocked(key domain.Key) {
	ws := s.lookup(key)
	if ws == nil {
		return
	}
	if def, ok := s.defaults[key]; ok {
		if ws.Equal(def) && !ws.Incomplete() {
			return
		}
		*ws = def
	} else {
		delete(s.modules[key.Module], key.Widget)
		if len(s.modules[key.Module]) == 0 {
			delete(s.modules, key.Module)
		}
	}
	s.dirty = true
	s.log.Info("widget reset", slog.String("key", key.String()))
}

// ResetAll destroys every record.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.modules) == 0 {
		return
	}
	s.modules = map[string]map[string]*domain.WidgetSettings{}
	s.dirty = true
	s.log.Info("all widget settings reset")
}

// Dirty reports unsaved changes.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Modules lists module ids with at least one record, sorted.
func (s *Store) Modules() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.modules))
	for m := range s.modules {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Widgets lists the widget ids of a module, sorted.
func (s *Store) Widgets(moduleID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.modules[moduleID]))
	for w := range s.modules[moduleID] {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Snapshot copies every record.
func (s *Store) Snapshot() map[domain.Key]domain.WidgetSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Key]domain.WidgetSettings)
	for m, ws := range s.modules {
		for w, v := range ws {
			out[domain.Key{Module: m, Widget: w}] = v.Values()
		}
	}
	return out
}

func (s *Store) lookup(key domain.Key) *domain.WidgetSettings {
	if mod, ok := s.modules[key.Module]; ok {
		return mod[key.Widget]
	}
	return nil
}

func (s *Store) put(key domain.Key, ws *domain.WidgetSettings) {
	mod, ok := s.modules[key.Module]
	if !ok {
		mod = map[string]*domain.WidgetSettings{}
		s.modules[key.Module] = mod
	}
	mod[key.Widget] = ws
}
