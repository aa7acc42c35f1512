/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package demo

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"hudlayout/internal/editor"
	"hudlayout/internal/geom"
	"hudlayout/internal/settings"
)

func newManager() *editor.Manager {
	return editor.NewManager(editor.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func find(t *testing.T, s *Screen, module, id string) editor.Widget {
	t.Helper()
	for _, w := range s.Widgets() {
		if k := w.(element).Key(); k.Module == module && k.Widget == id {
			return w
		}
	}
	t.Fatalf("widget %s/%s not registered", module, id)
	return nil
}

func TestOpenPlacesWidgetsFromAnchors(t *testing.T) {
	m := newManager()
	s, err := Open(m, settings.New(""), "inventory", 480, 270)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Panel(); got != geom.R(152, 52, 176, 166) {
		t.Fatalf("panel = %+v", got)
	}
	sortBtn := find(t, s, "inventory", "sort")
	if got := editor.Bounds(sortBtn); got != geom.R(330, 56, 20, 16) {
		t.Fatalf("sort bounds = %+v", got)
	}
	if len(m.RegisteredWidgets()) != 3 {
		t.Fatalf("registered = %d", len(m.RegisteredWidgets()))
	}
}

func TestUnknownScreen(t *testing.T) {
	if _, err := Open(newManager(), settings.New(""), "nope", 0, 0); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDragPersistsAcrossReopenAndResize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.json")
	store := settings.New(path)
	m := newManager()
	if _, err := Open(m, store, "inventory", 480, 270); err != nil {
		t.Fatal(err)
	}
	m.SetActive(true)
	m.OnFrame(0, 0, false)
	m.OnFrame(335, 60, true)
	m.OnFrame(345, 70, true)
	m.OnFrame(345, 70, false)

	ws, ok := store.Lookup("inventory", "sort")
	if !ok || ws.OffsetX != 12 || ws.OffsetY != 14 {
		t.Fatalf("stored = %+v", ws)
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, status := settings.Open(path)
	if status != settings.LoadOK {
		t.Fatalf("status = %v", status)
	}
	m2 := newManager()
	s2, err := Open(m2, reloaded, "inventory", 480, 270)
	if err != nil {
		t.Fatal(err)
	}
	sortBtn := find(t, s2, "inventory", "sort")
	if sortBtn.X() != 340 || sortBtn.Y() != 66 {
		t.Fatalf("reopened at %d,%d", sortBtn.X(), sortBtn.Y())
	}

	s2.Resize(640, 360)
	if sortBtn.X() != 232+176+12 || sortBtn.Y() != 97+14 {
		t.Fatalf("after resize at %d,%d", sortBtn.X(), sortBtn.Y())
	}
	if m2.Screen().Info().Width != 640 {
		t.Fatalf("screen info not resized")
	}
}

func TestClickRoutingHonorsEditorMode(t *testing.T) {
	m := newManager()
	s, _ := Open(m, settings.New(""), "inventory", 480, 270)

	if !s.Click(335, 60) || len(s.Events) != 1 || s.Events[0] != "inventory.sort" {
		t.Fatalf("events = %v", s.Events)
	}

	if !s.Click(465, 8) || !m.Active() {
		t.Fatalf("toggle should enter editor mode")
	}
	if s.Click(335, 60) || len(s.Events) != 1 {
		t.Fatalf("module click must be suppressed in editor mode: %v", s.Events)
	}
	if !s.Click(465, 8) || m.Active() {
		t.Fatalf("toggle should leave editor mode")
	}
}

func TestTypingIntoFocusedField(t *testing.T) {
	m := newManager()
	s, _ := Open(m, settings.New(""), "inventory", 480, 270)
	if s.TypeRune('x') {
		t.Fatalf("no field focused yet")
	}
	if !s.Click(160, 40) {
		t.Fatalf("click on search field should focus it")
	}
	s.TypeRune('o')
	s.TypeRune('a')
	s.Backspace()
	for _, it := range s.Items() {
		if it.Key.Widget == "search" && it.Text != "o" {
			t.Fatalf("search text = %q", it.Text)
		}
	}
}

func TestFurnaceFuelItem(t *testing.T) {
	m := newManager()
	s, _ := Open(m, settings.New(""), "furnace", 480, 270)
	s.SetFuel(0.5)
	var found bool
	for _, it := range s.Items() {
		if it.Key.Widget != "level" {
			continue
		}
		found = true
		if !it.HasFill || it.Fill != geom.R(136, 135, 10, 30) {
			t.Fatalf("fill = %+v (bounds %+v)", it.Fill, it.Bounds)
		}
	}
	if !found {
		t.Fatalf("fuel bar missing from items")
	}
}

func TestHiddenWidgetsAreNotDrawn(t *testing.T) {
	store := settings.New("")
	m := newManager()
	s, _ := Open(m, store, "chest", 480, 270)
	n := len(s.Items())
	store.SetEnabled("inventory", "deposit", false)
	if len(s.Items()) != n-1 {
		t.Fatalf("hidden widget still drawn")
	}
}

func TestCloseEndsCurrentScreenOnly(t *testing.T) {
	m := newManager()
	first, _ := Open(m, settings.New(""), "chat", 0, 0)
	second, _ := Open(m, settings.New(""), "inventory", 0, 0)
	if first.Current() {
		t.Fatalf("first screen should be stale")
	}
	first.Close()
	if m.Screen() == nil {
		t.Fatalf("closing a stale screen must not end the current one")
	}
	second.Close()
	if m.Screen() != nil {
		t.Fatalf("screen not ended")
	}
}

func TestClampedWidgetStaysEditableAfterShrink(t *testing.T) {
	store := settings.New("")
	m := newManager()
	s, _ := Open(m, store, "inventory", 480, 270)
	s.Resize(200, 150)

	rec := find(t, s, "recovery", "recover").(element)
	drawn := rec.RenderBounds(200, 150)
	if drawn != geom.R(12, 134, 80, 16) || editor.Bounds(rec) == drawn {
		t.Fatalf("expected a clamped widget, drawn %+v absolute %+v", drawn, editor.Bounds(rec))
	}

	m.SetActive(true)
	for _, it := range m.Overlay().Items {
		if it.Widget == rec && it.Bounds != drawn {
			t.Fatalf("highlight at %+v, drawn at %+v", it.Bounds, drawn)
		}
	}

	m.OnFrame(0, 0, false)
	m.OnFrame(52, 142, true)
	if m.State() != editor.Dragging || m.Captured() != rec {
		t.Fatalf("press on drawn widget: state=%v", m.State())
	}
	m.OnFrame(52, 142, true)
	if rec.X() != 12 || rec.Y() != 134 {
		t.Fatalf("widget jumped to %d,%d", rec.X(), rec.Y())
	}
	m.OnFrame(62, 132, true)
	m.OnFrame(62, 132, false)
	if rec.X() != 22 || rec.Y() != 124 {
		t.Fatalf("dragged to %d,%d", rec.X(), rec.Y())
	}
	ws, _ := store.Lookup("recovery", "recover")
	if ws.OffsetX != 10 || ws.OffsetY != -34 {
		t.Fatalf("stored offset %d,%d", ws.OffsetX, ws.OffsetY)
	}
}

func TestClickHitsClampedWidget(t *testing.T) {
	m := newManager()
	s, _ := Open(m, settings.New(""), "inventory", 480, 270)
	s.Resize(200, 150)
	if !s.Click(52, 142) || len(s.Events) != 1 || s.Events[0] != "recovery.recover" {
		t.Fatalf("events = %v", s.Events)
	}
}

func TestUndoAfterReopenAtNewSize(t *testing.T) {
	store := settings.New("")
	m := editor.NewManager(editor.Options{UndoDepth: 8, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if _, err := Open(m, store, "inventory", 480, 270); err != nil {
		t.Fatal(err)
	}
	m.SetActive(true)
	m.OnFrame(0, 0, false)
	m.OnFrame(335, 60, true)
	m.OnFrame(345, 70, true)
	m.OnFrame(345, 70, false)
	if ws, _ := store.Lookup("inventory", "sort"); ws.OffsetX != 12 || ws.OffsetY != 14 {
		t.Fatalf("stored = %+v", ws)
	}

	s, _ := Open(m, store, "inventory", 800, 600)
	sortBtn := find(t, s, "inventory", "sort")
	if !m.Undo() {
		t.Fatalf("undo on reopened screen failed")
	}
	if ws, _ := store.Lookup("inventory", "sort"); ws.OffsetX != 2 || ws.OffsetY != 4 {
		t.Fatalf("after undo stored %d,%d", ws.OffsetX, ws.OffsetY)
	}
	if sortBtn.X() != 312+176+2 || sortBtn.Y() != 217+4 {
		t.Fatalf("after undo at %d,%d", sortBtn.X(), sortBtn.Y())
	}
	if !m.Redo() {
		t.Fatalf("redo failed")
	}
	if ws, _ := store.Lookup("inventory", "sort"); ws.OffsetX != 12 || ws.OffsetY != 14 {
		t.Fatalf("after redo stored %d,%d", ws.OffsetX, ws.OffsetY)
	}
}
