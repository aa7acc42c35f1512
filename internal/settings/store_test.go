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
	"testing"

	"hudlayout/internal/domain"
)

func TestGetTwiceReturnsSameRecord(t *testing.T) {
	s := New("")
	a := s.Get("mod", "w1", 5, 5)
	a.OffsetX = 40 // mutated in place by a widget commit
	b := s.Get("mod", "w1", 5, 5)
	if a != b {
		t.Fatalf("expected the same instance")
	}
	if b.OffsetX != 40 || b.OffsetY != 5 {
		t.Fatalf("second Get reset to defaults: %v", b)
	}
	if b.Width != domain.DefaultWidth || b.Height != domain.DefaultHeight {
		t.Fatalf("default size = %dx%d", b.Width, b.Height)
	}
}

func TestGetMarksDirtyOnlyOnCreate(t *testing.T) {
	s := New("")
	s.GetSized("inv", "sort", 1, 2, 30, 12)
	if !s.Dirty() {
		t.Fatalf("create should mark dirty")
	}
	s.dirty = false
	s.GetSized("inv", "sort", 1, 2, 30, 12)
	if s.Dirty() {
		t.Fatalf("existing record should not mark dirty")
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	s := New("")
	s.Get("mod", "w", 0, 0)
	s.dirty = false

	s.Update("mod", "w", 10, -3)
	if !s.Dirty() {
		t.Fatalf("changed offset should mark dirty")
	}
	s.dirty = false
	s.Update("mod", "w", 10, -3)
	s.UpdateSize("mod", "w", domain.DefaultWidth, domain.DefaultHeight)
	if s.Dirty() {
		t.Fatalf("unchanged values should leave the store clean")
	}
	got, _ := s.Lookup("mod", "w")
	if got.OffsetX != 10 || got.OffsetY != -3 {
		t.Fatalf("offset = %d,%d", got.OffsetX, got.OffsetY)
	}
}

func TestUpdateSizeClampsToMinSize(t *testing.T) {
	s := New("")
	s.Get("mod", "w", 0, 0)
	s.UpdateSize("mod", "w", 2, -50)
	got, _ := s.Lookup("mod", "w")
	if got.Width != domain.MinSize || got.Height != domain.MinSize {
		t.Fatalf("size = %dx%d", got.Width, got.Height)
	}
}

func TestUpdateUnknownKeyCreatesRecord(t *testing.T) {
	s := New("")
	s.Update("fuel", "bar", 7, 8)
	got, ok := s.Lookup("fuel", "bar")
	if !ok || got.OffsetX != 7 || got.Width != domain.DefaultWidth {
		t.Fatalf("got %v ok=%v", got, ok)
	}
}

func TestResetWidgetRestoresDefaultsInPlace(t *testing.T) {
	s := New("")
	ws := s.GetSized("chat", "mentions", 4, 4, 60, 14)
	s.Update("chat", "mentions", 100, 100)
	s.SetEnabled("chat", "mentions", false)
	s.SetDisplayMode("chat", "mentions", domain.DisplayIconOnly)

	s.ResetWidget("chat", "mentions")
	if ws.OffsetX != 4 || ws.Width != 60 || !ws.Enabled || ws.DisplayMode != domain.DisplayAuto {
		t.Fatalf("reset did not restore defaults: %v", ws)
	}
}

func TestResetModuleAndAll(t *testing.T) {
	s := New("")
	s.Get("inv", "a", 1, 1)
	s.Get("inv", "b", 2, 2)
	s.Get("fuel", "bar", 3, 3)
	s.Update("inv", "a", 50, 50)
	s.Update("inv", "b", 60, 60)

	s.ResetModule("inv")
	a, _ := s.Lookup("inv", "a")
	b, _ := s.Lookup("inv", "b")
	if a.OffsetX != 1 || b.OffsetX != 2 {
		t.Fatalf("module reset failed: %v %v", a, b)
	}

	s.dirty = false
	s.ResetAll()
	if len(s.Modules()) != 0 || !s.Dirty() {
		t.Fatalf("ResetAll should empty the store and mark dirty")
	}
	s.dirty = false
	s.ResetAll()
	if s.Dirty() {
		t.Fatalf("ResetAll on empty store should be a no-op")
	}
}

func TestListings(t *testing.T) {
	s := New("")
	s.Get("zeta", "x", 0, 0)
	s.Get("alpha", "b", 0, 0)
	s.Get("alpha", "a", 0, 0)
	mods := s.Modules()
	if len(mods) != 2 || mods[0] != "alpha" || mods[1] != "zeta" {
		t.Fatalf("Modules = %v", mods)
	}
	ws := s.Widgets("alpha")
	if len(ws) != 2 || ws[0] != "a" || ws[1] != "b" {
		t.Fatalf("Widgets = %v", ws)
	}
	if len(s.Snapshot()) != 3 {
		t.Fatalf("Snapshot size mismatch")
	}
}

func TestPutReplacesAllFields(t *testing.T) {
	s := New("")
	ws := s.Get("mod", "w", 0, 0)
	s.dirty = false
	v := domain.WidgetSettings{OffsetX: 3, OffsetY: 4, Width: 5, Height: 50, DisplayMode: domain.DisplayNameAndIcon, Enabled: true}
	s.Put("mod", "w", v)
	if ws.Width != domain.MinSize || ws.Height != 50 || ws.DisplayMode != domain.DisplayNameAndIcon {
		t.Fatalf("Put result %v", ws)
	}
	if !s.Dirty() {
		t.Fatalf("Put should mark dirty")
	}
}
