//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"hudlayout/internal/config"
	"hudlayout/internal/editor"
	"hudlayout/internal/settings"
)

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary}
}

func newCanvas(t *testing.T) (*HudCanvas, *editor.Manager, *settings.Store) {
	t.Helper()
	test.NewApp()
	store := settings.New("")
	m := NewManager(Options{Store: store, Editor: config.Defaults().Editor}, nil)
	c := NewHudCanvas(m, store)
	c.Resize(fyne.NewSize(480, 270))
	if err := c.Open("inventory"); err != nil {
		t.Fatal(err)
	}
	return c, m, store
}

func TestHudCanvasDragThroughFrames(t *testing.T) {
	c, m, store := newCanvas(t)
	c.TypedKey(&fyne.KeyEvent{Name: fyne.KeyF2})
	if !m.Active() {
		t.Fatalf("F2 should enter editor mode")
	}
	c.Frame()

	c.MouseDown(mouse(335, 60))
	c.Frame()
	if m.State() != editor.Dragging {
		t.Fatalf("state = %v", m.State())
	}
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(345, 70)}})
	c.Frame()
	c.MouseUp(mouse(345, 70))
	c.Frame()

	if m.State() != editor.Idle {
		t.Fatalf("state after release = %v", m.State())
	}
	ws, _ := store.Lookup("inventory", "sort")
	if ws.OffsetX != 12 || ws.OffsetY != 14 {
		t.Fatalf("stored = %+v", ws)
	}
}

func TestHudCanvasResizeFollowsAnchors(t *testing.T) {
	c, m, _ := newCanvas(t)
	c.Resize(fyne.NewSize(640, 360))
	if got := m.Screen().Info(); got.Width != 640 || got.Height != 360 {
		t.Fatalf("screen = %+v", got)
	}
	w := m.RegisteredWidgets()[0]
	if w.X() != 232+176+2 {
		t.Fatalf("sort x = %d", w.X())
	}
}

func TestHudCanvasClicksReachModulesOutsideEditor(t *testing.T) {
	c, _, _ := newCanvas(t)
	c.MouseDown(mouse(335, 60))
	if ev := c.Screen().Events; len(ev) != 1 || ev[0] != "inventory.sort" {
		t.Fatalf("events = %v", ev)
	}
}

func TestHudRendererDrawsOverlay(t *testing.T) {
	c, m, _ := newCanvas(t)
	r := c.CreateRenderer()
	plain := len(r.Objects())
	m.SetActive(true)
	m.Select(m.RegisteredWidgets()[0])
	r.Refresh()
	// three highlight rects plus eight handles
	if got := len(r.Objects()); got != plain+3+8 {
		t.Fatalf("objects = %d, plain %d", got, plain)
	}
}
