/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"io"
	"log/slog"

	"hudlayout/internal/domain"
)

// boxWidget is a minimal capability implementation recording commits.
type boxWidget struct {
	mod       domain.ModuleInfo
	id        string
	x, y      int
	w, h      int
	minW      int
	resizable bool
	hidden    bool
	saves     int
	saved     [4]int
}

func newBox(module, id string, x, y, w, h int) *boxWidget {
	return &boxWidget{mod: domain.ModuleInfo{ID: module, Name: module}, id: id, x: x, y: y, w: w, h: h, resizable: true}
}

func (b *boxWidget) X() int                     { return b.x }
func (b *boxWidget) Y() int                     { return b.y }
func (b *boxWidget) Width() int                 { return b.w }
func (b *boxWidget) Height() int                { return b.h }
func (b *boxWidget) SetEditorPosition(x, y int) { b.x, b.y = x, y }
func (b *boxWidget) SetEditorSize(w, h int) {
	b.w, b.h = domain.ClampSize(max(w, b.minW)), domain.ClampSize(h)
}
func (b *boxWidget) SavePosition() {
	b.saves++
	b.saved = [4]int{b.x, b.y, b.w, b.h}
}
func (b *boxWidget) Resizable() bool           { return b.resizable }
func (b *boxWidget) DisplayName() string       { return b.id }
func (b *boxWidget) Module() domain.ModuleInfo { return b.mod }
func (b *boxWidget) Key() domain.Key           { return domain.Key{Module: b.mod.ID, Widget: b.id} }
func (b *boxWidget) Visible() bool             { return !b.hidden }

type pointer struct {
	x, y int
	held bool
}

func newTestManager(opts Options) *Manager {
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(opts)
}

// drive feeds frames to the manager.
func drive(m *Manager, frames ...pointer) {
	for _, f := range frames {
		m.OnFrame(f.x, f.y, f.held)
	}
}

// openEditing begins a screen with the given widgets and enters editor mode
// with the button released.
func openEditing(m *Manager, name string, ws ...Widget) *Screen {
	s := m.BeginScreen(ScreenInfo{Name: name, Width: 320, Height: 200})
	for _, w := range ws {
		s.Register(w)
	}
	m.SetActive(true)
	m.OnFrame(0, 0, false)
	return s
}
