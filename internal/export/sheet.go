/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders the layout of one host screen as PNG and PDF
// sheets, mainly for bug reports and for comparing layouts between
// machines.
package export

import (
	"hash/fnv"

	"hudlayout/internal/domain"
	"hudlayout/internal/editor"
	"hudlayout/internal/geom"
)

// Item is one widget on a sheet.
type Item struct {
	Key       domain.Key
	Module    string
	Name      string
	Caption   string
	Bounds    geom.Rect
	Offset    geom.Pt
	Enabled   bool
	Mode      domain.DisplayMode
	Resizable bool
}

// Sheet is a frozen copy of a screen's widget layout.
type Sheet struct {
	Screen string
	Width  int
	Height int
	Items  []Item
}

// FromManager snapshots the widgets registered on the manager's current
// screen. It returns an empty sheet between screens.
func FromManager(m *editor.Manager) Sheet {
	scr := m.Screen()
	if scr == nil {
		return Sheet{}
	}
	info := scr.Info()
	sh := Sheet{Screen: info.Name, Width: info.Width, Height: info.Height}
	for _, w := range m.RegisteredWidgets() {
		it := Item{
			Module:    w.Module().Name,
			Name:      w.DisplayName(),
			Caption:   w.DisplayName(),
			Bounds:    editor.BoundsOn(w, info),
			Enabled:   true,
			Resizable: w.Resizable(),
		}
		if k, ok := w.(editor.Keyed); ok {
			it.Key = k.Key()
		} else {
			it.Key = domain.Key{Module: w.Module().ID, Widget: w.DisplayName()}
		}
		if st, ok := w.(editor.Stored); ok {
			ws := st.Stored()
			it.Offset = geom.Pt{X: ws.OffsetX, Y: ws.OffsetY}
			it.Enabled = ws.Enabled
			it.Mode = ws.DisplayMode
		}
		if c, ok := w.(interface{ Caption() string }); ok {
			it.Caption = c.Caption()
		}
		sh.Items = append(sh.Items, it)
	}
	return sh
}

// color per module, stable across runs
func moduleColor(module string) (r, g, b uint8) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(module))
	v := h.Sum32()
	// keep channels in a readable mid range
	return uint8(64 + v%160), uint8(64 + (v>>8)%160), uint8(64 + (v>>16)%160)
}
