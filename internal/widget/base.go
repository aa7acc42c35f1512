/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package widget has the concrete positionable controls modules place on
// host screens. All of them embed Base, which implements the editor
// capability on top of a settings record.
package widget

import (
	"hudlayout/internal/domain"
	"hudlayout/internal/geom"
	"hudlayout/internal/settings"
)

// Def declares a widget: identity, anchor and module defaults.
type Def struct {
	Module domain.ModuleInfo
	ID     string
	Name   string
	Icon   string
	Anchor geom.Pt
	// Default offset from the anchor and default size for first use.
	OffsetX, OffsetY int
	Width, Height    int
	// Module minimums; never below domain.MinSize.
	MinWidth, MinHeight int
	Resizable           bool
}

// Gate tells widgets whether host input is currently routed to the editor.
// *editor.Manager satisfies it.
type Gate interface {
	Active() bool
}

// Base ties a settings record to a live on-screen element. The absolute
// position is anchor + stored offset at creation; editing moves it in
// absolute coordinates and SavePosition converts back.
type Base struct {
	store    *settings.Store
	def      Def
	settings *domain.WidgetSettings
	anchor   geom.Pt
	x, y     int
	w, h     int
}

// NewBase looks up (or creates) the widget's record and places it.
func NewBase(store *settings.Store, def Def) *Base {
	if def.Width <= 0 {
		def.Width = domain.DefaultWidth
	}
	if def.Height <= 0 {
		def.Height = domain.DefaultHeight
	}
	def.MinWidth = max(def.MinWidth, domain.MinSize)
	def.MinHeight = max(def.MinHeight, domain.MinSize)
	if def.Name == "" {
		def.Name = def.ID
	}
	ws := store.GetSized(def.Module.ID, def.ID, def.OffsetX, def.OffsetY, max(def.Width, def.MinWidth), max(def.Height, def.MinHeight))
	b := &Base{store: store, def: def, settings: ws, anchor: def.Anchor}
	b.x = def.Anchor.X + ws.OffsetX
	b.y = def.Anchor.Y + ws.OffsetY
	b.w = max(ws.Width, def.MinWidth)
	b.h = max(ws.Height, def.MinHeight)
	return b
}

func (b *Base) X() int      { return b.x }
func (b *Base) Y() int      { return b.y }
func (b *Base) Width() int  { return b.w }
func (b *Base) Height() int { return b.h }

func (b *Base) SetEditorPosition(x, y int) { b.x, b.y = x, y }

// SetEditorSize applies the module minimum, itself at least domain.MinSize.
// There is no maximum.
func (b *Base) SetEditorSize(w, h int) {
	b.w = max(w, b.def.MinWidth)
	b.h = max(h, b.def.MinHeight)
}

// SavePosition writes offset = absolute - anchor and the size to the store.
func (b *Base) SavePosition() {
	b.store.Update(b.def.Module.ID, b.def.ID, b.x-b.anchor.X, b.y-b.anchor.Y)
	if b.def.Resizable {
		b.store.UpdateSize(b.def.Module.ID, b.def.ID, b.w, b.h)
	}
}

func (b *Base) Resizable() bool           { return b.def.Resizable }
func (b *Base) DisplayName() string       { return b.def.Name }
func (b *Base) Module() domain.ModuleInfo { return b.def.Module }
func (b *Base) Key() domain.Key           { return domain.Key{Module: b.def.Module.ID, Widget: b.def.ID} }
func (b *Base) Anchor() geom.Pt           { return b.anchor }
func (b *Base) Icon() string              { return b.def.Icon }

// Stored returns the persisted record.
func (b *Base) Stored() domain.WidgetSettings {
	if ws, ok := b.store.Lookup(b.def.Module.ID, b.def.ID); ok {
		return ws
	}
	return b.settings.Values()
}

// Visible follows the enabled flag of the record.
func (b *Base) Visible() bool { return b.Stored().Enabled }

func (b *Base) DisplayMode() domain.DisplayMode { return b.Stored().DisplayMode }

// SetAnchor moves the anchor for widgets whose reference point changes
// every frame. The stored offset is kept, so the widget follows.
func (b *Base) SetAnchor(p geom.Pt) {
	b.x += p.X - b.anchor.X
	b.y += p.Y - b.anchor.Y
	b.anchor = p
}

func (b *Base) Bounds() geom.Rect { return geom.R(b.x, b.y, b.w, b.h) }

// RenderBounds is where the widget is drawn on a screen of the given size:
// the absolute position clamped into the screen. The stored offset is not
// touched.
func (b *Base) RenderBounds(screenW, screenH int) geom.Rect {
	return b.Bounds().ClampInto(geom.R(0, 0, screenW, screenH))
}

// Caption is the text to draw according to the display mode. Auto shows
// the name when there is room for it.
func (b *Base) Caption() string {
	switch b.DisplayMode() {
	case domain.DisplayIconOnly:
		if b.def.Icon != "" {
			return b.def.Icon
		}
		return b.def.Name
	case domain.DisplayNameAndIcon:
		if b.def.Icon == "" {
			return b.def.Name
		}
		return b.def.Icon + " " + b.def.Name
	default:
		if b.def.Icon != "" && b.w < 8*len(b.def.Name) {
			return b.def.Icon
		}
		return b.def.Name
	}
}
