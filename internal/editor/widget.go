/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor implements editor mode: the capability every positionable
// widget exposes, hit testing, and the per-frame polled interaction state
// machine that drags and resizes widgets on the current host screen.
package editor

import (
	"hudlayout/internal/domain"
	"hudlayout/internal/geom"
)

// Widget is the capability a control implements to take part in editor
// mode. Geometry is absolute screen pixels.
type Widget interface {
	X() int
	Y() int
	Width() int
	Height() int
	// SetEditorPosition and SetEditorSize are only used while editing.
	// SetEditorSize enforces the domain.MinSize floor.
	SetEditorPosition(x, y int)
	SetEditorSize(w, h int)
	// SavePosition re-expresses the current geometry relative to the
	// widget's anchor and writes it to the settings store.
	SavePosition()
	Resizable() bool
	DisplayName() string
	Module() domain.ModuleInfo
}

// Keyed widgets expose their settings key; commits and undo use it.
type Keyed interface {
	Key() domain.Key
}

// Stored widgets expose their persisted record after SavePosition.
type Stored interface {
	Stored() domain.WidgetSettings
}

// Hideable widgets can be switched off in the settings screen; hidden
// widgets are skipped by hit testing.
type Hideable interface {
	Visible() bool
}

// Anchored widgets expose the reference point their stored offset is
// measured from. Undo entries are kept relative to it.
type Anchored interface {
	Anchor() geom.Pt
}

// Clamped widgets are drawn somewhere other than their absolute position
// when that position falls outside the screen.
type Clamped interface {
	RenderBounds(screenW, screenH int) geom.Rect
}

// Control is host-drawn editor chrome (edit and config toggles) that stays
// clickable while editor mode suppresses host input.
type Control interface {
	Bounds() geom.Rect
}

// Bounds returns the widget's current absolute rectangle.
func Bounds(w Widget) geom.Rect {
	return geom.R(w.X(), w.Y(), w.Width(), w.Height())
}

// BoundsOn returns where the widget shows up on the screen: its render
// bounds when it clamps itself, else its absolute rectangle. Hit testing and
// the overlay use this rect.
func BoundsOn(w Widget, info ScreenInfo) geom.Rect {
	if c, ok := w.(Clamped); ok && info.Width > 0 && info.Height > 0 {
		return c.RenderBounds(info.Width, info.Height)
	}
	return Bounds(w)
}

func anchorOf(w Widget) geom.Pt {
	if a, ok := w.(Anchored); ok {
		return a.Anchor()
	}
	return geom.Pt{}
}

func keyOf(w Widget) domain.Key {
	if k, ok := w.(Keyed); ok {
		return k.Key()
	}
	return domain.Key{Module: w.Module().ID, Widget: w.DisplayName()}
}

func visible(w Widget) bool {
	if h, ok := w.(Hideable); ok {
		return h.Visible()
	}
	return true
}
