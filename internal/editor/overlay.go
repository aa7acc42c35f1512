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

import "hudlayout/internal/geom"

// OverlayItem is what the host draws for one widget in editor mode.
type OverlayItem struct {
	Widget   Widget
	Bounds   geom.Rect
	Selected bool
	Captured bool
	// Handles are only set for the selected resizable widget.
	Handles []geom.Rect
}

// Overlay is the editor-mode chrome for the current frame.
type Overlay struct {
	Active bool
	Screen ScreenInfo
	State  State
	Items  []OverlayItem
	Guides []geom.GuideLine
}

// Overlay returns highlight rectangles, resize handles and snap guides in
// drawing order. It is empty while editor mode is off.
func (m *Manager) Overlay() Overlay {
	o := Overlay{Active: m.active, State: m.state}
	if m.screen != nil {
		o.Screen = m.screen.info
	}
	if !m.active {
		return o
	}
	for _, w := range m.widgets {
		if !visible(w) {
			continue
		}
		it := OverlayItem{
			Widget:   w,
			Bounds:   m.shown(w),
			Selected: w == m.selected,
			Captured: w == m.captured,
		}
		if it.Selected && w.Resizable() {
			it.Handles = HandleRects(it.Bounds, m.opts.HandleSize)
		}
		o.Items = append(o.Items, it)
	}
	o.Guides = append(o.Guides, m.guides...)
	return o
}
