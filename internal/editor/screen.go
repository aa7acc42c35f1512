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
	"log/slog"

	"github.com/google/uuid"

	"hudlayout/internal/geom"
)

// ScreenInfo describes the host screen being opened.
type ScreenInfo struct {
	// Name is stable across reopenings ("inventory", "chest").
	Name   string
	Width  int
	Height int
}

func (i ScreenInfo) Bounds() geom.Rect { return geom.R(0, 0, i.Width, i.Height) }

// Screen is the registration context for one opening of a host screen.
// It goes stale as soon as the manager begins another screen; a stale
// screen cannot register anything.
type Screen struct {
	id   uuid.UUID
	info ScreenInfo
	m    *Manager
}

func (s *Screen) ID() string       { return s.id.String() }
func (s *Screen) Info() ScreenInfo { return s.info }

// Current reports whether this is still the manager's open screen.
func (s *Screen) Current() bool { return s != nil && s.m.screen == s }

// Register adds a widget to the screen. Widgets registered later are drawn
// and hit-tested on top. It reports false for a stale screen.
func (s *Screen) Register(w Widget) bool {
	if w == nil {
		return false
	}
	if !s.Current() {
		s.m.log.Warn("registration on stale screen rejected",
			slog.String("screen", s.info.Name), slog.String("screen_id", s.ID()), slog.String("widget", keyOf(w).String()))
		return false
	}
	for _, existing := range s.m.widgets {
		if existing == w {
			return true
		}
	}
	s.m.widgets = append(s.m.widgets, w)
	s.m.log.Debug("widget registered", slog.String("screen", s.info.Name), slog.String("widget", keyOf(w).String()))
	return true
}

// RegisterControl adds editor chrome that keeps receiving host input while
// editor mode is active.
func (s *Screen) RegisterControl(c Control) bool {
	if c == nil || !s.Current() {
		return false
	}
	s.m.controls = append(s.m.controls, c)
	return true
}

// Resize updates the host screen size, e.g. after the window changed.
func (s *Screen) Resize(w, h int) {
	if !s.Current() {
		return
	}
	s.info.Width, s.info.Height = w, h
}
