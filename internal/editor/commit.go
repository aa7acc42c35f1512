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
	"time"

	"hudlayout/internal/domain"
	"hudlayout/internal/geom"
	"hudlayout/internal/undo"
)

// CommitKind tells what produced a commit.
type CommitKind int

const (
	CommitMove CommitKind = iota
	CommitResize
	CommitNudge
	CommitUndo
	CommitRedo
)

func (k CommitKind) String() string {
	switch k {
	case CommitResize:
		return "resize"
	case CommitNudge:
		return "nudge"
	case CommitUndo:
		return "undo"
	case CommitRedo:
		return "redo"
	default:
		return "move"
	}
}

// Commit describes one geometry change written back to the settings store.
type Commit struct {
	Screen   string
	ScreenID string
	Key      domain.Key
	Name     string
	Kind     CommitKind
	Before   geom.Rect
	After    geom.Rect
	// Settings is the persisted record after the commit, when the widget
	// exposes it.
	Settings    domain.WidgetSettings
	HasSettings bool
	At          time.Time
}

// Changed reports whether the geometry moved.
func (c Commit) Changed() bool { return c.Before != c.After }

// OnCommit registers a hook called after every commit that changed
// geometry. Hooks run synchronously on the UI thread.
func (m *Manager) OnCommit(fn func(Commit)) {
	if fn != nil {
		m.hooks = append(m.hooks, fn)
	}
}

// commit persists w and notifies hooks when the geometry changed.
// SavePosition is always called so a release is never lost.
func (m *Manager) commit(w Widget, kind CommitKind, before geom.Rect) {
	w.SavePosition()
	c := Commit{
		Key:    keyOf(w),
		Name:   w.DisplayName(),
		Kind:   kind,
		Before: before,
		After:  Bounds(w),
		At:     m.now(),
	}
	if m.screen != nil {
		c.Screen = m.screen.info.Name
		c.ScreenID = m.screen.ID()
	}
	if st, ok := w.(Stored); ok {
		c.Settings = st.Stored()
		c.HasSettings = true
	}
	if !c.Changed() {
		return
	}
	if m.undo != nil && kind != CommitUndo && kind != CommitRedo {
		a := anchorOf(w)
		m.undo.Push(undo.Entry{Scope: c.Screen, Key: c.Key, Before: relTo(c.Before, a), After: relTo(c.After, a), TS: c.At})
	}
	m.log.Info("widget committed",
		slog.String("widget", c.Key.String()), slog.String("kind", kind.String()),
		slog.Int("x", c.After.X), slog.Int("y", c.After.Y), slog.Int("w", c.After.W), slog.Int("h", c.After.H))
	for _, fn := range m.hooks {
		fn(c)
	}
}

// Nudge moves the selected widget by dx,dy and commits immediately.
// It only acts in editor mode while nothing is captured.
func (m *Manager) Nudge(dx, dy int) bool {
	w := m.selected
	if !m.active || m.state != Idle || w == nil || (dx == 0 && dy == 0) {
		return false
	}
	before := Bounds(w)
	r := m.shown(w)
	w.SetEditorPosition(r.X+dx, r.Y+dy)
	m.commit(w, CommitNudge, before)
	return true
}

// Undo reverts the last commit made on a screen with the current screen's
// name. It reports false when there is nothing to undo or the widget is
// not on the current screen.
func (m *Manager) Undo() bool {
	if m.undo == nil || m.screen == nil || m.state != Idle {
		return false
	}
	e, ok := m.undo.Undo(m.screen.info.Name)
	if !ok {
		return false
	}
	if !m.apply(e.Key, e.Before, CommitUndo) {
		// keep stacks consistent with what is on screen
		m.undo.Redo(m.screen.info.Name)
		return false
	}
	return true
}

// Redo reapplies the last undone commit.
func (m *Manager) Redo() bool {
	if m.undo == nil || m.screen == nil || m.state != Idle {
		return false
	}
	e, ok := m.undo.Redo(m.screen.info.Name)
	if !ok {
		return false
	}
	if !m.apply(e.Key, e.After, CommitRedo) {
		m.undo.Undo(m.screen.info.Name)
		return false
	}
	return true
}

// apply places the widget at rel, an entry rect relative to the anchor,
// re-expressed against the widget's current anchor.
func (m *Manager) apply(k domain.Key, rel geom.Rect, kind CommitKind) bool {
	w := m.widgetByKey(k)
	if w == nil {
		m.log.Debug("undo target not on screen", slog.String("widget", k.String()))
		return false
	}
	a := anchorOf(w)
	r := geom.R(rel.X+a.X, rel.Y+a.Y, rel.W, rel.H)
	before := Bounds(w)
	w.SetEditorSize(r.W, r.H)
	w.SetEditorPosition(r.X, r.Y)
	m.commit(w, kind, before)
	return true
}

func relTo(r geom.Rect, a geom.Pt) geom.Rect {
	return geom.R(r.X-a.X, r.Y-a.Y, r.W, r.H)
}
