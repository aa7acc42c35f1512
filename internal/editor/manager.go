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

	"github.com/google/uuid"

	"hudlayout/internal/domain"
	"hudlayout/internal/geom"
	applog "hudlayout/internal/log"
	"hudlayout/internal/undo"
)

// State of the interaction state machine.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Options tune the manager. Zero values pick defaults.
type Options struct {
	HandleSize int
	// MinSize may raise the resize floor above domain.MinSize.
	MinSize int
	// SnapThreshold enables smart guides while dragging when > 0.
	SnapThreshold int
	// UndoDepth caps undo entries per screen name; 0 disables undo.
	UndoDepth int
	Logger    *slog.Logger
}

// Manager owns editor mode for whatever host screen is currently open:
// the active flag, the registered widgets, the selection and the
// Idle/Dragging/Resizing state machine. The host drives it by calling
// OnFrame once per render frame.
//
// A Manager is not safe for concurrent use; all calls happen on the host's
// UI thread.
type Manager struct {
	opts Options
	log  *slog.Logger

	active   bool
	screen   *Screen
	widgets  []Widget
	controls []Control
	selected Widget

	state    State
	captured Widget
	grab     geom.Pt   // press point minus widget origin (drag)
	press    geom.Pt   // press point (resize)
	edge     Edge      // resize direction
	orig     geom.Rect // shown bounds when the capture started
	before   geom.Rect // absolute bounds when the capture started
	guides   []geom.GuideLine
	prevHeld bool

	hooks []func(Commit)
	undo  *undo.Manager
	now   func() time.Time
}

func NewManager(opts Options) *Manager {
	if opts.HandleSize <= 0 {
		opts.HandleSize = DefaultHandleSize
	}
	if opts.MinSize < domain.MinSize {
		opts.MinSize = domain.MinSize
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("editor")
	}
	m := &Manager{opts: opts, log: l, now: time.Now}
	if opts.UndoDepth > 0 {
		m.undo = undo.NewManager(undo.Config{MaxPerScope: opts.UndoDepth})
	}
	return m
}

// BeginScreen is called on every host screen initialization. Any capture in
// progress is committed first, then the registry, the selection and the
// state machine are cleared and a fresh Screen becomes current.
func (m *Manager) BeginScreen(info ScreenInfo) *Screen {
	m.releaseCapture("screen change")
	m.reset()
	m.screen = &Screen{id: uuid.New(), info: info, m: m}
	m.log.Debug("screen begin", slog.String("screen", info.Name), slog.String("screen_id", m.screen.ID()))
	return m.screen
}

// EndScreen is called on host screen teardown. It flushes a capture in
// progress and drops every widget reference.
func (m *Manager) EndScreen() {
	m.releaseCapture("screen end")
	if m.screen != nil {
		m.log.Debug("screen end", slog.String("screen", m.screen.info.Name))
	}
	m.reset()
	m.screen = nil
}

func (m *Manager) reset() {
	m.widgets = nil
	m.controls = nil
	m.selected = nil
	m.captured = nil
	m.guides = nil
	m.state = Idle
	// a button already held when the screen opens must be released first
	m.prevHeld = true
}

// Screen returns the current screen context, or nil between screens.
func (m *Manager) Screen() *Screen { return m.screen }

// RegisterDraggableWidget registers w on the current screen.
func (m *Manager) RegisterDraggableWidget(w Widget) bool {
	if m.screen == nil {
		m.log.Warn("registration without an open screen ignored", slog.String("widget", keyOf(w).String()))
		return false
	}
	return m.screen.Register(w)
}

// RegisteredWidgets returns the current screen's widgets in registration order.
func (m *Manager) RegisteredWidgets() []Widget {
	return append([]Widget(nil), m.widgets...)
}

func (m *Manager) Active() bool       { return m.active }
func (m *Manager) State() State       { return m.state }
func (m *Manager) Selected() Widget   { return m.selected }
func (m *Manager) Captured() Widget   { return m.captured }
func (m *Manager) HandleSize() int    { return m.opts.HandleSize }
func (m *Manager) MinSize() int       { return m.opts.MinSize }
func (m *Manager) SnapThreshold() int { return m.opts.SnapThreshold }

// Toggle flips editor mode and returns the new state.
func (m *Manager) Toggle() bool {
	m.SetActive(!m.active)
	return m.active
}

// SetActive switches editor mode. Turning it off mid-capture commits the
// capture like a release.
func (m *Manager) SetActive(on bool) {
	if on == m.active {
		return
	}
	if !on {
		m.releaseCapture("editor off")
		m.selected = nil
	}
	m.active = on
	m.state = Idle
	m.prevHeld = true
	m.log.Info("editor mode", slog.Bool("active", on))
}

// Select makes w the selected widget. Only registered widgets (or nil) are accepted.
func (m *Manager) Select(w Widget) bool {
	if w == nil {
		m.selected = nil
		return true
	}
	if !m.registered(w) {
		return false
	}
	m.selected = w
	return true
}

// FocusedModules lists the modules owning widgets on the current screen,
// in first-registration order.
func (m *Manager) FocusedModules() []domain.ModuleInfo {
	seen := map[string]bool{}
	var out []domain.ModuleInfo
	for _, w := range m.widgets {
		mi := w.Module()
		if seen[mi.ID] {
			continue
		}
		seen[mi.ID] = true
		out = append(out, mi)
	}
	return out
}

// HostInputAllowed reports whether a host click at the point may reach the
// host screen. While editor mode is active only chrome controls do.
func (m *Manager) HostInputAllowed(px, py int) bool {
	if !m.active {
		return true
	}
	return m.controlAt(px, py)
}

// OnFrame advances the state machine from the sampled pointer state. Hosts
// call it every render frame; the protocol is level-triggered, so a
// skipped frame only delays the update.
func (m *Manager) OnFrame(px, py int, held bool) {
	pressed := held && !m.prevHeld
	m.prevHeld = held
	if !m.active {
		return
	}
	switch m.state {
	case Idle:
		if pressed {
			m.pressAt(px, py)
		}
	case Dragging:
		if !held {
			m.releaseCapture("release")
			return
		}
		m.dragTo(px, py)
	case Resizing:
		if !held {
			m.releaseCapture("release")
			return
		}
		m.resizeTo(px, py)
	}
}

func (m *Manager) pressAt(px, py int) {
	if m.controlAt(px, py) {
		return
	}
	p := geom.Pt{X: px, Y: py}
	if w := m.selected; w != nil && visible(w) && w.Resizable() {
		if e := resizeEdge(m.shown(w), px, py, m.opts.HandleSize); e != EdgeNone {
			m.startResize(w, e, p)
			return
		}
	}
	for i := len(m.widgets) - 1; i >= 0; i-- {
		w := m.widgets[i]
		if !visible(w) {
			continue
		}
		r := m.shown(w)
		if w.Resizable() {
			if e := resizeEdge(r, px, py, m.opts.HandleSize); e != EdgeNone {
				m.startResize(w, e, p)
				return
			}
		}
		if r.Contains(p) {
			m.startDrag(w, p)
			return
		}
	}
	m.selected = nil
}

func (m *Manager) startDrag(w Widget, p geom.Pt) {
	m.capture(w)
	m.grab = p.Sub(m.orig.Min())
	m.state = Dragging
	m.log.Debug("drag start", slog.String("widget", keyOf(w).String()), slog.Int("grab_x", m.grab.X), slog.Int("grab_y", m.grab.Y))
}

func (m *Manager) startResize(w Widget, e Edge, p geom.Pt) {
	m.capture(w)
	m.press = p
	m.edge = e
	m.state = Resizing
	m.log.Debug("resize start", slog.String("widget", keyOf(w).String()), slog.String("edge", e.String()))
}

// capture selects w and snapshots its bounds. A widget drawn clamped into
// the screen is first moved to where it is drawn, so editing continues from
// what the user sees.
func (m *Manager) capture(w Widget) {
	m.selected = w
	m.captured = w
	m.before = Bounds(w)
	m.orig = m.shown(w)
	if m.orig.Min() != m.before.Min() {
		w.SetEditorPosition(m.orig.X, m.orig.Y)
	}
}

// shown is the widget's rect as drawn on the current screen.
func (m *Manager) shown(w Widget) geom.Rect {
	if m.screen == nil {
		return Bounds(w)
	}
	return BoundsOn(w, m.screen.info)
}

func (m *Manager) dragTo(px, py int) {
	w := m.captured
	next := geom.R(px-m.grab.X, py-m.grab.Y, w.Width(), w.Height())
	m.guides = nil
	if m.opts.SnapThreshold > 0 {
		next, m.guides = geom.Snap(next, m.snapTargets(w), geom.SnapOptions{
			Threshold:     m.opts.SnapThreshold,
			SnapToEdges:   true,
			SnapToCenters: true,
		})
	}
	if next.X != w.X() || next.Y != w.Y() {
		w.SetEditorPosition(next.X, next.Y)
	}
}

func (m *Manager) snapTargets(moving Widget) []geom.Rect {
	var out []geom.Rect
	if m.screen != nil && m.screen.info.Width > 0 && m.screen.info.Height > 0 {
		out = append(out, m.screen.info.Bounds())
	}
	for _, w := range m.widgets {
		if w != moving && visible(w) {
			out = append(out, m.shown(w))
		}
	}
	return out
}

// resizeTo recomputes the bounds from the snapshot taken at press time.
// The side opposite the active edge stays fixed.
func (m *Manager) resizeTo(px, py int) {
	w := m.captured
	dx, dy := px-m.press.X, py-m.press.Y
	o := m.orig
	nw, nh := o.W, o.H
	if m.edge&EdgeE != 0 {
		nw = o.W + dx
	}
	if m.edge&EdgeW != 0 {
		nw = o.W - dx
	}
	if m.edge&EdgeS != 0 {
		nh = o.H + dy
	}
	if m.edge&EdgeN != 0 {
		nh = o.H - dy
	}
	if nw < m.opts.MinSize {
		nw = m.opts.MinSize
	}
	if nh < m.opts.MinSize {
		nh = m.opts.MinSize
	}
	if nw != w.Width() || nh != w.Height() {
		w.SetEditorSize(nw, nh)
	}
	// the widget may enforce a larger module minimum; anchor on what it kept
	x, y := o.X, o.Y
	if m.edge&EdgeW != 0 {
		x = o.Right() - w.Width()
	}
	if m.edge&EdgeN != 0 {
		y = o.Bottom() - w.Height()
	}
	if x != w.X() || y != w.Y() {
		w.SetEditorPosition(x, y)
	}
}

// releaseCapture ends a drag or resize, committing the captured widget.
func (m *Manager) releaseCapture(reason string) {
	if m.state == Idle || m.captured == nil {
		m.state = Idle
		return
	}
	w := m.captured
	kind := CommitMove
	if m.state == Resizing {
		kind = CommitResize
	}
	before := m.before
	m.captured = nil
	m.guides = nil
	m.state = Idle
	m.log.Debug("capture released", slog.String("widget", keyOf(w).String()), slog.String("reason", reason))
	m.commit(w, kind, before)
}

func (m *Manager) registered(w Widget) bool {
	for _, x := range m.widgets {
		if x == w {
			return true
		}
	}
	return false
}

func (m *Manager) controlAt(px, py int) bool {
	p := geom.Pt{X: px, Y: py}
	for _, c := range m.controls {
		if c.Bounds().Contains(p) {
			return true
		}
	}
	return false
}

func (m *Manager) widgetByKey(k domain.Key) Widget {
	for _, w := range m.widgets {
		if keyOf(w) == k {
			return w
		}
	}
	return nil
}
