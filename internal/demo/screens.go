/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package demo wires a handful of sample modules onto simulated host
// screens. Hosts, the CLI export command and tests use it to exercise
// editor mode end to end.
package demo

import (
	"fmt"
	"log/slog"
	"sort"

	"hudlayout/internal/domain"
	"hudlayout/internal/editor"
	"hudlayout/internal/geom"
	applog "hudlayout/internal/log"
	"hudlayout/internal/settings"
	"hudlayout/internal/widget"
)

// Sample modules.
var (
	Inventory = domain.ModuleInfo{ID: "inventory", Name: "Inventory Tools"}
	Fuel      = domain.ModuleInfo{ID: "fuel", Name: "Fuel Helper"}
	Chat      = domain.ModuleInfo{ID: "chat", Name: "Chat Mentions"}
	Recovery  = domain.ModuleInfo{ID: "recovery", Name: "Death Recovery"}
)

const (
	DefaultWidth  = 480
	DefaultHeight = 270
)

// element is what every widget kind offers through its embedded Base.
type element interface {
	editor.Widget
	Kind() widget.Kind
	Key() domain.Key
	Caption() string
	Visible() bool
	SetAnchor(p geom.Pt)
	RenderBounds(screenW, screenH int) geom.Rect
}

// layout is the host geometry anchors are computed from.
type layout struct {
	screen geom.Rect
	panel  geom.Rect
}

type placement struct {
	el     element
	anchor func(layout) geom.Pt
}

type screenDef struct {
	panelW, panelH int
	build          func(s *Screen)
}

var screens = map[string]screenDef{
	"inventory": {176, 166, buildInventory},
	"chest":     {176, 222, buildChest},
	"furnace":   {176, 166, buildFurnace},
	"chat":      {0, 0, buildChat},
}

// Screens lists the screen names Open accepts.
func Screens() []string {
	out := make([]string, 0, len(screens))
	for n := range screens {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Item is one widget as the host should draw it this frame.
type Item struct {
	Key     domain.Key
	Kind    widget.Kind
	Bounds  geom.Rect
	Caption string
	Text    string
	// Fill is the filled part of a progress bar.
	Fill    geom.Rect
	HasFill bool
}

// Toggle is the editor chrome button in the screen corner.
type Toggle struct{ rect geom.Rect }

func (t *Toggle) Bounds() geom.Rect { return t.rect }

// Screen is one opening of a simulated host screen.
type Screen struct {
	m      *editor.Manager
	ctx    *editor.Screen
	store  *settings.Store
	def    screenDef
	lay    layout
	items  []placement
	focus  *widget.TextField
	fuel   *widget.ProgressBar
	Toggle *Toggle
	// Events records module actions triggered by host clicks.
	Events []string
	log    *slog.Logger
}

// Open begins the named screen on m and registers the module widgets the
// way a host init hook would.
func Open(m *editor.Manager, store *settings.Store, name string, w, h int) (*Screen, error) {
	def, ok := screens[name]
	if !ok {
		return nil, fmt.Errorf("unknown screen %q", name)
	}
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	s := &Screen{
		m:     m,
		store: store,
		def:   def,
		ctx:   m.BeginScreen(editor.ScreenInfo{Name: name, Width: w, Height: h}),
		log:   applog.WithComponent("demo").With(slog.String("screen", name)),
	}
	s.lay = s.computeLayout(w, h)
	def.build(s)
	s.Toggle = &Toggle{rect: geom.R(w-20, 4, 16, 16)}
	s.ctx.RegisterControl(s.Toggle)
	return s, nil
}

func (s *Screen) computeLayout(w, h int) layout {
	scr := geom.R(0, 0, w, h)
	if s.def.panelW == 0 {
		return layout{screen: scr, panel: scr}
	}
	return layout{screen: scr, panel: geom.R((w-s.def.panelW)/2, (h-s.def.panelH)/2, s.def.panelW, s.def.panelH)}
}

func (s *Screen) add(el element, anchor func(layout) geom.Pt) {
	el.SetAnchor(anchor(s.lay))
	s.items = append(s.items, placement{el: el, anchor: anchor})
	s.ctx.Register(el)
}

func at(a geom.Anchor, onPanel bool) func(layout) geom.Pt {
	return func(l layout) geom.Pt {
		if onPanel {
			return a.Point(l.panel)
		}
		return a.Point(l.screen)
	}
}

func buildInventory(s *Screen) {
	s.add(widget.NewButton(s.store, widget.Def{
		Module: Inventory, ID: "sort", Name: "Sort", Icon: "S",
		OffsetX: 2, OffsetY: 4, Width: 20, Height: 16,
	}, s.m, func() { s.event("inventory.sort") }), at(geom.TopRight, true))
	s.add(s.searchField(), at(geom.TopLeft, true))
	s.add(widget.NewButton(s.store, widget.Def{
		Module: Recovery, ID: "recover", Name: "Recover items", Icon: "R",
		OffsetX: 0, OffsetY: 4, Width: 80, Height: 16, MinWidth: 16,
	}, s.m, func() { s.event("recovery.recover") }), at(geom.BottomLeft, true))
}

func buildChest(s *Screen) {
	s.add(widget.NewButton(s.store, widget.Def{
		Module: Inventory, ID: "sort", Name: "Sort", Icon: "S",
		OffsetX: 2, OffsetY: 4, Width: 20, Height: 16,
	}, s.m, func() { s.event("inventory.sort") }), at(geom.TopRight, true))
	s.add(widget.NewButton(s.store, widget.Def{
		Module: Inventory, ID: "deposit", Name: "Deposit all", Icon: "D",
		OffsetX: 2, OffsetY: 24, Width: 20, Height: 16,
	}, s.m, func() { s.event("inventory.deposit") }), at(geom.TopRight, true))
	s.add(s.searchField(), at(geom.TopLeft, true))
}

func buildFurnace(s *Screen) {
	s.fuel = widget.NewProgressBar(s.store, widget.Def{
		Module: Fuel, ID: "level", Name: "Fuel", Icon: "F",
		OffsetX: -16, OffsetY: -30, Width: 10, Height: 60,
	})
	s.add(s.fuel, at(geom.CenterLeft, true))
	s.add(widget.NewLabel(s.store, widget.Def{
		Module: Fuel, ID: "best", Name: "Best fuel",
		OffsetX: 0, OffsetY: 4, Width: 90, Height: 12,
	}, "Best: coal block"), at(geom.BottomLeft, true))
}

func buildChat(s *Screen) {
	s.add(widget.NewLabel(s.store, widget.Def{
		Module: Chat, ID: "mentions", Name: "Mentions", Icon: "@",
		OffsetX: 4, OffsetY: -60, Width: 120, Height: 12,
	}, "0 mentions"), at(geom.BottomLeft, false))
	s.add(widget.NewTextField(s.store, widget.Def{
		Module: Chat, ID: "filter", Name: "Mention filter", Icon: "?",
		OffsetX: -124, OffsetY: -60, Width: 120, Height: 12,
	}, s.m, nil), at(geom.BottomRight, false))
}

func (s *Screen) searchField() *widget.TextField {
	return widget.NewTextField(s.store, widget.Def{
		Module: Inventory, ID: "search", Name: "Search", Icon: "?",
		OffsetX: 0, OffsetY: -18, Width: 120, Height: 14,
	}, s.m, func(q string) { s.log.Debug("search changed", slog.String("query", q)) })
}

func (s *Screen) event(name string) {
	s.Events = append(s.Events, name)
	s.log.Info("module action", slog.String("action", name))
}

// Info returns the live screen description.
func (s *Screen) Info() editor.ScreenInfo { return s.ctx.Info() }

// Current reports whether the manager still has this screen open.
func (s *Screen) Current() bool { return s.ctx.Current() }

// Widgets returns the registered widgets in registration order.
func (s *Screen) Widgets() []editor.Widget {
	out := make([]editor.Widget, len(s.items))
	for i, p := range s.items {
		out[i] = p.el
	}
	return out
}

// Resize follows a host window resize: anchors are recomputed and every
// widget keeps its stored offset.
func (s *Screen) Resize(w, h int) {
	if !s.ctx.Current() {
		return
	}
	s.lay = s.computeLayout(w, h)
	for _, p := range s.items {
		p.el.SetAnchor(p.anchor(s.lay))
	}
	s.Toggle.rect = geom.R(w-20, 4, 16, 16)
	s.ctx.Resize(w, h)
}

// Panel is the host's own container rectangle.
func (s *Screen) Panel() geom.Rect { return s.lay.panel }

// SetFuel updates the furnace fuel bar, if the screen has one.
func (s *Screen) SetFuel(v float64) {
	if s.fuel != nil {
		s.fuel.SetValue(v)
	}
}

// Click routes a host mouse click. The editor toggle always works; module
// widgets only see the click when editor mode leaves host input alone.
func (s *Screen) Click(px, py int) bool {
	p := geom.Pt{X: px, Y: py}
	if s.Toggle.Bounds().Contains(p) {
		s.m.Toggle()
		return true
	}
	if !s.m.HostInputAllowed(px, py) {
		return false
	}
	s.focus = nil
	for i := len(s.items) - 1; i >= 0; i-- {
		el := s.items[i].el
		if !el.Visible() || !editor.BoundsOn(el, s.ctx.Info()).Contains(p) {
			continue
		}
		switch w := el.(type) {
		case *widget.Button:
			return w.Click()
		case *widget.TextField:
			s.focus = w
			return true
		}
		return false
	}
	return false
}

// TypeRune sends a typed character to the focused text field.
func (s *Screen) TypeRune(r rune) bool {
	if s.focus == nil {
		return false
	}
	return s.focus.Type(r)
}

// Backspace deletes from the focused text field.
func (s *Screen) Backspace() bool {
	if s.focus == nil {
		return false
	}
	return s.focus.Backspace()
}

// Items returns the visible widgets in drawing order.
func (s *Screen) Items() []Item {
	info := s.ctx.Info()
	out := make([]Item, 0, len(s.items))
	for _, p := range s.items {
		el := p.el
		if !el.Visible() {
			continue
		}
		it := Item{
			Key:     el.Key(),
			Kind:    el.Kind(),
			Bounds:  el.RenderBounds(info.Width, info.Height),
			Caption: el.Caption(),
		}
		switch w := el.(type) {
		case *widget.TextField:
			it.Text = w.Text()
		case *widget.Label:
			it.Text = w.Text
		case *widget.ProgressBar:
			f := w.FillRect()
			d := it.Bounds.Min().Sub(w.Bounds().Min())
			it.Fill, it.HasFill = geom.R(f.X+d.X, f.Y+d.Y, f.W, f.H), true
		}
		out = append(out, it)
	}
	return out
}

// Close ends the screen on the manager if it is still current.
func (s *Screen) Close() {
	if s.ctx.Current() {
		s.m.EndScreen()
	}
}
