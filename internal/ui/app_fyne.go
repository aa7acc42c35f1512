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
	"fmt"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"hudlayout/internal/crash"
	"hudlayout/internal/demo"
	"hudlayout/internal/editor"
	"hudlayout/internal/geom"
	applog "hudlayout/internal/log"
	"hudlayout/internal/settings"
)

// frameInterval is the host frame rate the editor is polled at.
const frameInterval = time.Second / 60

// Run opens a window that plays the host application: a demo screen with
// module widgets, the editor toggle and a sidebar of the screen's widgets.
func Run(opts Options) error {
	l := applog.WithComponent("host.fyne")
	defer crash.Recover(opts.Store)
	if opts.Store == nil {
		return fmt.Errorf("no settings store")
	}
	m := NewManager(opts, func(err error) { l.Error("autosave failed", slog.Any("err", err)) })

	a := app.NewWithID("hudlayout")
	w := a.NewWindow("hudlayout")
	hud := NewHudCanvas(m, opts.Store)
	side := editor.NewSidebar(m)

	status := widget.NewLabel("F2: editor mode")
	var rows []editor.Widget
	list := widget.NewList(
		func() int { return len(rows) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(editor.Label(rows[i])) },
	)
	refreshSidebar := func() {
		rows = rows[:0]
		for _, g := range side.Groups() {
			rows = append(rows, g.Widgets...)
		}
		list.Refresh()
	}
	list.OnSelected = func(id widget.ListItemID) {
		if id < len(rows) && side.Select(rows[id]) {
			hud.Refresh()
		}
	}
	filter := widget.NewEntry()
	filter.SetPlaceHolder("filter widgets")
	filter.OnChanged = func(q string) {
		side.SetFilter(q)
		refreshSidebar()
	}

	name := opts.Screen
	if name == "" {
		name = "inventory"
	}
	picker := widget.NewSelect(demo.Screens(), func(sel string) {
		if err := hud.Open(sel); err != nil {
			status.SetText(err.Error())
			return
		}
		refreshSidebar()
	})
	picker.SetSelected(name)

	hud.OnFrame = func() {
		st := fmt.Sprintf("editor: %t  state: %s", m.Active(), m.State())
		if sel := m.Selected(); sel != nil {
			st += "  selected: " + editor.Label(sel)
		}
		if status.Text != st {
			status.SetText(st)
		}
	}

	w.Canvas().SetOnTypedKey(hud.TypedKey)
	w.Canvas().SetOnTypedRune(hud.TypedRune)
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		if m.Undo() {
			hud.Refresh()
		}
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		if m.Redo() {
			hud.Refresh()
		}
	})

	sidebar := container.NewBorder(filter, nil, nil, nil, list)
	split := container.NewHSplit(sidebar, hud)
	split.Offset = 0.22
	w.SetContent(container.NewBorder(picker, status, nil, nil, split))
	w.Resize(fyne.NewSize(1000, 620))

	stop := make(chan struct{})
	go func() {
		t := time.NewTicker(frameInterval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				fyne.Do(hud.Frame)
			}
		}
	}()

	l.Info("host started", slog.String("screen", name))
	w.ShowAndRun()
	close(stop)
	m.EndScreen()
	return opts.Store.SaveIfDirty()
}

// HudCanvas plays a host screen. It records pointer state from mouse
// events and hands it to the editor once per frame, like a game loop
// would.
type HudCanvas struct {
	widget.BaseWidget

	m      *editor.Manager
	store  *settings.Store
	screen *demo.Screen

	mu   sync.Mutex
	px   int
	py   int
	held bool

	// OnFrame runs after every polled frame.
	OnFrame func()
}

var (
	_ desktop.Mouseable = (*HudCanvas)(nil)
	_ desktop.Hoverable = (*HudCanvas)(nil)
	_ fyne.Draggable    = (*HudCanvas)(nil)
)

func NewHudCanvas(m *editor.Manager, store *settings.Store) *HudCanvas {
	c := &HudCanvas{m: m, store: store}
	c.ExtendBaseWidget(c)
	return c
}

// Open begins a demo screen sized to the canvas.
func (c *HudCanvas) Open(name string) error {
	sz := c.Size()
	s, err := demo.Open(c.m, c.store, name, int(sz.Width), int(sz.Height))
	if err != nil {
		return err
	}
	c.screen = s
	c.Refresh()
	return nil
}

func (c *HudCanvas) Screen() *demo.Screen { return c.screen }

func (c *HudCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	if c.screen != nil {
		c.screen.Resize(int(size.Width), int(size.Height))
	}
}

func (c *HudCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 200) }

func (c *HudCanvas) setPointer(p fyne.Position) {
	c.px, c.py = int(p.X), int(p.Y)
}

func (c *HudCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.mu.Lock()
	c.setPointer(e.Position)
	c.held = true
	px, py := c.px, c.py
	c.mu.Unlock()
	if c.screen != nil {
		c.screen.Click(px, py)
	}
}

func (c *HudCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.mu.Lock()
	c.setPointer(e.Position)
	c.held = false
	c.mu.Unlock()
}

func (c *HudCanvas) MouseIn(e *desktop.MouseEvent) { c.MouseMoved(e) }

func (c *HudCanvas) MouseMoved(e *desktop.MouseEvent) {
	c.mu.Lock()
	c.setPointer(e.Position)
	c.mu.Unlock()
}

func (c *HudCanvas) MouseOut() {}

func (c *HudCanvas) Dragged(e *fyne.DragEvent) {
	c.mu.Lock()
	c.setPointer(e.Position)
	c.mu.Unlock()
}

func (c *HudCanvas) DragEnd() {
	c.mu.Lock()
	c.held = false
	c.mu.Unlock()
}

// Frame polls the pointer into the editor and redraws.
func (c *HudCanvas) Frame() {
	c.mu.Lock()
	px, py, held := c.px, c.py, c.held
	c.mu.Unlock()
	c.m.OnFrame(px, py, held)
	c.Refresh()
	if c.OnFrame != nil {
		c.OnFrame()
	}
}

func (c *HudCanvas) TypedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeyF2:
		c.m.Toggle()
	case fyne.KeyLeft:
		c.m.Nudge(-1, 0)
	case fyne.KeyRight:
		c.m.Nudge(1, 0)
	case fyne.KeyUp:
		c.m.Nudge(0, -1)
	case fyne.KeyDown:
		c.m.Nudge(0, 1)
	case fyne.KeyBackspace:
		if c.screen != nil {
			c.screen.Backspace()
		}
	default:
		return
	}
	c.Refresh()
}

func (c *HudCanvas) TypedRune(r rune) {
	if c.screen != nil && c.screen.TypeRune(r) {
		c.Refresh()
	}
}

func (c *HudCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &hudRenderer{c: c}
	r.build()
	return r
}

var (
	colBackground = color.RGBA{R: 30, G: 30, B: 34, A: 255}
	colPanel      = color.RGBA{R: 198, G: 198, B: 198, A: 255}
	colWidget     = color.RGBA{R: 60, G: 60, B: 70, A: 230}
	colText       = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	colFill       = color.RGBA{R: 230, G: 140, B: 40, A: 255}
	colHighlight  = color.RGBA{R: 90, G: 200, B: 255, A: 255}
	colSelected   = color.RGBA{R: 255, G: 220, B: 60, A: 255}
	colHandle     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colGuide      = color.RGBA{R: 255, G: 60, B: 160, A: 255}
	colToggleOn   = color.RGBA{R: 80, G: 200, B: 120, A: 255}
	colToggleOff  = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// hudRenderer rebuilds its objects every refresh; a screen has a handful
// of widgets.
type hudRenderer struct {
	c       *HudCanvas
	objects []fyne.CanvasObject
}

func (r *hudRenderer) Destroy()                     {}
func (r *hudRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *hudRenderer) MinSize() fyne.Size           { return r.c.MinSize() }
func (r *hudRenderer) Layout(fyne.Size)             { r.build() }
func (r *hudRenderer) Refresh()                     { r.build(); canvas.Refresh(r.c) }

func rect(g geom.Rect, fill, stroke color.Color, width float32) *canvas.Rectangle {
	o := canvas.NewRectangle(fill)
	o.StrokeColor = stroke
	o.StrokeWidth = width
	o.Move(fyne.NewPos(float32(g.X), float32(g.Y)))
	o.Resize(fyne.NewSize(float32(g.W), float32(g.H)))
	return o
}

func text(s string, at geom.Pt, size float32) *canvas.Text {
	t := canvas.NewText(s, colText)
	t.TextSize = size
	t.Move(fyne.NewPos(float32(at.X), float32(at.Y)))
	return t
}

func (r *hudRenderer) build() {
	sz := r.c.Size()
	objs := []fyne.CanvasObject{rect(geom.R(0, 0, int(sz.Width), int(sz.Height)), colBackground, nil, 0)}
	s := r.c.screen
	if s == nil {
		r.objects = objs
		return
	}
	objs = append(objs, rect(s.Panel(), colPanel, nil, 0))
	for _, it := range s.Items() {
		objs = append(objs, rect(it.Bounds, colWidget, nil, 0))
		if it.HasFill {
			objs = append(objs, rect(it.Fill, colFill, nil, 0))
		}
		label := it.Caption
		if it.Text != "" {
			label = it.Text
		}
		objs = append(objs, text(label, it.Bounds.Min().Add(geom.Pt{X: 2, Y: 1}), 10))
	}

	ov := r.c.m.Overlay()
	for _, it := range ov.Items {
		stroke := colHighlight
		if it.Selected {
			stroke = colSelected
		}
		objs = append(objs, rect(it.Bounds, color.Transparent, stroke, 1))
		for _, h := range it.Handles {
			objs = append(objs, rect(h, colHandle, nil, 0))
		}
	}
	for _, g := range ov.Guides {
		ln := canvas.NewLine(colGuide)
		ln.StrokeWidth = 1
		ln.Position1 = fyne.NewPos(float32(g.From.X), float32(g.From.Y))
		ln.Position2 = fyne.NewPos(float32(g.To.X), float32(g.To.Y))
		objs = append(objs, ln)
	}

	tc := colToggleOff
	if r.c.m.Active() {
		tc = colToggleOn
	}
	objs = append(objs, rect(s.Toggle.Bounds(), tc, colText, 1))
	r.objects = objs
}
