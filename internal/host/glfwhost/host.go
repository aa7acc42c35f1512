//go:build glfw

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package glfwhost

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"hudlayout/internal/demo"
	"hudlayout/internal/editor"
	applog "hudlayout/internal/log"
	"hudlayout/internal/settings"
)

// Config for the window.
type Config struct {
	Width, Height int
	Screen        string
	VSync         bool
}

// Run opens the window and runs the frame loop until it is closed. It must
// be called from the main goroutine.
func Run(cfg Config, m *editor.Manager, store *settings.Store) error {
	l := applog.WithComponent("host.glfw")
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 960, 540
	}
	if cfg.Screen == "" {
		cfg.Screen = "inventory"
	}
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, "hudlayout", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	l.Info("window open", slog.String("gl", gl.GoStr(gl.GetString(gl.VERSION))))

	w, h := win.GetSize()
	screen, err := demo.Open(m, store, cfg.Screen, w, h)
	if err != nil {
		return err
	}
	defer screen.Close()
	poller := NewPoller(m, screen)

	win.SetSizeCallback(func(_ *glfw.Window, w, h int) { screen.Resize(w, h) })
	win.SetCharCallback(func(_ *glfw.Window, r rune) { screen.TypeRune(r) })
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		ctrl := mods&(glfw.ModControl|glfw.ModSuper) != 0
		switch {
		case key == glfw.KeyF2 && action == glfw.Press:
			m.Toggle()
		case key == glfw.KeyZ && ctrl:
			m.Undo()
		case key == glfw.KeyY && ctrl:
			m.Redo()
		case key == glfw.KeyLeft:
			m.Nudge(-1, 0)
		case key == glfw.KeyRight:
			m.Nudge(1, 0)
		case key == glfw.KeyUp:
			m.Nudge(0, -1)
		case key == glfw.KeyDown:
			m.Nudge(0, 1)
		case key == glfw.KeyBackspace:
			screen.Backspace()
		case key == glfw.KeyEscape && !m.Active():
			win.SetShouldClose(true)
		}
	})

	gl.Enable(gl.SCISSOR_TEST)
	for !win.ShouldClose() {
		glfw.PollEvents()
		x, y := win.GetCursorPos()
		poller.Step(x, y, win.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press)
		draw(win, Quads(screen, m.Overlay()))
		win.SwapBuffers()
	}
	return nil
}

// draw paints quads with scissored clears; GL's origin is bottom left and
// the framebuffer may be scaled against window coordinates.
func draw(win *glfw.Window, quads []Quad) {
	fw, fh := win.GetFramebufferSize()
	ww, _ := win.GetSize()
	scale := float32(1)
	if ww > 0 {
		scale = float32(fw) / float32(ww)
	}
	gl.Viewport(0, 0, int32(fw), int32(fh))
	gl.Scissor(0, 0, int32(fw), int32(fh))
	gl.ClearColor(0.12, 0.12, 0.13, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	for _, q := range quads {
		r := q.Rect
		if r.Empty() {
			continue
		}
		x := int32(float32(r.X) * scale)
		y := int32(fh) - int32(float32(r.Bottom())*scale)
		gl.Scissor(x, y, int32(float32(r.W)*scale), int32(float32(r.H)*scale))
		gl.ClearColor(q.R, q.G, q.B, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
	}
}
