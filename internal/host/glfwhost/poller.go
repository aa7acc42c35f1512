/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package glfwhost runs a demo screen in a plain GLFW window. It is the
// closest thing to a real game host: nothing delivers drag events, the
// loop samples cursor position and button state once per frame and hands
// them to the editor.
package glfwhost

import (
	"hudlayout/internal/demo"
	"hudlayout/internal/editor"
	"hudlayout/internal/geom"
)

// Poller feeds sampled input to the screen and the editor.
type Poller struct {
	m      *editor.Manager
	screen *demo.Screen
	prev   bool
}

func NewPoller(m *editor.Manager, s *demo.Screen) *Poller {
	return &Poller{m: m, screen: s}
}

// Step handles one frame. A fresh press is offered to the host screen as
// a click first; the editor then sees the level-triggered button state.
func (p *Poller) Step(x, y float64, held bool) {
	px, py := int(x), int(y)
	if held && !p.prev && p.screen != nil {
		p.screen.Click(px, py)
	}
	p.prev = held
	p.m.OnFrame(px, py, held)
}

// Quad is a solid rectangle in screen pixels.
type Quad struct {
	Rect    geom.Rect
	R, G, B float32
}

func outline(r geom.Rect, cr, cg, cb float32) []Quad {
	return []Quad{
		{geom.R(r.X, r.Y, r.W, 1), cr, cg, cb},
		{geom.R(r.X, r.Bottom()-1, r.W, 1), cr, cg, cb},
		{geom.R(r.X, r.Y, 1, r.H), cr, cg, cb},
		{geom.R(r.Right()-1, r.Y, 1, r.H), cr, cg, cb},
	}
}

// Quads lists what to draw this frame, back to front.
func Quads(s *demo.Screen, ov editor.Overlay) []Quad {
	out := []Quad{{s.Panel(), 0.78, 0.78, 0.78}}
	for _, it := range s.Items() {
		out = append(out, Quad{it.Bounds, 0.24, 0.24, 0.28})
		if it.HasFill && !it.Fill.Empty() {
			out = append(out, Quad{it.Fill, 0.9, 0.55, 0.16})
		}
	}
	for _, it := range ov.Items {
		if it.Selected {
			out = append(out, outline(it.Bounds, 1, 0.86, 0.24)...)
		} else {
			out = append(out, outline(it.Bounds, 0.35, 0.78, 1)...)
		}
		for _, h := range it.Handles {
			out = append(out, Quad{h, 1, 1, 1})
		}
	}
	for _, g := range ov.Guides {
		r := geom.R(g.From.X, g.From.Y, max(g.To.X-g.From.X, 1), max(g.To.Y-g.From.Y, 1))
		out = append(out, Quad{r, 1, 0.24, 0.63})
	}
	tc := float32(0.47)
	if ov.Active {
		tc = 0.8
	}
	out = append(out, Quad{s.Toggle.Bounds(), 0.3, tc, 0.45})
	return out
}
