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
	"hudlayout/internal/geom"
)

// DefaultHandleSize is the width of the band straddling each widget edge
// in which a press starts a resize.
const DefaultHandleSize = 6

// Edge is a resize direction. Corners combine two sides.
type Edge uint8

const EdgeNone Edge = 0

const (
	EdgeN Edge = 1 << iota
	EdgeS
	EdgeE
	EdgeW

	EdgeNE = EdgeN | EdgeE
	EdgeNW = EdgeN | EdgeW
	EdgeSE = EdgeS | EdgeE
	EdgeSW = EdgeS | EdgeW
)

func (e Edge) String() string {
	switch e {
	case EdgeN:
		return "N"
	case EdgeS:
		return "S"
	case EdgeE:
		return "E"
	case EdgeW:
		return "W"
	case EdgeNE:
		return "NE"
	case EdgeNW:
		return "NW"
	case EdgeSE:
		return "SE"
	case EdgeSW:
		return "SW"
	default:
		return "none"
	}
}

// Corner reports whether the edge resizes both axes.
func (e Edge) Corner() bool {
	return e&(EdgeN|EdgeS) != 0 && e&(EdgeE|EdgeW) != 0
}

// IsInside is the point-in-rectangle test on the widget's current bounds.
func IsInside(w Widget, px, py int) bool {
	return Bounds(w).Contains(geom.Pt{X: px, Y: py})
}

// ResizeEdgeAt returns the resize direction whose band contains the point,
// or EdgeNone. Bands are handle pixels wide, centered on the edge lines.
// Corners are tested before edges so a point in both resolves to the corner.
// Non-resizable widgets always yield EdgeNone.
func ResizeEdgeAt(w Widget, px, py, handle int) Edge {
	if !w.Resizable() {
		return EdgeNone
	}
	return resizeEdge(Bounds(w), px, py, handle)
}

func resizeEdge(r geom.Rect, px, py, handle int) Edge {
	if handle <= 0 {
		handle = DefaultHandleSize
	}
	half := handle / 2

	// which vertical line (W or E) and horizontal line (N or S) is the point near
	var horiz, vert Edge
	dl, dr := abs(px-r.X), abs(px-r.Right())
	if dl <= half || dr <= half {
		if dl <= dr {
			horiz = EdgeW
		} else {
			horiz = EdgeE
		}
	}
	dt, db := abs(py-r.Y), abs(py-r.Bottom())
	if dt <= half || db <= half {
		if dt <= db {
			vert = EdgeN
		} else {
			vert = EdgeS
		}
	}

	if horiz != EdgeNone && vert != EdgeNone {
		return horiz | vert
	}
	inX := px >= r.X-half && px <= r.Right()+half
	inY := py >= r.Y-half && py <= r.Bottom()+half
	if vert != EdgeNone && inX {
		return vert
	}
	if horiz != EdgeNone && inY {
		return horiz
	}
	return EdgeNone
}

// HandleRects returns the eight handle squares drawn around a resizable
// widget, corners first.
func HandleRects(r geom.Rect, handle int) []geom.Rect {
	if handle <= 0 {
		handle = DefaultHandleSize
	}
	h := handle / 2
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	pts := []geom.Pt{
		{X: r.X, Y: r.Y}, {X: r.Right(), Y: r.Y}, {X: r.X, Y: r.Bottom()}, {X: r.Right(), Y: r.Bottom()},
		{X: cx, Y: r.Y}, {X: cx, Y: r.Bottom()}, {X: r.X, Y: cy}, {X: r.Right(), Y: cy},
	}
	out := make([]geom.Rect, 0, len(pts))
	for _, p := range pts {
		out = append(out, geom.R(p.X-h, p.Y-h, handle, handle))
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
