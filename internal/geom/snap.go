/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package geom

// Smart guides for dragging widgets against their neighbours and the
// screen edges. Deterministic and UI-agnostic so hosts only draw the result.

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance in pixels at which snapping occurs.
	Threshold     int
	SnapToEdges   bool
	SnapToCenters bool
}

// Orientation of a guide line.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// GuideLine is a visual hint produced by a snap. Position is the x of a
// vertical guide or the y of a horizontal one.
type GuideLine struct {
	Orientation Orientation
	Center      bool
	Position    int
	From, To    Pt
}

// Snap aligns moving to the closest edge or center of any target within
// the threshold, independently per axis. A non-positive threshold disables
// snapping and returns moving unchanged.
func Snap(moving Rect, targets []Rect, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 || (!opts.SnapToEdges && !opts.SnapToCenters) {
		return moving, nil
	}
	bx := best{dist: opts.Threshold + 1}
	by := best{dist: opts.Threshold + 1}

	mc := moving.Center()
	for _, t := range targets {
		tc := t.Center()
		if opts.SnapToEdges {
			// same edge and abutting edge on both axes
			bx.consider(moving.X-t.X, vguide(t.X, moving, t, false))
			bx.consider(moving.Right()-t.Right(), vguide(t.Right(), moving, t, false))
			bx.consider(moving.X-t.Right(), vguide(t.Right(), moving, t, false))
			bx.consider(moving.Right()-t.X, vguide(t.X, moving, t, false))

			by.consider(moving.Y-t.Y, hguide(t.Y, moving, t, false))
			by.consider(moving.Bottom()-t.Bottom(), hguide(t.Bottom(), moving, t, false))
			by.consider(moving.Y-t.Bottom(), hguide(t.Bottom(), moving, t, false))
			by.consider(moving.Bottom()-t.Y, hguide(t.Y, moving, t, false))
		}
		if opts.SnapToCenters {
			bx.consider(mc.X-tc.X, vguide(tc.X, moving, t, true))
			by.consider(mc.Y-tc.Y, hguide(tc.Y, moving, t, true))
		}
	}

	var guides []GuideLine
	snapped := moving
	if bx.dist <= opts.Threshold {
		snapped.X -= bx.delta
		guides = append(guides, bx.guide)
	}
	if by.dist <= opts.Threshold {
		snapped.Y -= by.delta
		guides = append(guides, by.guide)
	}
	return snapped, guides
}

type best struct {
	delta int
	dist  int
	guide GuideLine
}

func (b *best) consider(delta int, g GuideLine) {
	d := delta
	if d < 0 {
		d = -d
	}
	if d < b.dist {
		b.dist = d
		b.delta = delta
		b.guide = g
	}
}

func vguide(x int, a, b Rect, center bool) GuideLine {
	return GuideLine{
		Orientation: Vertical,
		Center:      center,
		Position:    x,
		From:        Pt{x, min(a.Y, b.Y)},
		To:          Pt{x, max(a.Bottom(), b.Bottom())},
	}
}

func hguide(y int, a, b Rect, center bool) GuideLine {
	return GuideLine{
		Orientation: Horizontal,
		Center:      center,
		Position:    y,
		From:        Pt{min(a.X, b.X), y},
		To:          Pt{max(a.Right(), b.Right()), y},
	}
}
