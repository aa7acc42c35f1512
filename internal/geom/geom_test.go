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

import "testing"

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := R(100, 100, 20, 20)
	cases := []struct {
		p    Pt
		want bool
	}{
		{Pt{100, 100}, true},
		{Pt{119, 119}, true},
		{Pt{120, 110}, false},
		{Pt{110, 120}, false},
		{Pt{99, 110}, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.p); got != c.want {
			t.Fatalf("Contains(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestUnionAndIntersect(t *testing.T) {
	a := R(0, 0, 10, 10)
	b := R(5, 5, 10, 10)
	if u := a.Union(b); u != R(0, 0, 15, 15) {
		t.Fatalf("Union = %v", u)
	}
	if i := a.Intersect(b); i != R(5, 5, 5, 5) {
		t.Fatalf("Intersect = %v", i)
	}
	if i := a.Intersect(R(20, 20, 1, 1)); !i.Empty() {
		t.Fatalf("disjoint Intersect should be empty, got %v", i)
	}
}

func TestClampInto(t *testing.T) {
	screen := R(0, 0, 320, 200)
	if got := R(310, -5, 20, 20).ClampInto(screen); got != R(300, 0, 20, 20) {
		t.Fatalf("ClampInto = %v", got)
	}
	if got := R(50, 50, 400, 20).ClampInto(screen); got.X != 0 || got.W != 400 {
		t.Fatalf("oversized rect should pin to left edge, got %v", got)
	}
}

func TestAnchorPoint(t *testing.T) {
	screen := R(0, 0, 640, 480)
	cases := map[Anchor]Pt{
		TopLeft:      {0, 0},
		TopCenter:    {320, 0},
		BottomRight:  {640, 480},
		Center:       {320, 240},
		CenterRight:  {640, 240},
		BottomCenter: {320, 480},
	}
	for a, want := range cases {
		if got := a.Point(screen); got != want {
			t.Fatalf("%s.Point = %v, want %v", a, got, want)
		}
	}
	if ParseAnchor("bottom_right") != BottomRight || ParseAnchor("??") != TopLeft {
		t.Fatalf("ParseAnchor mismatch")
	}
}

func TestSnapToScreenEdges(t *testing.T) {
	screen := R(0, 0, 200, 100)
	moving := R(3, 4, 80, 40)
	snapped, guides := Snap(moving, []Rect{screen}, SnapOptions{Threshold: 6, SnapToEdges: true})
	if snapped.X != 0 || snapped.Y != 0 {
		t.Fatalf("expected snap to 0,0 got %v", snapped)
	}
	var vOK, hOK bool
	for _, g := range guides {
		if g.Orientation == Vertical && g.Position == 0 {
			vOK = true
		}
		if g.Orientation == Horizontal && g.Position == 0 {
			hOK = true
		}
	}
	if !vOK || !hOK {
		t.Fatalf("expected guides at x=0 (%v) and y=0 (%v)", vOK, hOK)
	}
}

func TestSnapToCenters(t *testing.T) {
	target := R(0, 0, 200, 100)
	moving := R(48, 17, 100, 60)
	snapped, _ := Snap(moving, []Rect{target}, SnapOptions{Threshold: 5, SnapToCenters: true})
	if snapped.X != 50 || snapped.Y != 20 {
		t.Fatalf("expected centered at 50,20 got %v", snapped)
	}
}

func TestSnapOutsideThresholdOrDisabled(t *testing.T) {
	moving := R(30, 30, 10, 10)
	if got, g := Snap(moving, []Rect{R(0, 0, 10, 10)}, SnapOptions{Threshold: 4, SnapToEdges: true}); got != moving || len(g) != 0 {
		t.Fatalf("far rect should not snap: %v %v", got, g)
	}
	if got, _ := Snap(moving, []Rect{R(31, 31, 10, 10)}, SnapOptions{SnapToEdges: true}); got != moving {
		t.Fatalf("zero threshold disables snapping")
	}
}
