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
	"testing"

	"hudlayout/internal/geom"
)

func TestResizeEdgeAt(t *testing.T) {
	w := newBox("m", "w", 100, 100, 20, 20)
	cases := []struct {
		name   string
		px, py int
		want   Edge
	}{
		{"north", 110, 100, EdgeN},
		{"south", 110, 120, EdgeS},
		{"east", 120, 110, EdgeE},
		{"west", 100, 110, EdgeW},
		{"south east inside", 119, 119, EdgeSE},
		{"south east outside", 122, 122, EdgeSE},
		{"north west", 98, 99, EdgeNW},
		{"north east", 121, 100, EdgeNE},
		{"south west", 100, 120, EdgeSW},
		{"body", 110, 110, EdgeNone},
		{"far outside", 140, 140, EdgeNone},
		{"beside the band span", 100, 130, EdgeNone},
	}
	for _, c := range cases {
		if got := ResizeEdgeAt(w, c.px, c.py, 6); got != c.want {
			t.Fatalf("%s: ResizeEdgeAt(%d,%d) = %v, want %v", c.name, c.px, c.py, got, c.want)
		}
	}
}

func TestResizeEdgeCornerWinsOverEdge(t *testing.T) {
	w := newBox("m", "w", 0, 0, 40, 40)
	// (2,10) is only in the west band; (2,2) is in the west and north bands
	if got := ResizeEdgeAt(w, 2, 10, 6); got != EdgeW {
		t.Fatalf("got %v, want W", got)
	}
	if got := ResizeEdgeAt(w, 2, 2, 6); got != EdgeNW || !got.Corner() {
		t.Fatalf("got %v, want NW", got)
	}
}

func TestResizeEdgeSkipsNonResizable(t *testing.T) {
	w := newBox("m", "w", 100, 100, 20, 20)
	w.resizable = false
	if got := ResizeEdgeAt(w, 119, 119, 6); got != EdgeNone {
		t.Fatalf("non-resizable widget returned %v", got)
	}
	if !IsInside(w, 119, 119) || IsInside(w, 120, 119) {
		t.Fatalf("IsInside bounds wrong")
	}
}

func TestHandleRects(t *testing.T) {
	hs := HandleRects(geom.R(10, 10, 20, 20), 6)
	if len(hs) != 8 {
		t.Fatalf("want 8 handles, got %d", len(hs))
	}
	if hs[0] != geom.R(7, 7, 6, 6) || hs[3] != geom.R(27, 27, 6, 6) {
		t.Fatalf("corner handles = %v %v", hs[0], hs[3])
	}
}
