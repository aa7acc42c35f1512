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

import "strings"

// Anchor names a reference point on a host screen. Modules compute their
// widget anchors from the screen size every time the screen opens.
type Anchor int

const (
	TopLeft Anchor = iota
	TopCenter
	TopRight
	CenterLeft
	Center
	CenterRight
	BottomLeft
	BottomCenter
	BottomRight
)

var anchorNames = [...]string{"top_left", "top_center", "top_right", "center_left", "center", "center_right", "bottom_left", "bottom_center", "bottom_right"}

func (a Anchor) String() string {
	if a < 0 || int(a) >= len(anchorNames) {
		return "top_left"
	}
	return anchorNames[a]
}

// ParseAnchor maps a name to an Anchor; unknown names yield TopLeft.
func ParseAnchor(s string) Anchor {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range anchorNames {
		if n == s {
			return Anchor(i)
		}
	}
	return TopLeft
}

// Point resolves the anchor inside a container rectangle, typically a
// host screen or panel.
func (a Anchor) Point(container Rect) Pt {
	x := container.X
	y := container.Y
	switch a {
	case TopCenter, Center, BottomCenter:
		x += container.W / 2
	case TopRight, CenterRight, BottomRight:
		x += container.W
	}
	switch a {
	case CenterLeft, Center, CenterRight:
		y += container.H / 2
	case BottomLeft, BottomCenter, BottomRight:
		y += container.H
	}
	return Pt{x, y}
}
