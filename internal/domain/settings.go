/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package domain holds the persisted layout model shared by the store,
// the editor and the hosts.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MinSize is the global floor for widget width and height.
const MinSize = 10

// Default widget size used when a module does not declare one.
const (
	DefaultWidth  = 20
	DefaultHeight = 20
)

// DisplayMode selects how a widget labels itself.
type DisplayMode int

const (
	DisplayAuto DisplayMode = iota
	DisplayIconOnly
	DisplayNameAndIcon
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayIconOnly:
		return "icon_only"
	case DisplayNameAndIcon:
		return "name_and_icon"
	default:
		return "auto"
	}
}

// Next cycles Auto -> IconOnly -> NameAndIcon -> Auto.
func (m DisplayMode) Next() DisplayMode {
	switch m {
	case DisplayAuto:
		return DisplayIconOnly
	case DisplayIconOnly:
		return DisplayNameAndIcon
	default:
		return DisplayAuto
	}
}

// ParseDisplayMode maps a stored name to a mode. Unknown names yield Auto.
func ParseDisplayMode(s string) DisplayMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "icon_only", "icononly", "icon":
		return DisplayIconOnly
	case "name_and_icon", "nameandicon", "name":
		return DisplayNameAndIcon
	default:
		return DisplayAuto
	}
}

func (m DisplayMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *DisplayMode) UnmarshalText(b []byte) error {
	*m = ParseDisplayMode(string(b))
	return nil
}

// Key identifies one widget record.
type Key struct {
	Module string
	Widget string
}

func (k Key) String() string { return k.Module + "/" + k.Widget }

// WidgetSettings is the persisted layout of one widget: offset relative to
// the widget's anchor, size, display mode and enabled flag.
//
// Fields absent from a loaded file are tracked so the next Get with
// module defaults can fill them in.
type WidgetSettings struct {
	OffsetX     int
	OffsetY     int
	Width       int
	Height      int
	DisplayMode DisplayMode
	Enabled     bool

	missing fieldMask
}

type fieldMask uint8

const (
	fieldOffsetX fieldMask = 1 << iota
	fieldOffsetY
	fieldWidth
	fieldHeight
	fieldDisplayMode
	fieldEnabled
)

// NewWidgetSettings builds a default-valued record, size clamped to MinSize.
func NewWidgetSettings(offX, offY, w, h int) *WidgetSettings {
	return &WidgetSettings{
		OffsetX: offX,
		OffsetY: offY,
		Width:   ClampSize(w),
		Height:  ClampSize(h),
		Enabled: true,
	}
}

// ClampSize applies the MinSize floor.
func ClampSize(v int) int {
	if v < MinSize {
		return MinSize
	}
	return v
}

// Incomplete reports whether some fields came from an older or partial file.
func (s *WidgetSettings) Incomplete() bool { return s.missing != 0 }

// FillMissing copies the given defaults into fields that were absent when
// the record was loaded. It reports whether anything changed.
func (s *WidgetSettings) FillMissing(def WidgetSettings) bool {
	if s.missing == 0 {
		return false
	}
	if s.missing&fieldOffsetX != 0 {
		s.OffsetX = def.OffsetX
	}
	if s.missing&fieldOffsetY != 0 {
		s.OffsetY = def.OffsetY
	}
	if s.missing&fieldWidth != 0 {
		s.Width = ClampSize(def.Width)
	}
	if s.missing&fieldHeight != 0 {
		s.Height = ClampSize(def.Height)
	}
	if s.missing&fieldDisplayMode != 0 {
		s.DisplayMode = def.DisplayMode
	}
	if s.missing&fieldEnabled != 0 {
		s.Enabled = def.Enabled
	}
	s.missing = 0
	return true
}

// Equal compares the persisted fields.
func (s WidgetSettings) Equal(o WidgetSettings) bool {
	return s.OffsetX == o.OffsetX && s.OffsetY == o.OffsetY &&
		s.Width == o.Width && s.Height == o.Height &&
		s.DisplayMode == o.DisplayMode && s.Enabled == o.Enabled
}

// Values returns a copy without load bookkeeping.
func (s WidgetSettings) Values() WidgetSettings {
	s.missing = 0
	return s
}

func (s WidgetSettings) String() string {
	return fmt.Sprintf("offset=(%d,%d) size=%dx%d mode=%s enabled=%t", s.OffsetX, s.OffsetY, s.Width, s.Height, s.DisplayMode, s.Enabled)
}

type widgetSettingsJSON struct {
	OffsetX     *int         `json:"offsetX,omitempty"`
	OffsetY     *int         `json:"offsetY,omitempty"`
	Width       *int         `json:"width,omitempty"`
	Height      *int         `json:"height,omitempty"`
	DisplayMode *DisplayMode `json:"displayMode,omitempty"`
	Enabled     *bool        `json:"enabled,omitempty"`
}

func (s WidgetSettings) MarshalJSON() ([]byte, error) {
	return json.Marshal(widgetSettingsJSON{
		OffsetX:     &s.OffsetX,
		OffsetY:     &s.OffsetY,
		Width:       &s.Width,
		Height:      &s.Height,
		DisplayMode: &s.DisplayMode,
		Enabled:     &s.Enabled,
	})
}

// UnmarshalJSON accepts partial records; absent fields are remembered for FillMissing.
// Unknown keys are ignored.
func (s *WidgetSettings) UnmarshalJSON(b []byte) error {
	var raw widgetSettingsJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = WidgetSettings{Width: DefaultWidth, Height: DefaultHeight, Enabled: true}
	if raw.OffsetX != nil {
		s.OffsetX = *raw.OffsetX
	} else {
		s.missing |= fieldOffsetX
	}
	if raw.OffsetY != nil {
		s.OffsetY = *raw.OffsetY
	} else {
		s.missing |= fieldOffsetY
	}
	if raw.Width != nil {
		s.Width = ClampSize(*raw.Width)
	} else {
		s.missing |= fieldWidth
	}
	if raw.Height != nil {
		s.Height = ClampSize(*raw.Height)
	} else {
		s.missing |= fieldHeight
	}
	if raw.DisplayMode != nil {
		s.DisplayMode = *raw.DisplayMode
	} else {
		s.missing |= fieldDisplayMode
	}
	if raw.Enabled != nil {
		s.Enabled = *raw.Enabled
	} else {
		s.missing |= fieldEnabled
	}
	return nil
}

// ModuleInfo describes a feature module that owns widgets.
type ModuleInfo struct {
	ID   string
	Name string
}
