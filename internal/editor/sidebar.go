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
	"strings"

	"github.com/sahilm/fuzzy"

	"hudlayout/internal/domain"
)

// SidebarGroup is one module with its widgets on the current screen.
type SidebarGroup struct {
	Module  domain.ModuleInfo
	Widgets []Widget
}

// Sidebar lists the current screen's widgets by module and forwards
// selection and toggling to the manager. It holds no widget references of
// its own, so it never outlives a screen.
type Sidebar struct {
	m      *Manager
	filter string
}

func NewSidebar(m *Manager) *Sidebar { return &Sidebar{m: m} }

func (s *Sidebar) Filter() string { return s.filter }

// SetFilter sets a fuzzy query over "module widget" labels.
func (s *Sidebar) SetFilter(q string) { s.filter = strings.TrimSpace(q) }

// Groups returns the filtered widgets grouped by module in registration order.
func (s *Sidebar) Groups() []SidebarGroup {
	widgets := s.m.RegisteredWidgets()
	keep := make([]bool, len(widgets))
	if s.filter == "" {
		for i := range keep {
			keep[i] = true
		}
	} else {
		labels := make([]string, len(widgets))
		for i, w := range widgets {
			labels[i] = Label(w)
		}
		for _, match := range fuzzy.Find(s.filter, labels) {
			keep[match.Index] = true
		}
	}

	var groups []SidebarGroup
	index := map[string]int{}
	for i, w := range widgets {
		if !keep[i] {
			continue
		}
		mi := w.Module()
		gi, ok := index[mi.ID]
		if !ok {
			gi = len(groups)
			index[mi.ID] = gi
			groups = append(groups, SidebarGroup{Module: mi})
		}
		groups[gi].Widgets = append(groups[gi].Widgets, w)
	}
	return groups
}

// Label is the sidebar text of a widget.
func Label(w Widget) string {
	mi := w.Module()
	name := mi.Name
	if name == "" {
		name = mi.ID
	}
	return name + " " + w.DisplayName()
}

func (s *Sidebar) Active() bool     { return s.m.Active() }
func (s *Sidebar) Selected() Widget { return s.m.Selected() }
func (s *Sidebar) Toggle() bool     { return s.m.Toggle() }
func (s *Sidebar) Select(w Widget) bool {
	if !s.m.Active() {
		return false
	}
	return s.m.Select(w)
}
