/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package tui is the terminal settings screen for stored widget layouts:
// browse, filter, show or hide, reset and compare with module defaults.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"hudlayout/internal/domain"
	applog "hudlayout/internal/log"
	"hudlayout/internal/settings"
)

// copyToClipboard is swapped in tests.
var copyToClipboard = clipboard.WriteAll

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	moduleStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type view int

const (
	viewList view = iota
	viewDiff
	viewGuide
)

// Run shows the settings screen and saves the store on quit if anything
// changed.
func Run(store *settings.Store) error {
	m := New(store)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return store.SaveIfDirty()
}

// Model is the bubbletea model of the settings screen.
type Model struct {
	store     *settings.Store
	all       []domain.Key
	rows      []domain.Key
	cursor    int
	filter    textinput.Model
	filtering bool
	view      view
	width     int
	status    string
	quitting  bool
	log       *slog.Logger
}

func New(store *settings.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "filter modules and widgets"
	ti.Prompt = "/ "
	m := Model{store: store, filter: ti, width: 80, log: applog.WithComponent("tui")}
	m.reload()
	return m
}

func (m *Model) reload() {
	m.all = nil
	for _, mod := range m.store.Modules() {
		for _, w := range m.store.Widgets(mod) {
			m.all = append(m.all, domain.Key{Module: mod, Widget: w})
		}
	}
	m.applyFilter()
}

func (m *Model) applyFilter() {
	q := strings.TrimSpace(m.filter.Value())
	if q == "" {
		m.rows = append([]domain.Key(nil), m.all...)
	} else {
		labels := make([]string, len(m.all))
		for i, k := range m.all {
			labels[i] = k.String()
		}
		m.rows = nil
		for _, match := range fuzzy.Find(q, labels) {
			m.rows = append(m.rows, m.all[match.Index])
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

// Selected returns the key under the cursor.
func (m Model) Selected() (domain.Key, bool) {
	if len(m.rows) == 0 {
		return domain.Key{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		if m.view != viewList {
			switch msg.String() {
			case "esc", "q", "d", "?":
				m.view = viewList
			case "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	m.applyFilter()
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key, ok := m.Selected()
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "/":
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case "?":
		m.view = viewGuide
	case "d":
		if ok {
			m.view = viewDiff
		}
	case "e":
		if ok {
			ws, _ := m.store.Lookup(key.Module, key.Widget)
			m.store.SetEnabled(key.Module, key.Widget, !ws.Enabled)
			if ws.Enabled {
				m.status = key.String() + " hidden"
			} else {
				m.status = key.String() + " shown"
			}
		}
	case "m":
		if ok {
			ws, _ := m.store.Lookup(key.Module, key.Widget)
			next := ws.DisplayMode.Next()
			m.store.SetDisplayMode(key.Module, key.Widget, next)
			m.status = fmt.Sprintf("%s display mode %s", key, next)
		}
	case "r":
		if ok {
			m.store.ResetWidget(key.Module, key.Widget)
			m.status = "reset " + key.String()
			m.reload()
		}
	case "R":
		if ok {
			m.store.ResetModule(key.Module)
			m.status = "reset module " + key.Module
			m.reload()
		}
	case "c":
		if ok {
			ws, _ := m.store.Lookup(key.Module, key.Widget)
			if err := copyToClipboard(recordJSON(ws)); err != nil {
				m.log.Warn("clipboard copy failed", slog.Any("err", err))
				m.status = "clipboard unavailable: " + err.Error()
			} else {
				m.status = "copied " + key.String()
			}
		}
	}
	return m, nil
}

// DiffText is the plain diff between the module defaults and the stored
// record of the selected widget.
func (m Model) DiffText(styled bool) string {
	key, ok := m.Selected()
	if !ok {
		return ""
	}
	ws, _ := m.store.Lookup(key.Module, key.Widget)
	def, known := m.store.Defaults(key.Module, key.Widget)
	if !known {
		return "Module defaults are not known until the widget is shown once.\n"
	}
	return renderDiff(recordJSON(def), recordJSON(ws), styled)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewGuide:
		return RenderGuide(m.width) + "\n\n" + statusStyle.Render("esc: back")
	case viewDiff:
		key, _ := m.Selected()
		return titleStyle.Render("Defaults vs stored: "+key.String()) + "\n\n" +
			m.DiffText(true) + "\n" + statusStyle.Render("esc: back")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Widget layout"))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(m.store.Path()))
	b.WriteString("\n\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(statusStyle.Render("no widgets stored yet"))
		b.WriteByte('\n')
	}
	lastModule := ""
	for i, k := range m.rows {
		if k.Module != lastModule {
			b.WriteString(moduleStyle.Render(k.Module))
			b.WriteByte('\n')
			lastModule = k.Module
		}
		ws, _ := m.store.Lookup(k.Module, k.Widget)
		line := fmt.Sprintf("%-18s %5d,%-5d %4dx%-4d %s", k.Widget, ws.OffsetX, ws.OffsetY, ws.Width, ws.Height, ws.DisplayMode)
		if !ws.Enabled {
			line = disabledStyle.Render(line)
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	if key, ok := m.Selected(); ok {
		ws, _ := m.store.Lookup(key.Module, key.Widget)
		b.WriteByte('\n')
		b.WriteString(panelStyle.Render(recordJSON(ws)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(statusStyle.Render("/ filter  e show/hide  m mode  r reset  R reset module  c copy  d diff  ? guide  q quit"))
	return b.String()
}
