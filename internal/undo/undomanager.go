/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"

	"hudlayout/internal/domain"
	"hudlayout/internal/geom"
)

// Entry is one committed geometry change of a widget.
// Scope groups entries per host screen name, so undo follows the screen
// across reopenings. Before and After are relative to the widget's anchor,
// which can move between reopenings.
type Entry struct {
	Scope  string
	Key    domain.Key
	Before geom.Rect
	After  geom.Rect
	TS     time.Time
}

// Config controls depth caps and coalescing behavior.
type Config struct {
	// MaxPerScope limits entries kept per scope (0 means unlimited).
	MaxPerScope int
	// MinInterval coalesces entries for the same widget pushed within the
	// interval, keeping the first Before and the latest After.
	// Zero picks 250ms; negative disables coalescing.
	MinInterval time.Duration
}

// Manager provides in-memory undo/redo stacks per scope.
// It is safe for concurrent use.
type Manager struct {
	cfg  Config
	mu   sync.Mutex
	undo map[string][]Entry
	redo map[string][]Entry
}

func NewManager(cfg Config) *Manager {
	if cfg.MinInterval == 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Entry), redo: make(map[string][]Entry)}
}

// Push records an entry and clears the redo stack of its scope.
// No-op entries (Before == After) are dropped.
func (m *Manager) Push(e Entry) {
	if e.Before == e.After {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[e.Scope]
	if n := len(stack); n > 0 && m.cfg.MinInterval > 0 {
		last := stack[n-1]
		if last.Key == e.Key && e.TS.Sub(last.TS) < m.cfg.MinInterval {
			last.After = e.After
			last.TS = e.TS
			if last.Before == last.After {
				m.undo[e.Scope] = stack[:n-1]
			} else {
				stack[n-1] = last
			}
			m.redo[e.Scope] = nil
			return
		}
	}
	m.undo[e.Scope] = append(stack, e)
	m.redo[e.Scope] = nil
	m.enforceCapLocked(e.Scope)
}

// Undo pops from the scope undo stack and pushes to redo stack.
func (m *Manager) Undo(scope string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[scope]
	if len(stack) == 0 {
		return Entry{}, false
	}
	e := stack[len(stack)-1]
	m.undo[scope] = stack[:len(stack)-1]
	m.redo[scope] = append(m.redo[scope], e)
	return e, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(scope string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[scope]
	if len(r) == 0 {
		return Entry{}, false
	}
	e := r[len(r)-1]
	m.redo[scope] = r[:len(r)-1]
	m.undo[scope] = append(m.undo[scope], e)
	m.enforceCapLocked(scope)
	return e, true
}

func (m *Manager) CanUndo(scope string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[scope]) > 0
}

func (m *Manager) CanRedo(scope string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo[scope]) > 0
}

// Clear drops both stacks of a scope.
func (m *Manager) Clear(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.undo, scope)
	delete(m.redo, scope)
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (scopes int, entries int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.undo {
		if len(v) > 0 {
			scopes++
		}
		entries += len(v)
	}
	return scopes, entries
}

func (m *Manager) enforceCapLocked(scope string) {
	if m.cfg.MaxPerScope <= 0 {
		return
	}
	stack := m.undo[scope]
	if len(stack) > m.cfg.MaxPerScope {
		// drop the oldest extras
		toDrop := len(stack) - m.cfg.MaxPerScope
		m.undo[scope] = append([]Entry{}, stack[toDrop:]...)
	}
}
