/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"hudlayout/internal/config"
	"hudlayout/internal/editor"
	"hudlayout/internal/settings"
)

// Options configure the desktop host.
type Options struct {
	Store  *settings.Store
	Editor config.EditorConfig
	// Screen is the demo screen opened first.
	Screen string
	// Hooks receive every editor commit (history, telemetry).
	Hooks []func(editor.Commit)
}

// NewManager builds the editor manager for a host from the editor config
// and registers the hooks plus autosave.
func NewManager(opts Options, onSaveErr func(error)) *editor.Manager {
	m := editor.NewManager(editor.Options{
		HandleSize:    opts.Editor.ResizeHandleSize,
		MinSize:       opts.Editor.MinSize,
		SnapThreshold: opts.Editor.SnapThreshold,
		UndoDepth:     opts.Editor.UndoDepth,
	})
	for _, h := range opts.Hooks {
		m.OnCommit(h)
	}
	if opts.Editor.Autosave && opts.Store != nil {
		m.OnCommit(func(editor.Commit) {
			if err := opts.Store.SaveIfDirty(); err != nil && onSaveErr != nil {
				onSaveErr(err)
			}
		})
	}
	return m
}
