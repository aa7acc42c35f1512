/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package tui

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/glamour"
)

//go:embed guide.md
var guideMarkdown string

// GuideMarkdown returns the raw editor guide.
func GuideMarkdown() string { return guideMarkdown }

// RenderGuide renders the guide for a terminal of the given width. It falls
// back to the raw markdown if rendering fails.
func RenderGuide(width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return guideMarkdown
	}
	out, err := r.Render(guideMarkdown)
	if err != nil {
		return guideMarkdown
	}
	return strings.TrimRight(out, "\n ")
}
