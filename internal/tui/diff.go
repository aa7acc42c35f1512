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
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"hudlayout/internal/domain"
)

var (
	diffDel = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	diffAdd = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
	faint   = lipgloss.NewStyle().Faint(true)
)

func recordJSON(ws domain.WidgetSettings) string {
	b, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return ws.String()
	}
	return string(b)
}

type diffLine struct {
	op   dmp.Operation
	text string
}

// lineDiff compares two texts line by line.
func lineDiff(before, after string) []diffLine {
	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(before, after)
	diffs := d.DiffCharsToLines(d.DiffMain(a, b, false), lines)
	var out []diffLine
	for _, df := range diffs {
		for _, l := range strings.Split(strings.TrimSuffix(df.Text, "\n"), "\n") {
			out = append(out, diffLine{op: df.Type, text: l})
		}
	}
	return out
}

// renderDiff shows defaults as "-" and the stored record as "+".
func renderDiff(before, after string, styled bool) string {
	if before == after {
		return "Same as module defaults\n"
	}
	var sb strings.Builder
	for _, l := range lineDiff(before, after) {
		var prefix string
		style := faint
		switch l.op {
		case dmp.DiffDelete:
			prefix, style = "- ", diffDel
		case dmp.DiffInsert:
			prefix, style = "+ ", diffAdd
		default:
			prefix = "  "
		}
		if styled {
			sb.WriteString(style.Render(prefix + l.text))
		} else {
			sb.WriteString(prefix + l.text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
