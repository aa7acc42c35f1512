/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package widget

import (
	"strings"
	"unicode/utf8"

	"hudlayout/internal/geom"
	"hudlayout/internal/settings"
)

// Kind is the closed set of widget variants.
type Kind int

const (
	KindButton Kind = iota
	KindTextField
	KindProgressBar
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindTextField:
		return "text_field"
	case KindProgressBar:
		return "progress_bar"
	case KindLabel:
		return "label"
	default:
		return "button"
	}
}

// Button runs its handler on click unless editor mode owns the input.
type Button struct {
	*Base
	gate    Gate
	onPress func()
}

func NewButton(store *settings.Store, def Def, gate Gate, onPress func()) *Button {
	def.Resizable = true
	return &Button{Base: NewBase(store, def), gate: gate, onPress: onPress}
}

func (b *Button) Kind() Kind { return KindButton }

// Click reports whether the handler ran.
func (b *Button) Click() bool {
	if (b.gate != nil && b.gate.Active()) || !b.Visible() || b.onPress == nil {
		return false
	}
	b.onPress()
	return true
}

// TextField is a single-line input, e.g. an inventory search box.
type TextField struct {
	*Base
	gate     Gate
	text     string
	MaxLen   int
	onChange func(string)
}

func NewTextField(store *settings.Store, def Def, gate Gate, onChange func(string)) *TextField {
	def.Resizable = true
	return &TextField{Base: NewBase(store, def), gate: gate, MaxLen: 64, onChange: onChange}
}

func (f *TextField) Kind() Kind   { return KindTextField }
func (f *TextField) Text() string { return f.text }

func (f *TextField) editable() bool {
	return (f.gate == nil || !f.gate.Active()) && f.Visible()
}

// Type appends a rune unless the field is full or editor mode is active.
func (f *TextField) Type(r rune) bool {
	if !f.editable() || r < ' ' || (f.MaxLen > 0 && utf8.RuneCountInString(f.text) >= f.MaxLen) {
		return false
	}
	f.set(f.text + string(r))
	return true
}

func (f *TextField) Backspace() bool {
	if !f.editable() || f.text == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(f.text)
	f.set(f.text[:len(f.text)-size])
	return true
}

func (f *TextField) SetText(s string) {
	s = strings.ReplaceAll(s, "\n", " ")
	if f.MaxLen > 0 && utf8.RuneCountInString(s) > f.MaxLen {
		s = string([]rune(s)[:f.MaxLen])
	}
	f.set(s)
}

func (f *TextField) set(s string) {
	if s == f.text {
		return
	}
	f.text = s
	if f.onChange != nil {
		f.onChange(s)
	}
}

// ProgressBar shows a value in 0..1, e.g. fuel left.
type ProgressBar struct {
	*Base
	value float64
}

func NewProgressBar(store *settings.Store, def Def) *ProgressBar {
	def.Resizable = true
	return &ProgressBar{Base: NewBase(store, def)}
}

func (p *ProgressBar) Kind() Kind     { return KindProgressBar }
func (p *ProgressBar) Value() float64 { return p.value }

func (p *ProgressBar) SetValue(v float64) {
	switch {
	case v < 0 || v != v:
		v = 0
	case v > 1:
		v = 1
	}
	p.value = v
}

// FillRect is the filled part of the bar; vertical when taller than wide.
func (p *ProgressBar) FillRect() geom.Rect {
	r := p.Bounds()
	if r.H > r.W {
		fh := int(float64(r.H)*p.value + 0.5)
		return geom.R(r.X, r.Bottom()-fh, r.W, fh)
	}
	return geom.R(r.X, r.Y, int(float64(r.W)*p.value+0.5), r.H)
}

// Label is static text. It supports drag only.
type Label struct {
	*Base
	Text string
}

func NewLabel(store *settings.Store, def Def, text string) *Label {
	def.Resizable = false
	return &Label{Base: NewBase(store, def), Text: text}
}

func (l *Label) Kind() Kind { return KindLabel }
