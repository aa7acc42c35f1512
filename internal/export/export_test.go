/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"encoding/json"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"hudlayout/internal/demo"
	"hudlayout/internal/editor"
	"hudlayout/internal/geom"
	"hudlayout/internal/settings"
)

func demoSheet(t *testing.T, store *settings.Store) Sheet {
	t.Helper()
	m := editor.NewManager(editor.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if _, err := demo.Open(m, store, "inventory", 480, 270); err != nil {
		t.Fatal(err)
	}
	return FromManager(m)
}

func TestFromManager(t *testing.T) {
	sh := demoSheet(t, settings.New(""))
	if sh.Screen != "inventory" || sh.Width != 480 || sh.Height != 270 {
		t.Fatalf("sheet = %+v", sh)
	}
	if len(sh.Items) != 3 {
		t.Fatalf("items = %d", len(sh.Items))
	}
	it := sh.Items[0]
	if it.Key.Module != "inventory" || it.Key.Widget != "sort" || it.Offset != (geom.Pt{X: 2, Y: 4}) || !it.Enabled {
		t.Fatalf("first item = %+v", it)
	}
	empty := FromManager(editor.NewManager(editor.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}))
	if empty.Screen != "" || len(empty.Items) != 0 {
		t.Fatalf("sheet without screen = %+v", empty)
	}
}

func TestRenderColorsWidgets(t *testing.T) {
	store := settings.New("")
	sh := demoSheet(t, store)
	opt := DefaultPNGOptions()
	opt.Labels = false
	img := Render(sh, opt)
	if img.Bounds().Dx() != 960 || img.Bounds().Dy() != 540 {
		t.Fatalf("size = %v", img.Bounds())
	}
	if got := img.RGBAAt(10, 10); got != opt.Background {
		t.Fatalf("background = %v", got)
	}
	// inside the sort button (330,56 20x16)
	r, g, b := moduleColor("inventory")
	want := color.RGBA{R: r / 3, G: g / 3, B: b / 3, A: 255}
	if got := img.RGBAAt(340*2, 64*2); got != want {
		t.Fatalf("widget fill = %v want %v", got, want)
	}

	sh.Items[0].Enabled = false
	img = Render(sh, opt)
	if got := img.RGBAAt(340*2, 64*2); got != (color.RGBA{R: 40, G: 40, B: 40, A: 255}) {
		t.Fatalf("disabled fill = %v", got)
	}
}

func TestWriteAll(t *testing.T) {
	sh := demoSheet(t, settings.New(""))
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteAll(context.Background(), sh, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil || st.Size() == 0 {
			t.Fatalf("%s: %v", p, err)
		}
	}
	data, _ := os.ReadFile(filepath.Join(dir, "inventory.json"))
	var back Sheet
	if err := json.Unmarshal(data, &back); err != nil || len(back.Items) != 3 {
		t.Fatalf("json = %v, %d items", err, len(back.Items))
	}
}

func TestWriteAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := WriteAll(ctx, Sheet{Screen: "x", Width: 10, Height: 10}, t.TempDir()); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestFileBase(t *testing.T) {
	cases := map[string]string{"inventory": "inventory", "big chest/2": "big_chest_2", "": "screen"}
	for in, want := range cases {
		if got := fileBase(in); got != want {
			t.Fatalf("fileBase(%q) = %q want %q", in, got, want)
		}
	}
}
