/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesJSONToFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "hud.log")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "json", File: fpath, Console: &console})

	l := WithOperation(WithComponent("settings"), "save")
	l.Info("saved", slog.Int("widgets", 3))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	sc := bufio.NewScanner(bytes.NewReader(b))
	found := false
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", sc.Text(), err)
		}
		if m["msg"] == "saved" {
			found = true
			if m["component"] != "settings" || m["op"] != "save" || m["app"] != "hudlayout" {
				t.Fatalf("missing attrs in %v", m)
			}
			if m["widgets"] != float64(3) {
				t.Fatalf("widgets attr = %v", m["widgets"])
			}
		}
	}
	if !found {
		t.Fatalf("record not found in %s", string(b))
	}
	if !strings.Contains(console.String(), `"msg":"saved"`) {
		t.Fatalf("console json output missing record: %q", console.String())
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("HUD_LOG_LEVEL", "warn")
	t.Setenv("HUD_LOG_FORMAT", "json")
	t.Setenv("HUD_LOG_SOURCE", "true")
	t.Setenv("HUD_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("HUD_SOME_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestPrettyTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &prettyTextHandler{opts: prettyOpts{Level: slog.LevelWarn}, w: &buf}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}
	l := slog.New(h).With(slog.String("component", "editor")).WithGroup("drag")
	l.Warn("clamped", slog.Int("w", 10), slog.String("why", "below min"))

	out := buf.String()
	for _, want := range []string{"WRN clamped", "drag.component=editor", "drag.w=10", `drag.why="below min"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in).Level(); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConsoleAddSourceNamesCaller(t *testing.T) {
	var console bytes.Buffer
	Init(Options{Level: "info", Format: "console", AddSource: true, Console: &console})
	t.Cleanup(func() { Init(Options{Console: &bytes.Buffer{}}) })

	L().Info("with source")
	out := console.String()
	if !strings.Contains(out, "src=") || !strings.Contains(out, "logger_test.go:") {
		t.Fatalf("source missing from %q", out)
	}
}
