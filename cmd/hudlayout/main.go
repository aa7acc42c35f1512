/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"hudlayout/internal/backend"
	"hudlayout/internal/config"
	"hudlayout/internal/crash"
	"hudlayout/internal/demo"
	"hudlayout/internal/editor"
	"hudlayout/internal/export"
	"hudlayout/internal/history"
	applog "hudlayout/internal/log"
	"hudlayout/internal/settings"
	"hudlayout/internal/telemetry"
	"hudlayout/internal/tui"
	"hudlayout/internal/ui"
	"hudlayout/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "hudlayout: movable widget overlays for host screens")
	_, _ = fmt.Fprintf(w, "Version: %s\n\n", version.String())
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  hudlayout version                         Show version")
	_, _ = fmt.Fprintln(w, "  hudlayout config                          Show the effective configuration")
	_, _ = fmt.Fprintln(w, "  hudlayout validate [file]                 Validate a widget settings file")
	_, _ = fmt.Fprintln(w, "  hudlayout inspect                         Browse and edit stored widgets in the terminal")
	_, _ = fmt.Fprintln(w, "  hudlayout export <screen> [w h] [outdir]  Write PNG, PDF and JSON layout sheets")
	_, _ = fmt.Fprintln(w, "  hudlayout history [module [widget]]       Show recent moves and resizes")
	_, _ = fmt.Fprintln(w, "  hudlayout sync push|pull|profiles         Share layouts through Postgres")
	_, _ = fmt.Fprintln(w, "  hudlayout demo [fyne|glfw] [screen]       Run a demo host (build with -tags fyne or glfw)")
	_, _ = fmt.Fprintln(w, "  hudlayout guide                           Show the editor guide")
}

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

// app is what every command shares once the config is loaded.
type app struct {
	cfg   config.AppConfig
	pwd   string
	store *settings.Store
	out   io.Writer
	log   *slog.Logger
}

func run(args []string, out io.Writer) int {
	if len(args) < 2 {
		usage(out)
		return 2
	}
	switch args[1] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(out, version.String())
		return 0
	case "guide":
		_, _ = fmt.Fprintln(out, tui.RenderGuide(80))
		return 0
	case "help", "-h", "--help":
		usage(out)
		return 0
	}

	cfg, pwd, cfgErr := config.Load()
	applog.Init(applog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, AddSource: cfg.Logging.Source, File: cfg.Logging.File})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}
	store, status := settings.Open(cfg.Storage.SettingsFile)
	if status == settings.LoadDiscarded || status == settings.LoadFromBackup {
		l.Warn("widget settings recovered", slog.String("status", status.String()), slog.String("path", store.Path()))
	}
	a := &app{cfg: cfg, pwd: pwd, store: store, out: out, log: l}
	defer crash.Recover(store)

	var err error
	switch args[1] {
	case "config":
		err = a.showConfig()
	case "validate":
		err = a.validate(args[2:])
	case "inspect":
		err = tui.Run(store)
	case "export":
		err = a.export(args[2:])
	case "history":
		err = a.history(args[2:])
	case "sync":
		err = a.sync(args[2:])
	case "demo":
		err = a.demo(args[2:])
	default:
		usage(out)
		return 2
	}
	if err != nil {
		l.Error("command failed", slog.String("cmd", args[1]), slog.Any("err", err))
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) showConfig() error {
	path, _ := config.ConfigPath()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	row := func(key, val string) {
		src := ""
		if env, ok := config.EnvOverrideFor(key); ok {
			src = "(from " + env + ")"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", key, val, src)
	}
	_, _ = fmt.Fprintf(tw, "config file\t%s\t\n", path)
	row("editor.min_size", strconv.Itoa(a.cfg.Editor.MinSize))
	row("editor.resize_handle_size", strconv.Itoa(a.cfg.Editor.ResizeHandleSize))
	row("editor.snap_threshold", strconv.Itoa(a.cfg.Editor.SnapThreshold))
	row("editor.autosave", strconv.FormatBool(a.cfg.Editor.Autosave))
	row("editor.undo_depth", strconv.Itoa(a.cfg.Editor.UndoDepth))
	row("storage.settings_file", a.cfg.Storage.SettingsFile)
	row("storage.history_db", a.cfg.Storage.HistoryDB)
	row("sync.dsn", a.cfg.Sync.DSN)
	row("sync.profile", a.cfg.Sync.Profile)
	row("logging.level", a.cfg.Logging.Level)
	row("logging.format", a.cfg.Logging.Format)
	row("logging.file", a.cfg.Logging.File)
	row("telemetry.opt_in", strconv.FormatBool(a.cfg.Telemetry.OptIn))
	return tw.Flush()
}

func (a *app) validate(args []string) error {
	path := a.store.Path()
	if len(args) > 0 {
		path = args[0]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := settings.Validate(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	mods, err := settings.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	n := 0
	for _, ws := range mods {
		n += len(ws)
	}
	_, _ = fmt.Fprintf(a.out, "%s: OK (%d modules, %d widgets)\n", path, len(mods), n)
	return nil
}

func (a *app) newManager() *editor.Manager {
	return ui.NewManager(ui.Options{Store: a.store, Editor: a.cfg.Editor}, nil)
}

func (a *app) export(args []string) error {
	if len(args) < 1 {
		return errors.New("export requires <screen>")
	}
	w, h := demo.DefaultWidth, demo.DefaultHeight
	rest := args[1:]
	if len(rest) >= 2 {
		var err1, err2 error
		w, err1 = strconv.Atoi(rest[0])
		h, err2 = strconv.Atoi(rest[1])
		if err1 != nil || err2 != nil {
			return errors.New("export size must be two integers")
		}
		rest = rest[2:]
	}
	dir := "."
	if len(rest) > 0 {
		dir = rest[0]
	}
	m := a.newManager()
	if _, err := demo.Open(m, a.store, args[0], w, h); err != nil {
		return err
	}
	defer m.EndScreen()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	paths, err := export.WriteAll(ctx, export.FromManager(m), dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		_, _ = fmt.Fprintln(a.out, p)
	}
	// first use of a screen creates its records
	return a.store.SaveIfDirty()
}

func (a *app) history(args []string) error {
	ctx := context.Background()
	j, err := history.Open(ctx, a.cfg.Storage.HistoryDB)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()
	var module, widget string
	if len(args) > 0 {
		module = args[0]
	}
	if len(args) > 1 {
		widget = args[1]
	}
	entries, err := j.List(ctx, module, widget, 50)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(a.out, "no history yet")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "WHEN\tSCREEN\tWIDGET\tKIND\tBEFORE\tAFTER")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s/%s\t%s\t%d,%d %dx%d\t%d,%d %dx%d\n",
			e.At.Local().Format("2006-01-02 15:04:05"), e.Screen, e.Module, e.Widget, e.Kind,
			e.Before.X, e.Before.Y, e.Before.W, e.Before.H, e.After.X, e.After.Y, e.After.W, e.After.H)
	}
	return tw.Flush()
}

func (a *app) sync(args []string) error {
	if len(args) < 1 {
		return errors.New("sync requires push, pull or profiles")
	}
	dsn, err := backend.WithPassword(a.cfg.Sync.DSN, a.pwd)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s, err := backend.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	switch args[0] {
	case "push":
		n, err := s.Push(ctx, a.cfg.Sync.Profile, a.store)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.out, "pushed %d widgets to profile %s\n", n, a.cfg.Sync.Profile)
	case "pull":
		n, err := s.Pull(ctx, a.cfg.Sync.Profile, a.store)
		if err != nil {
			return err
		}
		if err := a.store.SaveIfDirty(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.out, "pulled %d widgets from profile %s\n", n, a.cfg.Sync.Profile)
	case "profiles":
		ps, err := s.Profiles(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "PROFILE\tWIDGETS\tUPDATED")
		for _, p := range ps {
			_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", p.Name, p.Widgets, p.UpdatedAt.Local().Format(time.RFC3339))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown sync command %q", args[0])
	}
	return nil
}

func (a *app) demo(args []string) error {
	hostName := "fyne"
	if len(args) > 0 {
		hostName = args[0]
	}
	screen := ""
	if len(args) > 1 {
		screen = args[1]
	}

	ctx := context.Background()
	var hooks []func(editor.Commit)
	j, err := history.Open(ctx, a.cfg.Storage.HistoryDB)
	if err != nil {
		a.log.Warn("history disabled", slog.Any("err", err))
	} else {
		defer func() { _ = j.Close() }()
		hooks = append(hooks, j.Hook())
	}
	tc := telemetry.New(telemetry.FromAppConfig(a.cfg.Telemetry))
	telemetry.SetDefault(tc)
	defer func() {
		tc.ReportSession()
		fctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		tc.Flush(fctx)
		cancel()
		tc.Close()
	}()
	hooks = append(hooks, tc.CommitHook())

	opts := ui.Options{Store: a.store, Editor: a.cfg.Editor, Screen: screen, Hooks: hooks}
	switch hostName {
	case "fyne":
		return ui.Run(opts)
	case "glfw":
		m := ui.NewManager(opts, func(err error) { a.log.Error("autosave failed", slog.Any("err", err)) })
		if err := runGLFW(m, a.store, screen); err != nil {
			return err
		}
		return a.store.SaveIfDirty()
	default:
		return fmt.Errorf("unknown host %q (fyne or glfw)", hostName)
	}
}
