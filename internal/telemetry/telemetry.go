/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in anonymous usage counters: how often
// widgets get moved, resized or nudged per module, and optional crash
// reports. Nothing is sent unless the user opted in and a URL is set.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"hudlayout/internal/config"
	"hudlayout/internal/editor"
	applog "hudlayout/internal/log"
	"hudlayout/internal/version"
)

// Config holds telemetry settings.
//
// Environment variables read by FromEnv:
//   - HUD_TELEMETRY_OPT_IN: "1", "true", "yes" to enable
//   - HUD_TELEMETRY_URL: URL events are POSTed to as JSON
//   - HUD_CRASH_UPLOAD_URL: URL crash reports are POSTed to
//   - HUD_TELEMETRY_TIMEOUT_MS: request timeout, default 1500ms
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
}

func FromEnv() Config {
	cfg := Config{
		OptIn:     parseBool(os.Getenv(config.EnvTelemetryOptIn)),
		EventsURL: strings.TrimSpace(os.Getenv("HUD_TELEMETRY_URL")),
		CrashURL:  strings.TrimSpace(os.Getenv("HUD_CRASH_UPLOAD_URL")),
		Timeout:   1500 * time.Millisecond,
	}
	if ms := strings.TrimSpace(os.Getenv("HUD_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

// FromAppConfig starts from the environment and applies the YAML settings.
func FromAppConfig(tc config.TelemetryConfig) Config {
	cfg := FromEnv()
	cfg.OptIn = cfg.OptIn || tc.OptIn
	if cfg.EventsURL == "" {
		cfg.EventsURL = strings.TrimSpace(tc.URL)
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Client is an async sender. Send errors are dropped; the queue is bounded
// and never blocks the caller.
type Client struct {
	cfg     Config
	log     *slog.Logger
	cli     *http.Client
	q       chan map[string]any
	pending sync.WaitGroup
	once    sync.Once
	closed  chan struct{}

	mu     sync.Mutex
	counts map[string]map[string]int // kind -> module -> n
}

var (
	defaultClient *Client
	defaultMu     sync.Mutex
)

// Default returns the package client, creating it from env on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// SetDefault installs c as the package client.
func SetDefault(c *Client) {
	defaultMu.Lock()
	defaultClient = c
	defaultMu.Unlock()
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 1500 * time.Millisecond
	}
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan map[string]any, 64),
		closed: make(chan struct{}),
		counts: map[string]map[string]int{},
	}
	go c.loop()
	return c
}

// Enabled reports whether the user opted in and an endpoint is configured.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event queues a small JSON event. Props must not carry personal data.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"name":    name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		payload[k] = v
	}
	c.pending.Add(1)
	select {
	case c.q <- payload:
	default:
		c.pending.Done()
	}
}

// CommitHook counts editor commits by kind and module id. Register it with
// editor.Manager.OnCommit; counters are sent by ReportSession.
func (c *Client) CommitHook() func(editor.Commit) {
	return func(cm editor.Commit) {
		if !c.Enabled() {
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		kind := cm.Kind.String()
		if c.counts[kind] == nil {
			c.counts[kind] = map[string]int{}
		}
		c.counts[kind][cm.Key.Module]++
	}
}

// Counts returns a copy of the commit counters.
func (c *Client) Counts() map[string]map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]map[string]int, len(c.counts))
	for k, mods := range c.counts {
		cp := make(map[string]int, len(mods))
		for m, n := range mods {
			cp[m] = n
		}
		out[k] = cp
	}
	return out
}

// ReportSession queues one "editor_session" event with the counters and
// resets them. Nothing is sent when no commit happened.
func (c *Client) ReportSession() {
	if !c.Enabled() {
		return
	}
	counts := c.Counts()
	if len(counts) == 0 {
		return
	}
	c.mu.Lock()
	c.counts = map[string]map[string]int{}
	c.mu.Unlock()
	c.Event("editor_session", map[string]any{"commits": counts})
}

// Flush waits until queued events were sent or ctx is done.
func (c *Client) Flush(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.q:
			c.send(item)
			c.pending.Done()
		}
	}
}

func (c *Client) send(item map[string]any) {
	buf, err := json.Marshal(item)
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodPost, c.cfg.EventsURL, bytes.NewReader(buf))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		c.log.Debug("telemetry send failed", slog.Any("err", err))
		return
	}
	_ = resp.Body.Close()
	c.log.Debug("telemetry event sent", slog.Any("name", item["name"]))
}

// UploadCrash posts a crash report if the user opted in and a crash URL is
// configured. It blocks for at most the client timeout.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	req, err := http.NewRequest(http.MethodPost, c.cfg.CrashURL, bytes.NewReader(report))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp, err := c.cli.Do(req)
	if err != nil {
		c.log.Debug("crash upload failed", slog.Any("err", err))
		return
	}
	_ = resp.Body.Close()
	c.log.Debug("crash report uploaded")
}
