/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history keeps a local SQLite journal of committed widget edits.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hudlayout/internal/editor"
	"hudlayout/internal/geom"
	applog "hudlayout/internal/log"
	"hudlayout/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("history: journal closed")

const schemaVersion = 1

// language=SQL
// dialect=SQLite
const createCommitsSQL = `CREATE TABLE IF NOT EXISTS commits (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	ts        TEXT NOT NULL,
	screen    TEXT NOT NULL,
	module    TEXT NOT NULL,
	widget    TEXT NOT NULL,
	kind      TEXT NOT NULL,
	before_x  INTEGER NOT NULL,
	before_y  INTEGER NOT NULL,
	before_w  INTEGER NOT NULL,
	before_h  INTEGER NOT NULL,
	after_x   INTEGER NOT NULL,
	after_y   INTEGER NOT NULL,
	after_w   INTEGER NOT NULL,
	after_h   INTEGER NOT NULL,
	offset_x  INTEGER,
	offset_y  INTEGER
)`

// language=SQL
// dialect=SQLite
const createCommitsIndexSQL = `CREATE INDEX IF NOT EXISTS idx_commits_widget ON commits(module, widget, id)`

// language=SQL
// dialect=SQLite
const createVersionSQL = `CREATE TABLE IF NOT EXISTS version (
	id         INTEGER PRIMARY KEY CHECK(id=1),
	schema     INTEGER NOT NULL,
	app        TEXT,
	updated_at TEXT NOT NULL
)`

// language=SQL
// dialect=SQLite
const upsertVersionSQL = `INSERT INTO version(id, schema, app, updated_at) VALUES (1, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET schema=excluded.schema, app=excluded.app, updated_at=excluded.updated_at`

// language=SQL
// dialect=SQLite
const insertCommitSQL = `INSERT INTO commits(ts, screen, module, widget, kind,
	before_x, before_y, before_w, before_h, after_x, after_y, after_w, after_h, offset_x, offset_y)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectCommitsSQL = `SELECT id, ts, screen, module, widget, kind,
	before_x, before_y, before_w, before_h, after_x, after_y, after_w, after_h, offset_x, offset_y
	FROM commits`

// language=SQL
// dialect=SQLite
const pruneCommitsSQL = `DELETE FROM commits WHERE id NOT IN (SELECT id FROM commits ORDER BY id DESC LIMIT ?)`

// Entry is one journal row.
type Entry struct {
	ID     int64
	At     time.Time
	Screen string
	Module string
	Widget string
	Kind   string
	Before geom.Rect
	After  geom.Rect
	// Offset is the stored anchor-relative offset, when known.
	Offset    geom.Pt
	HasOffset bool
}

// Journal appends commits to a SQLite file.
type Journal struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	closed bool
	log    *slog.Logger
}

// Open creates or opens the journal at path, enabling WAL and creating the schema.
func Open(ctx context.Context, path string) (*Journal, error) {
	l := applog.WithOperation(applog.WithComponent("history"), "open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	for _, q := range []string{createCommitsSQL, createCommitsIndexSQL, createVersionSQL} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, upsertVersionSQL, schemaVersion, version.String(), time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("write version: %w", err)
	}
	l.Debug("history ready")
	return &Journal{db: db, path: path, log: applog.WithComponent("history")}, nil
}

func (j *Journal) Path() string { return j.path }

// Record appends a commit.
func (j *Journal) Record(ctx context.Context, c editor.Commit) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	var offX, offY sql.NullInt64
	if c.HasSettings {
		offX = sql.NullInt64{Int64: int64(c.Settings.OffsetX), Valid: true}
		offY = sql.NullInt64{Int64: int64(c.Settings.OffsetY), Valid: true}
	}
	at := c.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := j.db.ExecContext(ctx, insertCommitSQL,
		at.UTC().Format(time.RFC3339Nano), c.Screen, c.Key.Module, c.Key.Widget, c.Kind.String(),
		c.Before.X, c.Before.Y, c.Before.W, c.Before.H,
		c.After.X, c.After.Y, c.After.W, c.After.H,
		offX, offY)
	if err != nil {
		return fmt.Errorf("insert commit: %w", err)
	}
	return nil
}

// Hook adapts Record to editor.Manager.OnCommit. Failures are logged.
func (j *Journal) Hook() func(editor.Commit) {
	return func(c editor.Commit) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := j.Record(ctx, c); err != nil && !errors.Is(err, ErrClosed) {
			j.log.Error("record commit failed", slog.String("widget", c.Key.String()), slog.Any("err", err))
		}
	}
}

// List returns the newest entries first. An empty moduleID lists every
// widget; an empty widgetID lists the whole module. limit <= 0 means 50.
func (j *Journal) List(ctx context.Context, moduleID, widgetID string, limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 50
	}
	q := selectCommitsSQL
	var args []any
	switch {
	case moduleID != "" && widgetID != "":
		q += " WHERE module = ? AND widget = ?"
		args = append(args, moduleID, widgetID)
	case moduleID != "":
		q += " WHERE module = ?"
		args = append(args, moduleID)
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query commits: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		var offX, offY sql.NullInt64
		if err := rows.Scan(&e.ID, &ts, &e.Screen, &e.Module, &e.Widget, &e.Kind,
			&e.Before.X, &e.Before.Y, &e.Before.W, &e.Before.H,
			&e.After.X, &e.After.Y, &e.After.W, &e.After.H, &offX, &offY); err != nil {
			return nil, fmt.Errorf("scan commit: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.At = t
		}
		if offX.Valid && offY.Valid {
			e.Offset = geom.Pt{X: int(offX.Int64), Y: int(offY.Int64)}
			e.HasOffset = true
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune keeps the newest keepLast entries and returns how many were removed.
func (j *Journal) Prune(ctx context.Context, keepLast int) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return 0, ErrClosed
	}
	if keepLast < 0 {
		keepLast = 0
	}
	res, err := j.db.ExecContext(ctx, pruneCommitsSQL, keepLast)
	if err != nil {
		return 0, fmt.Errorf("prune commits: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close closes the database. Further calls return ErrClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}
