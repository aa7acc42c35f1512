/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package backend syncs widget layouts with a shared Postgres database so a
// layout can follow the user between machines. Each named profile holds
// one full layout.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"hudlayout/internal/domain"
	applog "hudlayout/internal/log"
	"hudlayout/internal/settings"
)

// ErrNoDSN is returned when sync is used without a configured database.
var ErrNoDSN = errors.New("backend: no sync DSN configured")

// language=SQL
// dialect=PostgreSQL
const upsertProfileSQL = `INSERT INTO profiles(name) VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET updated_at = now()`

// language=SQL
// dialect=PostgreSQL
const upsertLayoutSQL = `INSERT INTO layouts(profile, module, widget, offset_x, offset_y, width, height, display_mode, enabled, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
	ON CONFLICT (profile, module, widget) DO UPDATE SET
		offset_x = excluded.offset_x, offset_y = excluded.offset_y,
		width = excluded.width, height = excluded.height,
		display_mode = excluded.display_mode, enabled = excluded.enabled,
		updated_at = now()`

// language=SQL
// dialect=PostgreSQL
const selectLayoutSQL = `SELECT module, widget, offset_x, offset_y, width, height, display_mode, enabled
	FROM layouts WHERE profile = $1 ORDER BY module, widget`

// language=SQL
// dialect=PostgreSQL
const selectProfilesSQL = `SELECT p.name, count(l.widget), p.updated_at
	FROM profiles p LEFT JOIN layouts l ON l.profile = p.name
	GROUP BY p.name, p.updated_at ORDER BY p.updated_at DESC`

// Profile summarizes one stored layout.
type Profile struct {
	Name      string
	Widgets   int
	UpdatedAt time.Time
}

// Syncer pushes and pulls layouts.
type Syncer struct {
	db  *sql.DB
	log *slog.Logger
}

// Open connects with the pgx stdlib driver, pings and migrates.
func Open(ctx context.Context, dsn string) (*Syncer, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrNoDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s := &Syncer{db: db, log: applog.WithComponent("backend")}
	if err := applyMigrations(pctx, db, s.log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Syncer) Close() error { return s.db.Close() }

// Push uploads every record of the store into the profile.
func (s *Syncer) Push(ctx context.Context, profile string, store *settings.Store) (int, error) {
	profile = normalizeProfile(profile)
	snap := store.Snapshot()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, upsertProfileSQL, profile); err != nil {
		return 0, fmt.Errorf("upsert profile: %w", err)
	}
	for k, ws := range snap {
		if _, err := tx.ExecContext(ctx, upsertLayoutSQL, profile, k.Module, k.Widget,
			ws.OffsetX, ws.OffsetY, ws.Width, ws.Height, ws.DisplayMode.String(), ws.Enabled); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.log.Info("layout pushed", slog.String("profile", profile), slog.Int("widgets", len(snap)))
	return len(snap), nil
}

// Pull copies the profile into the store; remote values win per key and
// local-only records are kept.
func (s *Syncer) Pull(ctx context.Context, profile string, store *settings.Store) (int, error) {
	profile = normalizeProfile(profile)
	rows, err := s.db.QueryContext(ctx, selectLayoutSQL, profile)
	if err != nil {
		return 0, fmt.Errorf("select layout: %w", err)
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		var (
			module, widget, mode string
			ws                   domain.WidgetSettings
		)
		if err := rows.Scan(&module, &widget, &ws.OffsetX, &ws.OffsetY, &ws.Width, &ws.Height, &mode, &ws.Enabled); err != nil {
			return n, fmt.Errorf("scan layout: %w", err)
		}
		ws.DisplayMode = domain.ParseDisplayMode(mode)
		store.Put(module, widget, ws)
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	s.log.Info("layout pulled", slog.String("profile", profile), slog.Int("widgets", n))
	return n, nil
}

// Profiles lists stored layouts, most recently updated first.
func (s *Syncer) Profiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx, selectProfilesSQL)
	if err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}
	defer rows.Close()
	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.Name, &p.Widgets, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func normalizeProfile(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "default"
	}
	return p
}

// WithPassword injects a keyring-held password into a URL-form DSN that
// has a user but no password. Key/value DSNs get a password= pair.
func WithPassword(dsn, password string) (string, error) {
	if password == "" || strings.TrimSpace(dsn) == "" {
		return dsn, nil
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		if u.User == nil {
			return "", errors.New("dsn has no user to attach the password to")
		}
		if _, set := u.User.Password(); set {
			return dsn, nil
		}
		u.User = url.UserPassword(u.User.Username(), password)
		return u.String(), nil
	}
	if strings.Contains(dsn, "password=") {
		return dsn, nil
	}
	return dsn + " password='" + strings.ReplaceAll(password, "'", `\'`) + "'", nil
}
