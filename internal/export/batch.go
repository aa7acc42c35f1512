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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	applog "hudlayout/internal/log"
)

// WriteAll writes <screen>.png, <screen>.pdf and <screen>.json into dir
// concurrently and returns the written paths.
func WriteAll(ctx context.Context, sh Sheet, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}
	base := fileBase(sh.Screen)
	paths := []string{
		filepath.Join(dir, base+".png"),
		filepath.Join(dir, base+".pdf"),
		filepath.Join(dir, base+".json"),
	}
	l := applog.WithComponent("export")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return PNG(sh, paths[0], DefaultPNGOptions())
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return PDF(sh, paths[1])
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.MarshalIndent(sh, "", "  ")
		if err != nil {
			return fmt.Errorf("encode sheet: %w", err)
		}
		return os.WriteFile(paths[2], data, 0o644)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	l.Info("layout exported", slog.String("screen", sh.Screen), slog.Int("widgets", len(sh.Items)), slog.String("dir", dir))
	return paths, nil
}

func fileBase(screen string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, strings.TrimSpace(screen))
	if s == "" {
		return "screen"
	}
	return s
}
