/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic on the main goroutine into a crash report
// and a last save of unsaved widget settings.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "hudlayout/internal/log"
	"hudlayout/internal/settings"
	"hudlayout/internal/telemetry"
	"hudlayout/internal/version"
)

// exitFn is swapped in tests.
var exitFn = os.Exit

// Recover captures a panic, logs it with the stack, writes a report next
// to the settings backups and saves the store if it has unsaved changes.
//
// Usage: defer crash.Recover(store)
func Recover(store *settings.Store) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(store, r, stack)
	if err != nil {
		l.Error("crash report not written", slog.Any("err", err))
	}
	if store != nil && store.Dirty() {
		if err := store.Save(); err != nil {
			l.Error("saving widget settings failed", slog.Any("err", err))
		} else {
			l.Info("widget settings saved", slog.String("path", store.Path()))
		}
	}

	_, _ = fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func reportDir(store *settings.Store) string {
	if store == nil || store.Path() == "" {
		return os.TempDir()
	}
	dir := filepath.Join(filepath.Dir(store.Path()), settings.BackupsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return os.TempDir()
	}
	return dir
}

func writeReport(store *settings.Store, panicVal any, stack []byte) (string, error) {
	now := time.Now()
	path := filepath.Join(reportDir(store), fmt.Sprintf("crash-%s.log", now.Format("20060102-150405")))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "hudlayout crash report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", now.Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if store != nil {
		_, _ = fmt.Fprintf(&buf, "Settings: %s\n", store.Path())
		_, _ = fmt.Fprintf(&buf, "Unsaved: %t\n", store.Dirty())
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", stack)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return path, err
	}
	_ = f.Sync()
	if err := f.Close(); err != nil {
		return path, err
	}

	telemetry.Default().UploadCrash(buf.Bytes())
	return path, nil
}
