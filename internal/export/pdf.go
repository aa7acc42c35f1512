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
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// PDF writes a two-page sheet: the screen drawn to scale, then a table of
// every widget with its stored offset and size. Units are points, one
// screen pixel per point.
func PDF(sh Sheet, path string) error {
	w, h := float64(max(sh.Width, 1)), float64(max(sh.Height, 1))
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle("Widget layout: "+sh.Screen, false)
	pdf.SetAuthor("hudlayout", false)
	pdf.SetAutoPageBreak(false, 0)

	pdf.AddPage()
	pdf.SetDrawColor(90, 90, 96)
	pdf.SetLineWidth(0.5)
	pdf.Rect(0, 0, w, h, "D")
	pdf.SetFont("Helvetica", "", 7)
	for _, it := range sh.Items {
		r, g, b := moduleColor(it.Key.Module)
		if !it.Enabled {
			r, g, b = 160, 160, 160
		}
		pdf.SetDrawColor(int(r), int(g), int(b))
		pdf.SetFillColor(int(r)/2+127, int(g)/2+127, int(b)/2+127)
		bx := it.Bounds
		pdf.Rect(float64(bx.X), float64(bx.Y), float64(bx.W), float64(bx.H), "FD")
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(float64(bx.X)+2, float64(bx.Y)+8, it.Caption)
	}

	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: 595, Ht: 842})
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(36, 36)
	pdf.Cell(0, 16, fmt.Sprintf("%s  (%dx%d)", sh.Screen, sh.Width, sh.Height))
	pdf.Ln(24)
	cols := []struct {
		title string
		width float64
	}{{"Module", 110}, {"Widget", 110}, {"Offset", 70}, {"Size", 60}, {"Mode", 80}, {"Shown", 40}}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetX(36)
	for _, c := range cols {
		pdf.CellFormat(c.width, 14, c.title, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, it := range sh.Items {
		if pdf.GetY() > 800 {
			pdf.AddPageFormat("P", gofpdf.SizeType{Wd: 595, Ht: 842})
			pdf.SetY(36)
		}
		pdf.SetX(36)
		row := []string{
			it.Module,
			it.Name,
			strconv.Itoa(it.Offset.X) + ", " + strconv.Itoa(it.Offset.Y),
			strconv.Itoa(it.Bounds.W) + "x" + strconv.Itoa(it.Bounds.H),
			it.Mode.String(),
			strconv.FormatBool(it.Enabled),
		}
		for i, c := range cols {
			pdf.CellFormat(c.width, 13, row[i], "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
