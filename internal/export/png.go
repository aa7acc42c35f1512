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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PNGOptions controls PNG export. Scale defaults to 2.
type PNGOptions struct {
	Scale      int
	Background color.RGBA
	Labels     bool
}

// DefaultPNGOptions draws labels on a dark background.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Scale: 2, Background: color.RGBA{R: 24, G: 24, B: 28, A: 255}, Labels: true}
}

// Render draws the sheet into an image.
func Render(sh Sheet, opt PNGOptions) *image.RGBA {
	scale := opt.Scale
	if scale <= 0 {
		scale = 2
	}
	img := image.NewRGBA(image.Rect(0, 0, max(sh.Width, 1)*scale, max(sh.Height, 1)*scale))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opt.Background}, image.Point{}, draw.Src)
	strokeRect(img, 0, 0, img.Bounds().Dx()-1, img.Bounds().Dy()-1, color.RGBA{R: 90, G: 90, B: 96, A: 255})

	for _, it := range sh.Items {
		r, g, b := moduleColor(it.Key.Module)
		stroke := color.RGBA{R: r, G: g, B: b, A: 255}
		fill := color.RGBA{R: r / 3, G: g / 3, B: b / 3, A: 255}
		if !it.Enabled {
			stroke = color.RGBA{R: 110, G: 110, B: 110, A: 255}
			fill = color.RGBA{R: 40, G: 40, B: 40, A: 255}
		}
		x0, y0 := it.Bounds.X*scale, it.Bounds.Y*scale
		x1, y1 := it.Bounds.Right()*scale-1, it.Bounds.Bottom()*scale-1
		fillRect(img, x0, y0, x1, y1, fill)
		strokeRect(img, x0, y0, x1, y1, stroke)
		if opt.Labels {
			drawLabel(img, x0+3, y0+13, it.Caption, stroke)
		}
	}
	return img
}

// PNG writes the sheet as a PNG file.
func PNG(sh Sheet, path string, opt PNGOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, Render(sh, opt)); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func drawLabel(img *image.RGBA, x, y int, s string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// strokeRect draws a 1px border inclusive of endpoints, clipped to the image.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(img.Bounds())
	draw.Draw(img, r, &image.Uniform{C: col}, image.Point{}, draw.Src)
}
