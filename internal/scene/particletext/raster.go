package particletext

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas size the text is rasterized onto.
const (
	CanvasWidth  = 1024
	CanvasHeight = 256
)

// Rasterize draws text in bold white, centred on a black canvas, with a cap
// height of roughly size pixels.
func Rasterize(text string, size int) *image.Gray {
	canvas := image.NewGray(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	if text == "" || size <= 0 {
		return canvas
	}

	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	adv := d.MeasureString(text).Ceil()
	metrics := face.Metrics()
	h := (metrics.Ascent + metrics.Descent).Ceil()

	// One extra column for the faux-bold second pass.
	glyphs := image.NewGray(image.Rect(0, 0, adv+1, h))
	d.Dst = glyphs
	d.Src = image.NewUniform(color.Gray{Y: 0xff})
	for _, dx := range []int{0, 1} {
		d.Dot = fixed.Point26_6{X: fixed.I(dx), Y: metrics.Ascent}
		d.DrawString(text)
	}

	scale := float64(size) / float64(h)
	w := int(float64(glyphs.Bounds().Dx()) * scale)
	sh := int(float64(h) * scale)
	if w > CanvasWidth {
		// Shrink to fit, keeping the aspect ratio.
		sh = sh * CanvasWidth / w
		w = CanvasWidth
	}
	x0 := (CanvasWidth - w) / 2
	y0 := (CanvasHeight - sh) / 2
	draw.NearestNeighbor.Scale(canvas, image.Rect(x0, y0, x0+w, y0+sh), glyphs, glyphs.Bounds(), draw.Over, nil)
	return canvas
}

// Sample walks the canvas every step pixels and returns the lit points, as
// canvas coordinates.
func Sample(img *image.Gray, step int, threshold uint8) []image.Point {
	if step <= 0 {
		step = 1
	}
	b := img.Bounds()
	var pts []image.Point
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			if img.GrayAt(x, y).Y > threshold {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}
