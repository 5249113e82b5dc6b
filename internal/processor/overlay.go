package processor

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/aliskhannn/image-filter/internal/detector"
	"github.com/aliskhannn/image-filter/internal/quad"
)

// goldenAngle spreads consecutive hues as far apart as possible.
const goldenAngle = 137.508

// palette returns the outline colour of the i-th region.
func palette(i int) color.Color {
	return colorful.Hsv(math.Mod(float64(i)*goldenAngle, 360), 0.85, 0.95)
}

// lineWidth scales the outline with the image, at least 2px.
func lineWidth(dc *gg.Context) float64 {
	return math.Max(2, float64(min(dc.Width(), dc.Height()))/200)
}

// drawBoxes returns a copy of img with every region outlined.
func drawBoxes(img image.Image, regions []detector.Region) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(lineWidth(dc))

	for i, r := range regions {
		b := r.Box
		dc.DrawRectangle(float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()))
		dc.SetColor(palette(i))
		dc.Stroke()
	}

	return dc.Image()
}

// drawQuads returns a copy of img with every quad outlined.
func drawQuads(img image.Image, quads []quad.Quad) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(lineWidth(dc))

	for i, q := range quads {
		dc.MoveTo(float64(q[0].X), float64(q[0].Y))
		for _, v := range q[1:] {
			dc.LineTo(float64(v.X), float64(v.Y))
		}
		dc.ClosePath()
		dc.SetColor(palette(i))
		dc.Stroke()
	}

	return dc.Image()
}
