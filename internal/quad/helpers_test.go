package quad

import (
	"image"
	"image/color"
)

// createTestImage creates a solid color test image.
func createTestImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createBorderedRectImage draws a black rectangle outline of the given
// thickness on a white background. The outline covers x in [x0, x0+w) and
// y in [y0, y0+h).
func createBorderedRectImage(width, height, x0, y0, w, h, thickness int) *image.NRGBA {
	img := createTestImage(width, height, color.White)
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			if x < x0+thickness || x >= x0+w-thickness || y < y0+thickness || y >= y0+h-thickness {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

// createPolygonImage fills the convex polygon pts with white on a black
// background.
func createPolygonImage(width, height int, pts []image.Point) *image.NRGBA {
	img := createTestImage(width, height, color.Black)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if insideConvex(pts, x, y) {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func insideConvex(pts []image.Point, x, y int) bool {
	sign := 0
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}

// gradientImage creates an image whose colour encodes the pixel position.
func gradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	return img
}

func rotateQuad(q Quad, n int) Quad {
	var out Quad
	for i := range 4 {
		out[i] = q[(i+n)%4]
	}
	return out
}

func reverseQuad(q Quad) Quad {
	return Quad{q[3], q[2], q[1], q[0]}
}
