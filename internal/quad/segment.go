package quad

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// Mask is a binary foreground/background image.
type Mask struct {
	Width  int
	Height int
	Pix    []bool // row-major, true = foreground
}

// NewMask returns an all-background mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]bool, width*height)}
}

// At reports whether (x, y) is foreground. Points outside the mask are
// background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y) as foreground or background.
func (m *Mask) Set(x, y int, v bool) {
	m.Pix[y*m.Width+x] = v
}

// Grayscale converts img to a single-channel image with bounds starting
// at (0, 0). Luminance is 0.3R + 0.6G + 0.1B.
func Grayscale(img image.Image) *image.Gray {
	// bild returns an RGBA image with R = G = B; keep one plane.
	rgba := effect.Grayscale(img)
	b := rgba.Bounds()

	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := gray.Pix[gray.PixOffset(0, y):]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[4*x]
		}
	}

	return gray
}

// OtsuThreshold returns the intensity that maximises the between-class
// variance of the histogram of gray. Pixels strictly above it form the
// bright class.
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]float64
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(b.Min.X, y):gray.PixOffset(b.Max.X, y)]
		for _, v := range row {
			hist[v]++
		}
	}

	total := float64(b.Dx() * b.Dy())
	var sum float64
	for i, n := range hist {
		sum += float64(i) * n
	}

	var (
		sumB, wB float64
		best     uint8
		maxVar   = -1.0
	)
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		sumB += float64(t) * hist[t]
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > maxVar {
			maxVar = between
			best = uint8(t)
		}
	}

	return best
}

// Segment binarises img with an automatic Otsu threshold.
func Segment(img image.Image) *Mask {
	gray := Grayscale(img)
	t := OtsuThreshold(gray)

	b := gray.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)] > t {
				m.Pix[y*m.Width+x] = true
			}
		}
	}

	return m
}
