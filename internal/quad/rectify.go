package quad

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateRegion is returned when a quad has no area to rectify:
// coincident or collinear corners.
var ErrDegenerateRegion = errors.New("degenerate region")

// Homography is a 3x3 projective transform in row-major order.
type Homography [9]float64

// Apply maps (x, y) through h.
func (h Homography) Apply(x, y float64) (float64, float64) {
	w := h[6]*x + h[7]*y + h[8]
	if w == 0 {
		return math.NaN(), math.NaN()
	}
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w
}

// Inverse returns the inverse transform.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(3, 3, h[:])); err != nil {
		return Homography{}, ErrDegenerateRegion
	}

	var out Homography
	for r := range 3 {
		for c := range 3 {
			out[r*3+c] = inv.At(r, c)
		}
	}
	return out, nil
}

// SolveHomography returns the transform mapping src[i] to dst[i]. The
// bottom-right entry is fixed to 1, leaving an 8x8 linear system.
func SolveHomography(src, dst [4][2]float64) (Homography, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := range 4 {
		x, y := src[i][0], src[i][1]
		u, v := dst[i][0], dst[i][1]
		r := 2 * i

		// u = (h0 x + h1 y + h2) / (h6 x + h7 y + 1)
		a.SetRow(r, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		b.SetVec(r, u)

		// v = (h3 x + h4 y + h5) / (h6 x + h7 y + 1)
		a.SetRow(r+1, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		b.SetVec(r+1, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return Homography{}, ErrDegenerateRegion
	}

	var out Homography
	for i := range 8 {
		out[i] = h.AtVec(i)
	}
	out[8] = 1

	return out, nil
}

// Size returns the output dimensions for c: the rounded lengths of the top
// and left edges.
func (c Corners) Size() (int, int) {
	return int(math.Round(dist(c.TL, c.TR))), int(math.Round(dist(c.TL, c.BL)))
}

// Rectify unwarps the region of src bounded by c into an upright image of
// c.Size().
func Rectify(src image.Image, c Corners) (*image.NRGBA, error) {
	w, h := c.Size()
	if w <= 0 || h <= 0 {
		return nil, ErrDegenerateRegion
	}

	fw, fh := float64(w), float64(h)
	fwd, err := SolveHomography(
		[4][2]float64{pt(c.TL), pt(c.TR), pt(c.BL), pt(c.BR)},
		[4][2]float64{{0, 0}, {fw, 0}, {0, fh}, {fw, fh}},
	)
	if err != nil {
		return nil, err
	}

	inv, err := fwd.Inverse()
	if err != nil {
		return nil, err
	}

	origin := src.Bounds().Min
	in, ok := src.(*image.NRGBA)
	if !ok || in.Rect.Min != (image.Point{}) {
		// Clone normalises the bounds to start at (0, 0).
		in = imaging.Clone(src)
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := range h {
		for x := range w {
			sx, sy := inv.Apply(float64(x), float64(y))
			out.SetNRGBA(x, y, bilinear(in, sx-float64(origin.X), sy-float64(origin.Y)))
		}
	}

	return out, nil
}

func pt(p image.Point) [2]float64 {
	return [2]float64{float64(p.X), float64(p.Y)}
}

// bilinear samples img at a fractional position, clamping to the edges.
func bilinear(img *image.NRGBA, x, y float64) color.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if math.IsNaN(x) || math.IsNaN(y) || w == 0 || h == 0 {
		return color.NRGBA{}
	}

	x = math.Max(0, math.Min(x, float64(w-1)))
	y = math.Max(0, math.Min(y, float64(h-1)))

	x0, y0 := int(x), int(y)
	x1, y1 := min(x0+1, w-1), min(y0+1, h-1)
	fx, fy := x-float64(x0), y-float64(y0)

	p00 := img.Pix[img.PixOffset(x0, y0):]
	p10 := img.Pix[img.PixOffset(x1, y0):]
	p01 := img.Pix[img.PixOffset(x0, y1):]
	p11 := img.Pix[img.PixOffset(x1, y1):]

	var c [4]uint8
	for i := range 4 {
		v := float64(p00[i])*(1-fx)*(1-fy) +
			float64(p10[i])*fx*(1-fy) +
			float64(p01[i])*(1-fx)*fy +
			float64(p11[i])*fx*fy
		c[i] = uint8(math.Round(v))
	}

	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}
