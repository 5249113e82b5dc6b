package quad

import "image"

const (
	minAreaRatio = 0.01
	maxAreaRatio = 0.99
	// Douglas-Peucker tolerance as a fraction of the contour perimeter.
	approxRatio = 0.1
)

// Quad is a contour simplified to exactly four vertices, in the contour's
// own winding order.
type Quad [4]image.Point

// FindQuads returns the four-sided regions of m. Components smaller than
// 1% of the frame are noise and components larger than 99% are the frame
// itself; both are skipped.
func FindQuads(m *Mask) []Quad {
	total := float64(m.Width * m.Height)
	quads := make([]Quad, 0)

	for _, c := range Contours(m) {
		area := Area(c)
		if area < minAreaRatio*total || area > maxAreaRatio*total {
			continue
		}

		poly := Simplify(c, approxRatio*Perimeter(c))
		if len(poly) != 4 {
			continue
		}

		quads = append(quads, Quad{poly[0], poly[1], poly[2], poly[3]})
	}

	return quads
}

// Detect runs segmentation and quad extraction on img. Vertices are in
// img's coordinate space.
func Detect(img image.Image) []Quad {
	quads := FindQuads(Segment(img))

	origin := img.Bounds().Min
	for i := range quads {
		for j := range quads[i] {
			quads[i][j] = quads[i][j].Add(origin)
		}
	}

	return quads
}
