package quad

import (
	"image"
	"math"
)

// Area returns the enclosed area of the closed polygon pts (shoelace).
func Area(pts []image.Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}

	var s int
	for i := range n {
		a, b := pts[i], pts[(i+1)%n]
		s += a.X*b.Y - b.X*a.Y
	}

	return math.Abs(float64(s)) / 2
}

// Perimeter returns the length of the closed polygon pts.
func Perimeter(pts []image.Point) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}

	var l float64
	for i := range n {
		l += dist(pts[i], pts[(i+1)%n])
	}

	return l
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// segmentDist returns the distance from p to the segment ab.
func segmentDist(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return dist(p, a)
	}

	t := (float64(p.X-a.X)*dx + float64(p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(float64(p.X)-(float64(a.X)+t*dx), float64(p.Y)-(float64(a.Y)+t*dy))
}

// Simplify reduces the closed contour pts with the Douglas-Peucker rule:
// a vertex survives only if some point of the span it splits deviates from
// the chord by more than epsilon. The contour is split at two mutually
// distant anchors first, so the result does not depend on where the
// contour starts. Surviving vertices keep their original order.
func Simplify(pts []image.Point, epsilon float64) []image.Point {
	n := len(pts)
	if n < 3 {
		return append([]image.Point(nil), pts...)
	}

	a := farthestFrom(pts, pts[0])
	b := farthestFrom(pts, pts[a])
	if a > b {
		a, b = b, a
	}

	keep := make([]bool, n)
	keep[a], keep[b] = true, true
	if a != b {
		simplifySpan(pts, a, b, epsilon, keep)
		simplifySpan(pts, b, a+n, epsilon, keep)
	}

	out := make([]image.Point, 0, 8)
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}

	return out
}

func farthestFrom(pts []image.Point, p image.Point) int {
	best, bestD := 0, -1.0
	for i, q := range pts {
		if d := dist(p, q); d > bestD {
			best, bestD = i, d
		}
	}
	return best
}

// simplifySpan marks the vertices to keep strictly between indices first
// and last. Indices wrap around the closed contour.
func simplifySpan(pts []image.Point, first, last int, epsilon float64, keep []bool) {
	n := len(pts)
	type span struct{ i, j int }
	stack := []span{{first, last}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.j-s.i < 2 {
			continue
		}

		a, b := pts[s.i%n], pts[s.j%n]
		idx, maxD := -1, -1.0
		for k := s.i + 1; k < s.j; k++ {
			if d := segmentDist(pts[k%n], a, b); d > maxD {
				idx, maxD = k, d
			}
		}

		if maxD > epsilon {
			keep[idx%n] = true
			stack = append(stack, span{s.i, idx}, span{idx, s.j})
		}
	}
}
