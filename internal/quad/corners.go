package quad

import (
	"image"
	"math"
	"sort"
)

// Corners are the vertices of a quad by role.
type Corners struct {
	TL image.Point
	TR image.Point
	BL image.Point
	BR image.Point
}

// ResolveCorners assigns corner roles to the vertices of q. The result
// depends only on the set of points, never on the winding or the start
// vertex of the contour q came from.
//
// Roles come from the extreme projections: top-left minimises x+y,
// bottom-right maximises it, top-right maximises x-y and bottom-left
// minimises it. When two roles land on the same vertex (a quad rotated by
// about 45 degrees) the points are ordered clockwise around their centroid
// instead, starting from the top-left candidate.
func ResolveCorners(q Quad) Corners {
	sum := func(p image.Point) int { return p.X + p.Y }
	diff := func(p image.Point) int { return p.X - p.Y }

	tl := extreme(q, sum, false)
	br := extreme(q, sum, true)
	tr := extreme(q, diff, true)
	bl := extreme(q, diff, false)

	if distinct(tl, tr, bl, br) {
		return Corners{TL: q[tl], TR: q[tr], BL: q[bl], BR: q[br]}
	}

	return clockwiseCorners(q)
}

// extreme returns the index of the vertex with the smallest (or largest)
// key. Ties are broken by coordinates so the choice is order independent.
func extreme(q Quad, key func(image.Point) int, largest bool) int {
	best := 0
	for i := 1; i < len(q); i++ {
		ki, kb := key(q[i]), key(q[best])
		if largest {
			ki, kb = -ki, -kb
		}
		if ki < kb || (ki == kb && lessPoint(q[i], q[best])) {
			best = i
		}
	}
	return best
}

func lessPoint(a, b image.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func distinct(idx ...int) bool {
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

func clockwiseCorners(q Quad) Corners {
	var cx, cy float64
	for _, p := range q {
		cx += float64(p.X)
		cy += float64(p.Y)
	}
	cx /= 4
	cy /= 4

	pts := make([]image.Point, 4)
	copy(pts, q[:])

	// With y pointing down, increasing atan2 is clockwise on screen.
	angle := func(p image.Point) float64 { return math.Atan2(float64(p.Y)-cy, float64(p.X)-cx) }
	sort.SliceStable(pts, func(i, j int) bool {
		ai, aj := angle(pts[i]), angle(pts[j])
		if ai != aj {
			return ai < aj
		}
		return lessPoint(pts[i], pts[j])
	})

	start := 0
	for i := 1; i < 4; i++ {
		si, ss := pts[i].X+pts[i].Y, pts[start].X+pts[start].Y
		if si < ss || (si == ss && lessPoint(pts[i], pts[start])) {
			start = i
		}
	}

	return Corners{
		TL: pts[start],
		TR: pts[(start+1)%4],
		BR: pts[(start+2)%4],
		BL: pts[(start+3)%4],
	}
}
