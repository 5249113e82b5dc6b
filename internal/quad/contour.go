package quad

import "image"

// Moore neighbourhood, clockwise on screen (y grows downwards) starting east.
var (
	ndx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

const dirWest = 4

func dirIndex(dx, dy int) int {
	for i := range 8 {
		if ndx[i] == dx && ndy[i] == dy {
			return i
		}
	}
	return 0
}

// Contours returns the outer boundary of every 8-connected foreground
// component of m, in the order the components are met in a raster scan.
// Boundaries of holes are never returned.
func Contours(m *Mask) [][]image.Point {
	labels := make([]int, len(m.Pix))
	contours := make([][]image.Point, 0)

	label := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			if !m.Pix[i] || labels[i] != 0 {
				continue
			}

			label++
			labelComponent(m, labels, x, y, label)
			// (x, y) is the top-most, left-most pixel of the component, so
			// it lies on the outer boundary.
			contours = append(contours, traceBoundary(labels, m.Width, m.Height, label, x, y))
		}
	}

	return contours
}

// labelComponent flood-fills the component containing (sx, sy).
func labelComponent(m *Mask, labels []int, sx, sy, label int) {
	stack := []image.Point{{X: sx, Y: sy}}
	labels[sy*m.Width+sx] = label

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for d := range 8 {
			nx, ny := p.X+ndx[d], p.Y+ndy[d]
			if !m.At(nx, ny) {
				continue
			}
			j := ny*m.Width + nx
			if labels[j] != 0 {
				continue
			}
			labels[j] = label
			stack = append(stack, image.Point{X: nx, Y: ny})
		}
	}
}

// traceBoundary follows the outer boundary of a labelled component with
// Moore-neighbour tracing, starting at (sx, sy) which must be the
// component's first pixel in raster order. Tracing stops when the first
// move is about to be repeated.
func traceBoundary(labels []int, w, h, label, sx, sy int) []image.Point {
	isLabel := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && labels[y*w+x] == label
	}

	start := image.Point{X: sx, Y: sy}
	pts := []image.Point{start}

	cur := start
	back := dirWest // the pixel west of the start is never part of the component
	var second image.Point
	maxSteps := 4*w*h + 8

	for step := 0; step < maxSteps; step++ {
		next, nextBack, ok := nextBoundaryPixel(isLabel, cur, back)
		if !ok {
			break // isolated pixel
		}

		if step == 0 {
			second = next
		} else if cur == start && next == second {
			break
		}

		pts = append(pts, next)
		cur, back = next, nextBack
	}

	if n := len(pts); n > 1 && pts[n-1] == start {
		pts = pts[:n-1]
	}

	return pts
}

// nextBoundaryPixel scans the neighbours of cur clockwise, starting after
// the backtrack direction, and returns the first component pixel together
// with the direction from it to the last background pixel examined.
func nextBoundaryPixel(isLabel func(x, y int) bool, cur image.Point, back int) (image.Point, int, bool) {
	prev := image.Point{X: cur.X + ndx[back], Y: cur.Y + ndy[back]}

	for k := 1; k <= 8; k++ {
		d := (back + k) % 8
		n := image.Point{X: cur.X + ndx[d], Y: cur.Y + ndy[d]}
		if isLabel(n.X, n.Y) {
			return n, dirIndex(prev.X-n.X, prev.Y-n.Y), true
		}
		prev = n
	}

	return image.Point{}, 0, false
}
