package quad

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func rectContour(x0, y0, x1, y1 int) []image.Point {
	pts := make([]image.Point, 0)
	for x := x0; x < x1; x++ {
		pts = append(pts, image.Pt(x, y0))
	}
	for y := y0; y < y1; y++ {
		pts = append(pts, image.Pt(x1, y))
	}
	for x := x1; x > x0; x-- {
		pts = append(pts, image.Pt(x, y1))
	}
	for y := y1; y > y0; y-- {
		pts = append(pts, image.Pt(x0, y))
	}
	return pts
}

func TestArea(t *testing.T) {
	require.Equal(t, 200.0, Area([]image.Point{{0, 0}, {20, 0}, {20, 10}, {0, 10}}))
	require.Equal(t, 200.0, Area([]image.Point{{0, 10}, {20, 10}, {20, 0}, {0, 0}}))
	require.Equal(t, 0.0, Area([]image.Point{{0, 0}, {5, 5}}))
}

func TestPerimeter(t *testing.T) {
	require.Equal(t, 60.0, Perimeter([]image.Point{{0, 0}, {20, 0}, {20, 10}, {0, 10}}))
	require.Equal(t, 0.0, Perimeter([]image.Point{{3, 3}}))
}

func TestSimplify_Rectangle(t *testing.T) {
	c := rectContour(10, 20, 60, 45)

	poly := Simplify(c, 0.1*Perimeter(c))
	require.Len(t, poly, 4)
	require.ElementsMatch(t, []image.Point{{10, 20}, {60, 20}, {60, 45}, {10, 45}}, poly)
}

func TestSimplify_IndependentOfStart(t *testing.T) {
	c := rectContour(0, 0, 40, 30)

	want := Simplify(c, 0.1*Perimeter(c))
	for _, shift := range []int{1, 17, 45, 100} {
		shifted := append(append([]image.Point{}, c[shift:]...), c[:shift]...)
		require.ElementsMatch(t, want, Simplify(shifted, 0.1*Perimeter(shifted)), "shift %d", shift)
	}
}

func TestSimplify_Triangle(t *testing.T) {
	c := []image.Point{}
	for i := 0; i <= 40; i++ {
		c = append(c, image.Pt(i, 0))
	}
	for i := 1; i <= 40; i++ {
		c = append(c, image.Pt(40-i/2, i))
	}
	for i := 39; i > 0; i-- {
		c = append(c, image.Pt(i/2, i))
	}

	require.Len(t, Simplify(c, 0.1*Perimeter(c)), 3)
}

func TestSimplify_Short(t *testing.T) {
	pts := []image.Point{{1, 1}, {2, 2}}
	require.Equal(t, pts, Simplify(pts, 1))
}
