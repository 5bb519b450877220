// Package geom holds the pure drafting geometry: grid snapping, the
// orthogonal line constraint and rotation of rectangles and lines about
// their own center.
package geom

import "math"

// Point is a position in canvas space.
type Point struct{ X, Y float64 }

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Snap rounds v to the nearest multiple of grid. Halfway values round to the
// even multiple. A non-positive grid leaves v untouched.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.RoundToEven(v/grid) * grid
}

// SnapPoint snaps both coordinates of p independently.
func SnapPoint(p Point, grid float64) Point {
	return Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// ConstrainOrthogonal forces the segment start->candidate to be purely
// horizontal or vertical by dropping the smaller delta. Equal deltas give a
// horizontal segment.
func ConstrainOrthogonal(start, candidate Point) Point {
	dx := math.Abs(candidate.X - start.X)
	dy := math.Abs(candidate.Y - start.Y)
	if dx >= dy {
		return Point{X: candidate.X, Y: start.Y}
	}
	return Point{X: start.X, Y: candidate.Y}
}

// RotateAbout rotates p by deg degrees about c.
func RotateAbout(p, c Point, deg float64) Point {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

// RotateRectangle rotates the axis-aligned rectangle spanned by (x1,y1) and
// (x2,y2) about its center. The corners come back in the order
// (x1,y1), (x1,y2), (x2,y2), (x2,y1).
func RotateRectangle(x1, y1, x2, y2, deg float64) [4]Point {
	c := Midpoint(Pt(x1, y1), Pt(x2, y2))
	corners := [4]Point{Pt(x1, y1), Pt(x1, y2), Pt(x2, y2), Pt(x2, y1)}
	for i, p := range corners {
		corners[i] = RotateAbout(p, c, deg)
	}
	return corners
}

// RotateLine rotates the segment (x1,y1)-(x2,y2) about its midpoint.
func RotateLine(x1, y1, x2, y2, deg float64) (float64, float64, float64, float64) {
	c := Midpoint(Pt(x1, y1), Pt(x2, y2))
	a := RotateAbout(Pt(x1, y1), c, deg)
	b := RotateAbout(Pt(x2, y2), c, deg)
	return a.X, a.Y, b.X, b.Y
}

// Centroid averages the given points. It returns the zero Point for an empty
// slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(pts))
	return Point{X: c.X / n, Y: c.Y / n}
}

// Bounds returns the min and max corners of pts.
func Bounds(pts []Point) (Point, Point) {
	if len(pts) == 0 {
		return Point{}, Point{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}
