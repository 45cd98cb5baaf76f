// Package geo provides the planar bearing and cardinal-direction math that
// the checkpoint congruence engine uses to derive a sense code from the two
// edges incident to a checkpoint node (spec §4.3).
//
// No bearing/geometry library exists anywhere in the retrieved reference
// pack, so this package is a small, explicitly scoped math.Atan2
// implementation rather than a wrapped third-party dependency.
package geo

import "math"

// Point is a planar coordinate in the graph's single metric projection.
type Point struct {
	X float64
	Y float64
}

// Cardinal is one of the four directions the sense-code grammar is built
// from. The numeric values match the reference capacity table's
// convention: E=2 and N=1 sit on the positive axes of the projection
// plane (easting, northing), W=3 and S=4 on the negative ones.
type Cardinal int

const (
	CardinalN Cardinal = 1
	CardinalE Cardinal = 2
	CardinalW Cardinal = 3
	CardinalS Cardinal = 4
)

// String renders the cardinal's sense-code digit.
func (c Cardinal) String() string {
	switch c {
	case CardinalN:
		return "1"
	case CardinalE:
		return "2"
	case CardinalW:
		return "3"
	case CardinalS:
		return "4"
	default:
		return "0"
	}
}

// Bearing computes the planar angle, in degrees, of the vector from `from`
// to `to`, using the standard math convention (atan2(dy, dx), degrees in
// (-180, 180]). The spec is agnostic to clockwise vs counter-clockwise
// convention as long as the quadrant mapping is applied consistently; this
// implementation treats +X as the reference direction (0°), matching a
// UTM-projected plane where +X is easting.
func Bearing(from, to Point) float64 {
	dx := to.X - from.X
	dy := to.Y - from.Y
	return math.Atan2(dy, dx) * 180 / math.Pi
}

// Distance returns the planar Euclidean distance between two points, used
// by the ingest boundary to find the graph node nearest a zone or
// checkpoint polygon centroid (spec §3 "Zone descriptor").
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CardinalOf maps a bearing in degrees to one of the four cardinal codes
// using the quadrant partition fixed by spec §4.3.c:
//
//	[-45, 45)              -> E
//	[45, 135)               -> N
//	[135, 225) ∪ [-225,-135) -> W
//	remainder ([-135,-45))  -> S
//
// The input is first normalized to (-180, 180], which makes the
// [135,225)/[-225,-135) union collapse to the single wrap-around range
// [135,180] ∪ [-180,-135) — the same quadrant, expressed without needing
// angles outside one full turn.
func CardinalOf(degrees float64) Cardinal {
	a := normalize(degrees)
	switch {
	case a >= -45 && a < 45:
		return CardinalE
	case a >= 45 && a < 135:
		return CardinalN
	case a >= 135 || a < -135:
		return CardinalW
	default:
		return CardinalS
	}
}

// Centroid computes the area-weighted centroid of a closed planar polygon
// given as an ordered list of vertices (first and last vertex need not
// coincide). Used by the ingest boundary to derive the representative
// point for a zone or checkpoint polygon (spec §6 "Zone polygon file").
// Degenerate polygons (fewer than 3 vertices, or zero signed area, as with
// a single point or a denegerate sliver) fall back to the arithmetic mean
// of the vertices.
func Centroid(vertices []Point) Point {
	n := len(vertices)
	if n == 0 {
		return Point{}
	}
	if n < 3 {
		return meanPoint(vertices)
	}

	var area, cx, cy float64
	for i := 0; i < n; i++ {
		p0 := vertices[i]
		p1 := vertices[(i+1)%n]
		cross := p0.X*p1.Y - p1.X*p0.Y
		area += cross
		cx += (p0.X + p1.X) * cross
		cy += (p0.Y + p1.Y) * cross
	}
	area /= 2
	if area == 0 {
		return meanPoint(vertices)
	}
	return Point{X: cx / (6 * area), Y: cy / (6 * area)}
}

func meanPoint(points []Point) Point {
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	if n == 0 {
		return Point{}
	}
	return Point{X: sx / n, Y: sy / n}
}

// normalize folds an angle in degrees into (-180, 180].
func normalize(degrees float64) float64 {
	a := math.Mod(degrees, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}
