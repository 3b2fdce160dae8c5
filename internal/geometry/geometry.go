// Package geometry holds the planar tests used to classify a day: whether
// the planets (and the sun) are aligned, and whether the sun lies inside the
// triangle the planets form.
//
// All comparisons use exact floating-point equality.
package geometry

import (
	"math"

	"github.com/lox/galaxyweather/internal/models"
)

// Line is either y = Slope*x + Intercept, or the vertical line x = X when
// Vertical is set.
type Line struct {
	Vertical  bool
	X         float64
	Slope     float64
	Intercept float64
}

// LineThrough returns the line through a and b. Points sharing an x
// coordinate produce a vertical line rather than an infinite slope.
func LineThrough(a, b models.Coordinate) Line {
	if a.X == b.X {
		return Line{Vertical: true, X: a.X}
	}
	m := (b.Y - a.Y) / (b.X - a.X)
	return Line{Slope: m, Intercept: a.Y - m*a.X}
}

// Contains reports whether p satisfies the line equation exactly.
func (l Line) Contains(p models.Coordinate) bool {
	if l.Vertical {
		return p.X == l.X
	}
	return p.Y == l.Slope*p.X+l.Intercept
}

type Lineation int

const (
	PlanetsNotLinear Lineation = iota
	PlanetsLinear
	GalaxyLinear
)

// ClassifyLineation tests the third planet against the line through the first
// two, and the sun against that same line when the planets are aligned.
func ClassifyLineation(planets [3]models.Coordinate, sun models.Coordinate) Lineation {
	line := LineThrough(planets[0], planets[1])
	if !line.Contains(planets[2]) {
		return PlanetsNotLinear
	}
	if line.Contains(sun) {
		return GalaxyLinear
	}
	return PlanetsLinear
}

// TriangleArea returns the unsigned area of abc using the shoelace formula.
func TriangleArea(a, b, c models.Coordinate) float64 {
	return math.Abs((a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y)) / 2.0)
}

// SunInsideTriangle reports whether sun lies inside abc or on its boundary:
// the area of abc must equal the sum of the three triangles obtained by
// swapping one vertex for the sun.
func SunInsideTriangle(a, b, c, sun models.Coordinate) bool {
	abc := TriangleArea(a, b, c)
	sbc := TriangleArea(sun, b, c)
	asc := TriangleArea(a, sun, c)
	abs := TriangleArea(a, b, sun)
	return abc == sbc+asc+abs
}

// Distance returns the Euclidean distance between p and q. It must stay the
// square root of summed squares: math.Hypot can differ in the last place.
func Distance(p, q models.Coordinate) float64 {
	dx, dy := q.X-p.X, q.Y-p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Perimeter returns the perimeter of triangle abc.
func Perimeter(a, b, c models.Coordinate) float64 {
	return Distance(a, b) + Distance(b, c) + Distance(c, a)
}
