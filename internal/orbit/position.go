// Package orbit places planets on circular orbits around the sun.
package orbit

import (
	"math"

	"github.com/lox/galaxyweather/internal/models"
)

// AngleOnDay returns a planet's angular position in degrees after the given
// number of days. Clockwise planets sweep the raw angle directly; the rest use
// its complement.
func AngleOnDay(angularVelocity float64, day int, isClockwise bool) float64 {
	raw := math.Mod(angularVelocity*float64(day), 360)
	if isClockwise {
		return raw
	}
	switch {
	case raw == 0:
		return 0
	case raw < 0:
		return 360
	default:
		return 360 - raw
	}
}

// PositionOnDay returns the planet's Cartesian coordinate on the given day,
// relative to the sun at the origin.
func PositionOnDay(angularVelocity float64, day int, isClockwise bool, solarRadius float64) models.Coordinate {
	rad := AngleOnDay(angularVelocity, day, isClockwise) * math.Pi / 180
	return models.Coordinate{
		X: solarRadius * math.Cos(rad),
		Y: solarRadius * math.Sin(rad),
	}
}

// PlanetOnDay is PositionOnDay for a configured planet.
func PlanetOnDay(p models.Planet, day int) models.Coordinate {
	return PositionOnDay(p.AngularVelocity, day, p.IsClockwise, p.SolarRadius)
}
