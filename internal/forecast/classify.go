package forecast

import (
	"github.com/lox/galaxyweather/internal/geometry"
	"github.com/lox/galaxyweather/internal/models"
	"github.com/lox/galaxyweather/internal/orbit"
)

// DayOutcome is one classified day. Perimeter is only set for rainy days.
type DayOutcome struct {
	models.DayWeather
	Perimeter float64
}

// ClassifyDay places every planet for the given day and derives the weather
// from their alignment with the sun.
func ClassifyDay(g Galaxy, day int) DayOutcome {
	var coords [PlanetCount]models.Coordinate
	out := DayOutcome{
		DayWeather: models.DayWeather{
			Day:     day,
			Planets: make([]models.PlanetPosition, 0, PlanetCount),
			Weather: models.WeatherUnknown,
		},
	}
	for i, p := range g.Planets {
		coords[i] = orbit.PlanetOnDay(p, day)
		out.Planets = append(out.Planets, models.PlanetPosition{Name: p.Name, Coordinates: coords[i]})
	}

	switch geometry.ClassifyLineation(coords, g.Sun) {
	case geometry.GalaxyLinear:
		out.Weather = models.WeatherDrought
	case geometry.PlanetsLinear:
		out.Weather = models.WeatherOptimal
	default:
		if geometry.SunInsideTriangle(coords[0], coords[1], coords[2], g.Sun) {
			out.Weather = models.WeatherRainy
			out.Perimeter = geometry.Perimeter(coords[0], coords[1], coords[2])
		}
	}
	return out
}
