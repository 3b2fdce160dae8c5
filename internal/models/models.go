package models

import "time"

type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Planet struct {
	Name            string  `json:"name"`
	AngularVelocity float64 `json:"angularVelocity"` // degrees per day
	IsClockwise     bool    `json:"isClockwise"`
	SolarRadius     float64 `json:"solarRadius"`
}

type Weather string

const (
	WeatherOptimal Weather = "optimal"
	WeatherDrought Weather = "drought"
	WeatherRainy   Weather = "rainy"
	WeatherUnknown Weather = "unknown"
)

// Weathers lists every classification in a stable order.
var Weathers = []Weather{WeatherDrought, WeatherRainy, WeatherOptimal, WeatherUnknown}

type PlanetPosition struct {
	Name        string     `json:"name"`
	Coordinates Coordinate `json:"coordinates"`
}

type DayWeather struct {
	Day     int              `json:"day"`
	Planets []PlanetPosition `json:"planets"`
	Weather Weather          `json:"weather"`
}

type Periods struct {
	Drought int `json:"drought"`
	Rainy   int `json:"rainy"`
	Optimal int `json:"optimal"`
	Unknown int `json:"unknown"`
}

// Count returns the number of days classified as w.
func (p Periods) Count(w Weather) int {
	switch w {
	case WeatherDrought:
		return p.Drought
	case WeatherRainy:
		return p.Rainy
	case WeatherOptimal:
		return p.Optimal
	case WeatherUnknown:
		return p.Unknown
	}
	return 0
}

// Total returns the number of classified days.
func (p Periods) Total() int {
	return p.Drought + p.Rainy + p.Optimal + p.Unknown
}

type MaxRainIntensityDays struct {
	Days      []int   `json:"days"`
	Perimeter float64 `json:"perimeter"`
}

// Prediction is the result of one run over a day range.
type Prediction struct {
	Periods               Periods              `json:"periods"`
	MaxRainyIntensityDays MaxRainIntensityDays `json:"maxRainyIntensityDays"`
}

type PredictionRun struct {
	ID         int64      `json:"id"`
	Days       int        `json:"days"`
	Prediction Prediction `json:"prediction"`
	CreatedAt  time.Time  `json:"createdAt"`
}
