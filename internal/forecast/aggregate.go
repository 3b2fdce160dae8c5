package forecast

import (
	"slices"

	"github.com/lox/galaxyweather/internal/models"
)

// Aggregator owns the running totals of a single run. It is not safe for
// concurrent use; parallel runs give each worker its own and Merge them.
type Aggregator struct {
	periods   models.Periods
	rainDays  []int
	perimeter float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add folds one classified day into the totals.
func (a *Aggregator) Add(o DayOutcome) {
	switch o.Weather {
	case models.WeatherDrought:
		a.periods.Drought++
	case models.WeatherRainy:
		a.periods.Rainy++
		a.observeRain([]int{o.Day}, o.Perimeter)
	case models.WeatherOptimal:
		a.periods.Optimal++
	default:
		a.periods.Unknown++
	}
}

// Merge folds another aggregator's totals into a. Day ranges must be
// disjoint; tied days are kept in ascending order whichever side is merged
// first.
func (a *Aggregator) Merge(b *Aggregator) {
	a.periods.Drought += b.periods.Drought
	a.periods.Rainy += b.periods.Rainy
	a.periods.Optimal += b.periods.Optimal
	a.periods.Unknown += b.periods.Unknown
	if len(b.rainDays) > 0 {
		a.observeRain(b.rainDays, b.perimeter)
	}
}

func (a *Aggregator) observeRain(days []int, perimeter float64) {
	switch {
	case len(a.rainDays) == 0 || perimeter > a.perimeter:
		a.rainDays = slices.Clone(days)
		a.perimeter = perimeter
	case perimeter == a.perimeter:
		last := a.rainDays[len(a.rainDays)-1]
		a.rainDays = append(a.rainDays, days...)
		if days[0] < last {
			slices.Sort(a.rainDays)
		}
	}
}

// Result returns a copy of the current totals.
func (a *Aggregator) Result() models.Prediction {
	days := make([]int, len(a.rainDays))
	copy(days, a.rainDays)
	return models.Prediction{
		Periods: a.periods,
		MaxRainyIntensityDays: models.MaxRainIntensityDays{
			Days:      days,
			Perimeter: a.perimeter,
		},
	}
}
