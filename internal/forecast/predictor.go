package forecast

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/galaxyweather/internal/metrics"
	"github.com/lox/galaxyweather/internal/models"
)

// DayWeatherRepository persists classified days. Implementations used with
// more than one worker must be safe for concurrent use.
type DayWeatherRepository interface {
	SaveDayWeather(ctx context.Context, dw models.DayWeather) error
}

type Predictor struct {
	repo    DayWeatherRepository
	workers int
}

// NewPredictor returns a sequential predictor. repo may be nil, in which case
// days are classified without being persisted.
func NewPredictor(repo DayWeatherRepository) *Predictor {
	return &Predictor{repo: repo, workers: 1}
}

// SetWorkers splits runs across n goroutines. Values below 2 run sequentially.
func (p *Predictor) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	p.workers = n
}

// Execute validates the input and classifies days 1 through days-1.
func (p *Predictor) Execute(ctx context.Context, in Input) (models.Prediction, error) {
	days, g, err := in.Validate()
	if err != nil {
		metrics.PredictionRuns.WithLabelValues("invalid").Inc()
		return models.Prediction{}, err
	}

	start := time.Now()
	agg, err := p.simulate(ctx, days, g)
	if err != nil {
		metrics.PredictionRuns.WithLabelValues("error").Inc()
		return models.Prediction{}, err
	}
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	metrics.PredictionRuns.WithLabelValues("ok").Inc()

	result := agg.Result()
	for _, w := range models.Weathers {
		metrics.DaysClassified.WithLabelValues(string(w)).Add(float64(result.Periods.Count(w)))
	}

	log.Printf("predict: %d days in %s (drought=%d rainy=%d optimal=%d unknown=%d)",
		result.Periods.Total(), time.Since(start).Round(time.Millisecond),
		result.Periods.Drought, result.Periods.Rainy, result.Periods.Optimal, result.Periods.Unknown)
	return result, nil
}

func (p *Predictor) simulate(ctx context.Context, days int, g Galaxy) (*Aggregator, error) {
	ranges := SplitDays(days, p.workers)
	if len(ranges) <= 1 {
		agg := NewAggregator()
		if len(ranges) == 1 {
			if err := p.run(ctx, g, ranges[0], agg); err != nil {
				return nil, err
			}
		}
		return agg, nil
	}

	parts := make([]*Aggregator, len(ranges))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		parts[i] = NewAggregator()
		eg.Go(func() error {
			return p.run(egCtx, g, r, parts[i])
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	agg := NewAggregator()
	for _, part := range parts {
		agg.Merge(part)
	}
	return agg, nil
}

func (p *Predictor) run(ctx context.Context, g Galaxy, r DayRange, agg *Aggregator) error {
	for day := r.First; day <= r.Last; day++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		o := ClassifyDay(g, day)
		if p.repo != nil {
			if err := p.repo.SaveDayWeather(ctx, o.DayWeather); err != nil {
				return fmt.Errorf("save day %d: %w", day, err)
			}
		}
		agg.Add(o)
	}
	return nil
}

// DayRange is an inclusive range of simulated days.
type DayRange struct {
	First int
	Last  int
}

// SplitDays divides the simulated days 1..days-1 into at most n contiguous,
// ascending ranges of near-equal size.
func SplitDays(days, n int) []DayRange {
	total := days - 1
	if total <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}

	ranges := make([]DayRange, 0, n)
	first := 1
	for i := 0; i < n; i++ {
		size := total / n
		if i < total%n {
			size++
		}
		ranges = append(ranges, DayRange{First: first, Last: first + size - 1})
		first += size
	}
	return ranges
}
