package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/lox/galaxyweather/internal/metrics"
	"github.com/lox/galaxyweather/internal/models"
)

// ErrNotFound is returned when no record exists for a lookup.
var ErrNotFound = errors.New("record not found")

// maxWriteRetry bounds how long a write waits out a locked database.
const maxWriteRetry = 10 * time.Second

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveDayWeather stores a classified day, replacing any earlier record for
// the same day. Writes that hit a busy database are retried.
func (s *Store) SaveDayWeather(ctx context.Context, dw models.DayWeather) error {
	planets, err := json.Marshal(dw.Planets)
	if err != nil {
		return fmt.Errorf("marshal planets: %w", err)
	}

	operation := func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO day_weather (day, weather, planets_json, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(day) DO UPDATE SET
				weather = excluded.weather,
				planets_json = excluded.planets_json,
				updated_at = excluded.updated_at
		`, dw.Day, string(dw.Weather), string(planets), time.Now().UTC())
		if err != nil && !isBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxElapsedTime = maxWriteRetry
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		metrics.StoreWrites.WithLabelValues("error").Inc()
		return fmt.Errorf("save day %d: %w", dw.Day, err)
	}
	metrics.StoreWrites.WithLabelValues("ok").Inc()
	return nil
}

// GetDayWeather returns the stored record for day, or ErrNotFound.
func (s *Store) GetDayWeather(ctx context.Context, day int) (*models.DayWeather, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT day, weather, planets_json
		FROM day_weather
		WHERE day = ?
	`, day)

	var dw models.DayWeather
	var weather, planets string
	err := row.Scan(&dw.Day, &weather, &planets)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	dw.Weather = models.Weather(weather)
	if err := json.Unmarshal([]byte(planets), &dw.Planets); err != nil {
		return nil, fmt.Errorf("unmarshal planets for day %d: %w", day, err)
	}
	return &dw, nil
}

// CountPeriods tallies the stored days by weather.
func (s *Store) CountPeriods(ctx context.Context) (models.Periods, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT weather, COUNT(*) FROM day_weather GROUP BY weather`)
	if err != nil {
		return models.Periods{}, err
	}
	defer rows.Close()

	var p models.Periods
	for rows.Next() {
		var weather string
		var n int
		if err := rows.Scan(&weather, &n); err != nil {
			return models.Periods{}, err
		}
		switch models.Weather(weather) {
		case models.WeatherDrought:
			p.Drought = n
		case models.WeatherRainy:
			p.Rainy = n
		case models.WeatherOptimal:
			p.Optimal = n
		default:
			p.Unknown += n
		}
	}
	return p, rows.Err()
}

func (s *Store) InsertPredictionRun(ctx context.Context, days int, p models.Prediction) (int64, error) {
	maxDays, err := json.Marshal(p.MaxRainyIntensityDays.Days)
	if err != nil {
		return 0, fmt.Errorf("marshal max rain days: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO prediction_runs (days, drought, rainy, optimal, unknown, max_rain_perimeter, max_rain_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, days, p.Periods.Drought, p.Periods.Rainy, p.Periods.Optimal, p.Periods.Unknown,
		p.MaxRainyIntensityDays.Perimeter, string(maxDays), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert prediction run: %w", err)
	}
	return result.LastInsertId()
}

// GetLatestPredictionRun returns the most recent run, or ErrNotFound.
func (s *Store) GetLatestPredictionRun(ctx context.Context) (*models.PredictionRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, days, drought, rainy, optimal, unknown, max_rain_perimeter, max_rain_days, created_at
		FROM prediction_runs
		ORDER BY id DESC
		LIMIT 1
	`)

	var run models.PredictionRun
	var maxDays string
	p := &run.Prediction
	err := row.Scan(&run.ID, &run.Days, &p.Periods.Drought, &p.Periods.Rainy, &p.Periods.Optimal, &p.Periods.Unknown,
		&p.MaxRainyIntensityDays.Perimeter, &maxDays, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(maxDays), &p.MaxRainyIntensityDays.Days); err != nil {
		return nil, fmt.Errorf("unmarshal max rain days: %w", err)
	}
	return &run, nil
}

func isBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
