package store

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/lox/galaxyweather/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store := New(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func dayWeather(day int, w models.Weather) models.DayWeather {
	return models.DayWeather{
		Day: day,
		Planets: []models.PlanetPosition{
			{Name: "Ferengi", Coordinates: models.Coordinate{X: 500, Y: 0}},
			{Name: "Betasoide", Coordinates: models.Coordinate{X: 0, Y: 2000}},
			{Name: "Vulcano", Coordinates: models.Coordinate{X: -1000, Y: 0.5}},
		},
		Weather: w,
	}
}

func TestMigrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.MigrationVersion()
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("version = %d, want %d", version, len(migrations))
	}

	if err := store.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestMigrate_RollsBackFailedMigration(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	saved := migrations
	t.Cleanup(func() { migrations = saved })
	migrations = append(append([]migration(nil), saved[:1]...), migration{
		Version:     2,
		Description: "broken",
		SQL:         `CREATE TABLE half_done (id INTEGER); NOT VALID SQL;`,
	})

	store := New(db)
	if err := store.Migrate(); err == nil {
		t.Fatal("expected error from broken migration")
	}
	if version, err := store.MigrationVersion(); err != nil || version != 1 {
		t.Errorf("MigrationVersion = %d, %v; want 1, nil", version, err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'half_done'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("broken migration left half_done table behind")
	}

	migrations = saved
	if err := store.Migrate(); err != nil {
		t.Fatalf("resume Migrate: %v", err)
	}
	if version, _ := store.MigrationVersion(); version != len(saved) {
		t.Errorf("version after resume = %d, want %d", version, len(saved))
	}
}

func TestSaveAndGetDayWeather(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	want := dayWeather(42, models.WeatherRainy)
	if err := store.SaveDayWeather(ctx, want); err != nil {
		t.Fatalf("SaveDayWeather: %v", err)
	}

	got, err := store.GetDayWeather(ctx, 42)
	if err != nil {
		t.Fatalf("GetDayWeather: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("GetDayWeather = %+v, want %+v", *got, want)
	}
}

func TestSaveDayWeather_Overwrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.SaveDayWeather(ctx, dayWeather(7, models.WeatherUnknown)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveDayWeather(ctx, dayWeather(7, models.WeatherDrought)); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetDayWeather(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got.Weather != models.WeatherDrought {
		t.Errorf("Weather = %q, want drought", got.Weather)
	}

	periods, err := store.CountPeriods(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if periods.Total() != 1 {
		t.Errorf("stored days = %d, want 1", periods.Total())
	}
}

func TestGetDayWeather_NotFound(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.GetDayWeather(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestSaveDayWeather_Concurrent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for day := 1; day <= 40; day++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.SaveDayWeather(ctx, dayWeather(day, models.WeatherOptimal)); err != nil {
				t.Errorf("day %d: %v", day, err)
			}
		}()
	}
	wg.Wait()

	periods, err := store.CountPeriods(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if periods.Optimal != 40 {
		t.Errorf("Optimal = %d, want 40", periods.Optimal)
	}
}

func TestCountPeriods(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	weathers := []models.Weather{
		models.WeatherDrought, models.WeatherRainy, models.WeatherRainy,
		models.WeatherOptimal, models.WeatherUnknown, models.WeatherUnknown, models.WeatherUnknown,
	}
	for i, w := range weathers {
		if err := store.SaveDayWeather(ctx, dayWeather(i+1, w)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.CountPeriods(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := models.Periods{Drought: 1, Rainy: 2, Optimal: 1, Unknown: 3}
	if got != want {
		t.Errorf("CountPeriods = %+v, want %+v", got, want)
	}
}

func TestPredictionRuns(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.GetLatestPredictionRun(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store error = %v, want ErrNotFound", err)
	}

	first := models.Prediction{
		Periods:               models.Periods{Unknown: 9},
		MaxRainyIntensityDays: models.MaxRainIntensityDays{Days: []int{}},
	}
	second := models.Prediction{
		Periods:               models.Periods{Drought: 2, Rainy: 5, Optimal: 1, Unknown: 1},
		MaxRainyIntensityDays: models.MaxRainIntensityDays{Days: []int{3, 8}, Perimeter: 6262.300354},
	}
	if _, err := store.InsertPredictionRun(ctx, 10, first); err != nil {
		t.Fatal(err)
	}
	id, err := store.InsertPredictionRun(ctx, 10, second)
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.GetLatestPredictionRun(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != id {
		t.Errorf("ID = %d, want %d", got.ID, id)
	}
	if got.Days != 10 {
		t.Errorf("Days = %d, want 10", got.Days)
	}
	if !reflect.DeepEqual(got.Prediction, second) {
		t.Errorf("Prediction = %+v, want %+v", got.Prediction, second)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}
