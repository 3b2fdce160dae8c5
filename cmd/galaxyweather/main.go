package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/galaxyweather/internal/api"
	"github.com/lox/galaxyweather/internal/client"
	"github.com/lox/galaxyweather/internal/forecast"
	"github.com/lox/galaxyweather/internal/models"
	"github.com/lox/galaxyweather/internal/store"
)

var defaultGalaxy = forecast.Galaxy{
	Sun: models.Coordinate{X: 0, Y: 0},
	Planets: [forecast.PlanetCount]models.Planet{
		{Name: "Ferengi", AngularVelocity: 1, IsClockwise: true, SolarRadius: 500},
		{Name: "Betasoide", AngularVelocity: 3, IsClockwise: true, SolarRadius: 2000},
		{Name: "Vulcano", AngularVelocity: 5, IsClockwise: false, SolarRadius: 1000},
	},
}

type Globals struct {
	DB      string `help:"Path to SQLite database." default:"data/galaxyweather.db" env:"GALAXY_DB"`
	Galaxy  string `help:"JSON file with sunCoordinates and planets, replacing the built-in galaxy." type:"path" env:"GALAXY_FILE"`
	Days    int    `help:"Days to predict; day 0 is the initial configuration and is not classified." default:"3650" env:"DAYS_TO_PREDICT"`
	Workers int    `help:"Goroutines used to classify days (0 or 1 runs sequentially)." default:"0" env:"GALAXY_WORKERS"`
}

type CLI struct {
	Globals

	Predict PredictCmd `cmd:"" help:"Run a prediction and print period counts and max rain intensity."`
	Serve   ServeCmd   `cmd:"" help:"Serve the lookup and prediction HTTP API."`
	Lookup  LookupCmd  `cmd:"" help:"Ask a running server for the weather on a day."`
	Migrate MigrateCmd `cmd:"" help:"Apply database migrations and exit."`
}

type PredictCmd struct {
	Persist bool `help:"Store every classified day in the database." default:"true" negatable:"" env:"GALAXY_PERSIST"`
}

func (c *PredictCmd) Run(g *Globals) error {
	in, err := g.input()
	if err != nil {
		return err
	}

	var repo forecast.DayWeatherRepository
	var st *store.Store
	if c.Persist {
		db, s, err := openStore(g.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		repo, st = s, s
	}

	predictor := forecast.NewPredictor(repo)
	predictor.SetWorkers(g.Workers)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := predictor.Execute(ctx, in)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	if st != nil {
		if _, err := st.InsertPredictionRun(ctx, *in.Days, result); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

type ServeCmd struct {
	Port string `help:"HTTP server port." default:"8080" env:"PORT"`
}

func (c *ServeCmd) Run(g *Globals) error {
	in, err := g.input()
	if err != nil {
		return err
	}
	days, galaxy, err := in.Validate()
	if err != nil {
		return err
	}

	db, st, err := openStore(g.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	predictor := forecast.NewPredictor(st)
	predictor.SetWorkers(g.Workers)
	server := api.NewServer(st, predictor, galaxy, days, c.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on :%s", c.Port)
	return server.Run(ctx)
}

type LookupCmd struct {
	Day    int    `arg:"" help:"Day number to look up."`
	Server string `help:"Base URL of a running server." default:"http://localhost:8080" env:"GALAXY_SERVER"`
}

func (c *LookupCmd) Run(g *Globals) error {
	resp, err := client.New(c.Server).DayWeather(context.Background(), c.Day)
	if err != nil {
		return fmt.Errorf("lookup day %d: %w", c.Day, err)
	}
	fmt.Printf("day %d: %s\n", resp.Day, resp.Weather)
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(g *Globals) error {
	db, st, err := openStore(g.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := st.MigrationVersion()
	if err != nil {
		return err
	}
	log.Printf("database at schema version %d", version)
	return nil
}

// input builds the run request from the configured days and either the
// built-in galaxy or the galaxy file.
func (g *Globals) input() (forecast.Input, error) {
	if g.Galaxy == "" {
		return forecast.NewInput(g.Days, defaultGalaxy), nil
	}

	data, err := os.ReadFile(g.Galaxy)
	if err != nil {
		return forecast.Input{}, fmt.Errorf("read galaxy file: %w", err)
	}
	var in forecast.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return forecast.Input{}, fmt.Errorf("parse galaxy file: %w", err)
	}
	if in.Days == nil {
		in.Days = &g.Days
	}
	return in, nil
}

func openStore(path string) (*sql.DB, *store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return db, st, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("galaxyweather"),
		kong.Description("Predict the weather of a three-planet galaxy from planet alignment."),
		kong.UsageOnError(),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
