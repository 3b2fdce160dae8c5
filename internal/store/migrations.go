package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS day_weather (
    day INTEGER PRIMARY KEY,
    weather TEXT NOT NULL,
    planets_json TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "Add prediction run history",
		SQL: `
CREATE TABLE IF NOT EXISTS prediction_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    days INTEGER NOT NULL,
    drought INTEGER NOT NULL,
    rainy INTEGER NOT NULL,
    optimal INTEGER NOT NULL,
    unknown INTEGER NOT NULL,
    max_rain_perimeter REAL NOT NULL,
    max_rain_days TEXT NOT NULL,
    created_at DATETIME NOT NULL
);
`,
	},
	{
		Version:     3,
		Description: "Index day weather by classification",
		SQL: `
CREATE INDEX IF NOT EXISTS idx_day_weather_weather ON day_weather(weather);
`,
	},
}

const schemaMigrationsSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    applied_at DATETIME NOT NULL
)`

// Migrate brings the schema up to the newest version. Migrations at or below
// the recorded version are skipped, so running it twice is a no-op.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaMigrationsSQL); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	current, err := s.MigrationVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.apply(m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		log.Printf("migrations: schema now at version %d (%s)", m.Version, m.Description)
		current = m.Version
	}
	return nil
}

// apply runs one migration and records it in the same transaction.
func (s *Store) apply(m migration) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(m.SQL); err != nil {
		return err
	}
	if _, err = tx.Exec(
		`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
		m.Version, m.Description, time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// MigrationVersion reports the newest applied schema version, or 0 on a
// fresh database.
func (s *Store) MigrationVersion() (int, error) {
	var version sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}
