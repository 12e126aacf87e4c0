package store

import (
	"database/sql"
	"fmt"
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
CREATE TABLE IF NOT EXISTS spots (
    spot_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    region TEXT NOT NULL DEFAULT '',
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    facing_deg REAL NOT NULL DEFAULT 180,
    preferred_tide TEXT NOT NULL DEFAULT 'any',
    coastal_zone TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS surf_reports (
    report_id TEXT PRIMARY KEY,
    spot_id TEXT NOT NULL,
    valid_at DATETIME NOT NULL,
    computed_at DATETIME NOT NULL,
    wave_height REAL NOT NULL,
    wave_direction TEXT NOT NULL,
    wave_direction_deg REAL NOT NULL,
    wave_period REAL NOT NULL,
    wind_speed REAL NOT NULL,
    wind_direction TEXT NOT NULL,
    wind_direction_deg REAL NOT NULL,
    air_temp REAL NOT NULL,
    breaking_height REAL NOT NULL,
    confidence REAL NOT NULL,
    surf_score REAL NOT NULL,
    rating TEXT NOT NULL,
    wave_quality REAL NOT NULL,
    wind_quality REAL NOT NULL,
    tide_optimal REAL NOT NULL,
    consistency_score REAL NOT NULL,
    swell_type TEXT NOT NULL,
    swell_quality TEXT NOT NULL,
    wave_energy REAL NOT NULL,
    energy_level TEXT NOT NULL,
    primary_swell_height REAL NOT NULL,
    primary_swell_period REAL NOT NULL,
    primary_swell_direction TEXT NOT NULL,
    primary_swell_dominance REAL NOT NULL,
    secondary_swell_height REAL,
    secondary_swell_period REAL,
    secondary_swell_direction TEXT,
    secondary_swell_dominance REAL,
    swell_interaction TEXT NOT NULL,
    tide_height REAL,
    tide_source TEXT NOT NULL DEFAULT '',
    UNIQUE(spot_id, valid_at)
);

CREATE INDEX IF NOT EXISTS idx_reports_spot_valid ON surf_reports(spot_id, valid_at);
`,
	},
	{
		Version:     2,
		Description: "Add tide_days for measured and synthesized tides",
		SQL: `
CREATE TABLE IF NOT EXISTS tide_days (
    spot_id TEXT NOT NULL,
    date TEXT NOT NULL,
    source TEXT NOT NULL,
    fallback BOOLEAN NOT NULL DEFAULT FALSE,
    moon_phase TEXT NOT NULL DEFAULT '',
    events_json TEXT NOT NULL,
    hourly_json TEXT NOT NULL,
    fetched_at DATETIME NOT NULL,
    PRIMARY KEY (spot_id, date)
);
`,
	},
	{
		Version:     3,
		Description: "Add ingest_runs and raw_payloads for audit",
		SQL: `
CREATE TABLE IF NOT EXISTS ingest_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at DATETIME NOT NULL,
    finished_at DATETIME,
    source TEXT NOT NULL,
    endpoint TEXT NOT NULL,
    spot_id TEXT,
    http_status INTEGER,
    response_size_bytes INTEGER,
    records_parsed INTEGER,
    records_stored INTEGER,
    parse_errors INTEGER,
    success BOOLEAN NOT NULL DEFAULT FALSE,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_ingest_runs_started ON ingest_runs(started_at);

CREATE TABLE IF NOT EXISTS raw_payloads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ingest_run_id INTEGER REFERENCES ingest_runs(id),
    fetched_at DATETIME NOT NULL,
    source TEXT NOT NULL,
    endpoint TEXT NOT NULL,
    spot_id TEXT,
    payload_compressed BLOB NOT NULL,
    payload_hash TEXT NOT NULL UNIQUE,
    schema_version INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_raw_payloads_fetched ON raw_payloads(fetched_at);
`,
	},
	{
		Version:     4,
		Description: "Add coastal_forecasts for BOM coastal waters text",
		SQL: `
CREATE TABLE IF NOT EXISTS coastal_forecasts (
    area_code TEXT NOT NULL,
    area_name TEXT NOT NULL,
    valid_date TEXT NOT NULL,
    day_index INTEGER NOT NULL,
    issued_at DATETIME NOT NULL,
    winds TEXT NOT NULL DEFAULT '',
    seas TEXT NOT NULL DEFAULT '',
    swell TEXT NOT NULL DEFAULT '',
    weather TEXT NOT NULL DEFAULT '',
    fetched_at DATETIME NOT NULL,
    PRIMARY KEY (area_code, valid_date)
);
`,
	},
	{
		Version:     5,
		Description: "Add marine_warnings and amenities",
		SQL: `
CREATE TABLE IF NOT EXISTS marine_warnings (
    guid TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    link TEXT NOT NULL DEFAULT '',
    published_at DATETIME NOT NULL,
    first_seen_at DATETIME NOT NULL,
    last_seen_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_warnings_last_seen ON marine_warnings(last_seen_at);

CREATE TABLE IF NOT EXISTS amenities (
    spot_id TEXT NOT NULL,
    osm_id INTEGER NOT NULL,
    kind TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    distance_m REAL NOT NULL,
    PRIMARY KEY (spot_id, osm_id)
);
`,
	},
}

func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		s.log.Infof("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	var versions []int
	if err := s.dbx.Select(&versions, "SELECT version FROM schema_migrations"); err != nil {
		return nil, err
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func (s *Store) MigrationVersion() (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
