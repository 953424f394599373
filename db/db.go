package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Settings are the Postgres connection parameters.
type Settings struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ConnString renders s as a lib/pq keyword/value string.
func (s Settings) ConnString() string {
	sslMode := s.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Name, sslMode,
	)
}

// Store records probe runs in Postgres.
type Store struct {
	db *sql.DB
}

// Open connects, pings and creates the tables if needed.
func Open(ctx context.Context, connStr string) (*Store, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	s := &Store{db: conn}
	if err = s.createTables(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS probe_snapshots (
			id SERIAL PRIMARY KEY,
			run_id UUID NOT NULL UNIQUE,
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
			base_url TEXT NOT NULL,
			request_url TEXT NOT NULL,
			login_status INTEGER NOT NULL,
			list_status INTEGER NOT NULL,
			total INTEGER NOT NULL,
			page INTEGER NOT NULL,
			total_pages INTEGER NOT NULL,
			fetched INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS probe_flights (
			id SERIAL PRIMARY KEY,
			snapshot_id INTEGER NOT NULL REFERENCES probe_snapshots(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			icao24 VARCHAR(16),
			callsign VARCHAR(16),
			aircraft_type VARCHAR(64),
			status VARCHAR(32),
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			altitude DOUBLE PRECISION,
			heading DOUBLE PRECISION,
			speed DOUBLE PRECISION,
			origin VARCHAR(16),
			destination VARCHAR(16),
			assigned_poste_code VARCHAR(32),
			raw JSONB NOT NULL
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_probe_snapshots_timestamp ON probe_snapshots (timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_probe_flights_snapshot ON probe_flights (snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_probe_flights_icao24 ON probe_flights (icao24)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
