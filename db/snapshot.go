package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vainnor/airlab-probe/types"
)

// Snapshot describes one recorded listing.
type Snapshot struct {
	Stats      types.RunStats
	BaseURL    string
	RequestURL string
	Page       *types.FlightsPage
}

// RecordSnapshot stores the snapshot and its flights in one transaction and
// returns the snapshot row id.
func (s *Store) RecordSnapshot(ctx context.Context, snap Snapshot) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var snapshotID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO probe_snapshots (
			run_id, timestamp, base_url, request_url,
			login_status, list_status, total, page, total_pages, fetched
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, snap.Stats.RunID, snap.Stats.StartTime.UTC(), snap.BaseURL, snap.RequestURL,
		snap.Stats.LoginStatus, snap.Stats.ListStatus,
		snap.Page.Total, snap.Page.Page, snap.Page.TotalPages, len(snap.Page.Flights)).Scan(&snapshotID)
	if err != nil {
		return 0, fmt.Errorf("error inserting snapshot: %w", err)
	}

	for i, flight := range snap.Page.Flights {
		row, err := flightRowFrom(flight)
		if err != nil {
			return 0, fmt.Errorf("flight #%d: %w", i+1, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO probe_flights (
				snapshot_id, position, icao24, callsign, aircraft_type, status,
				latitude, longitude, altitude, heading, speed,
				origin, destination, assigned_poste_code, raw
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, snapshotID, i+1, row.icao24, row.callsign, row.aircraftType, row.status,
			row.latitude, row.longitude, row.altitude, row.heading, row.speed,
			row.origin, row.destination, row.assignedPosteCode, row.raw)
		if err != nil {
			return 0, fmt.Errorf("error inserting flight #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return snapshotID, nil
}

// SnapshotSummary is a row of probe_snapshots.
type SnapshotSummary struct {
	ID        int64
	RunID     string
	Timestamp time.Time
	Total     int
	Fetched   int
}

// RecentSnapshots lists the latest snapshots, newest first.
func (s *Store) RecentSnapshots(ctx context.Context, limit int) ([]SnapshotSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, timestamp, total, fetched
		FROM probe_snapshots
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SnapshotSummary
	for rows.Next() {
		var sum SnapshotSummary
		if err := rows.Scan(&sum.ID, &sum.RunID, &sum.Timestamp, &sum.Total, &sum.Fetched); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

type flightRow struct {
	icao24            sql.NullString
	callsign          sql.NullString
	aircraftType      sql.NullString
	status            sql.NullString
	latitude          sql.NullFloat64
	longitude         sql.NullFloat64
	altitude          sql.NullFloat64
	heading           sql.NullFloat64
	speed             sql.NullFloat64
	origin            sql.NullString
	destination       sql.NullString
	assignedPosteCode sql.NullString
	raw               []byte
}

func flightRowFrom(f types.FlightRecord) (flightRow, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return flightRow{}, err
	}
	return flightRow{
		icao24:            nullString(f, "icao24"),
		callsign:          nullString(f, "callsign"),
		aircraftType:      nullString(f, "aircraft_type"),
		status:            nullString(f, "status"),
		latitude:          nullFloat(f, "latitude"),
		longitude:         nullFloat(f, "longitude"),
		altitude:          nullFloat(f, "altitude"),
		heading:           nullFloat(f, "heading"),
		speed:             nullFloat(f, "speed"),
		origin:            nullString(f, "origin"),
		destination:       nullString(f, "destination"),
		assignedPosteCode: nullString(f, "assigned_poste_code"),
		raw:               raw,
	}, nil
}

func nullString(f types.FlightRecord, key string) sql.NullString {
	s, ok := f.String(key)
	return sql.NullString{String: s, Valid: ok}
}

func nullFloat(f types.FlightRecord, key string) sql.NullFloat64 {
	n, ok := f.Float(key)
	return sql.NullFloat64{Float64: n, Valid: ok}
}
