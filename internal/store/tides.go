package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

type tideRow struct {
	SpotID     string    `db:"spot_id"`
	Date       string    `db:"date"`
	Source     string    `db:"source"`
	Fallback   bool      `db:"fallback"`
	MoonPhase  string    `db:"moon_phase"`
	EventsJSON string    `db:"events_json"`
	HourlyJSON string    `db:"hourly_json"`
	FetchedAt  time.Time `db:"fetched_at"`
}

// UpsertTideDay stores a tide day. A synthesized day never replaces a
// measured one for the same spot and date.
func (s *Store) UpsertTideDay(day tide.Day, fetchedAt time.Time) error {
	events, err := json.Marshal(day.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	hourly, err := json.Marshal(day.Hourly)
	if err != nil {
		return fmt.Errorf("marshal hourly: %w", err)
	}

	_, err = s.dbx.NamedExec(`
		INSERT INTO tide_days (spot_id, date, source, fallback, moon_phase, events_json, hourly_json, fetched_at)
		VALUES (:spot_id, :date, :source, :fallback, :moon_phase, :events_json, :hourly_json, :fetched_at)
		ON CONFLICT(spot_id, date) DO UPDATE SET
			source = excluded.source,
			fallback = excluded.fallback,
			moon_phase = excluded.moon_phase,
			events_json = excluded.events_json,
			hourly_json = excluded.hourly_json,
			fetched_at = excluded.fetched_at
		WHERE tide_days.source = 'synthesized' OR excluded.source = 'measured'
	`, tideRow{
		SpotID:     day.SpotID,
		Date:       day.Date,
		Source:     string(day.Source),
		Fallback:   day.Fallback,
		MoonPhase:  string(day.Moon),
		EventsJSON: string(events),
		HourlyJSON: string(hourly),
		FetchedAt:  fetchedAt.UTC(),
	})
	return err
}

// GetTideDay returns nil, nil when nothing is stored for the spot and date.
func (s *Store) GetTideDay(spotID string, date time.Time) (*tide.Day, error) {
	var row tideRow
	err := s.dbx.Get(&row, `
		SELECT spot_id, date, source, fallback, moon_phase, events_json, hourly_json, fetched_at
		FROM tide_days
		WHERE spot_id = ? AND date = ?
	`, spotID, s.localDate(date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	day := &tide.Day{
		SpotID:   row.SpotID,
		Date:     row.Date,
		Source:   tide.Source(row.Source),
		Fallback: row.Fallback,
		Moon:     tide.MoonPhase(row.MoonPhase),
	}
	if err := json.Unmarshal([]byte(row.EventsJSON), &day.Events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	if err := json.Unmarshal([]byte(row.HourlyJSON), &day.Hourly); err != nil {
		return nil, fmt.Errorf("unmarshal hourly: %w", err)
	}
	return day, nil
}

// localDate formats t as a calendar date in the store's timezone.
func (s *Store) localDate(t time.Time) string {
	if s.loc != nil {
		t = t.In(s.loc)
	}
	return t.Format(time.DateOnly)
}
