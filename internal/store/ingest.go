package store

import (
	"database/sql"
	"time"
)

// IngestRun is the audit record for one upstream fetch.
type IngestRun struct {
	ID                int64          `db:"id"`
	StartedAt         time.Time      `db:"started_at"`
	FinishedAt        sql.NullTime   `db:"finished_at"`
	Source            string         `db:"source"`   // "open-meteo", "worldtides", "bom", "overpass"
	Endpoint          string         `db:"endpoint"` // "marine", "forecast", "coastal-waters", etc.
	SpotID            sql.NullString `db:"spot_id"`
	HTTPStatus        sql.NullInt64  `db:"http_status"`
	ResponseSizeBytes sql.NullInt64  `db:"response_size_bytes"`
	RecordsParsed     sql.NullInt64  `db:"records_parsed"`
	RecordsStored     sql.NullInt64  `db:"records_stored"`
	ParseErrors       sql.NullInt64  `db:"parse_errors"`
	Success           bool           `db:"success"`
	ErrorMessage      sql.NullString `db:"error_message"`
}

// Fail marks the run unsuccessful with err's message.
func (r *IngestRun) Fail(err error) {
	if r == nil || err == nil {
		return
	}
	r.Success = false
	r.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
}

// StartIngestRun records the start of a fetch. spotID may be empty for
// feeds that are not tied to one spot.
func (s *Store) StartIngestRun(source, endpoint, spotID string) (*IngestRun, error) {
	run := &IngestRun{
		StartedAt: time.Now().UTC(),
		Source:    source,
		Endpoint:  endpoint,
		SpotID:    sql.NullString{String: spotID, Valid: spotID != ""},
	}

	result, err := s.db.Exec(`
		INSERT INTO ingest_runs (started_at, source, endpoint, spot_id, success)
		VALUES (?, ?, ?, ?, FALSE)
	`, run.StartedAt, run.Source, run.Endpoint, run.SpotID)
	if err != nil {
		return nil, err
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return run, nil
}

// CompleteIngestRun writes the outcome of a run. A nil run is ignored.
func (s *Store) CompleteIngestRun(run *IngestRun) error {
	if run == nil {
		return nil
	}

	run.FinishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}

	_, err := s.dbx.NamedExec(`
		UPDATE ingest_runs SET
			finished_at = :finished_at,
			http_status = :http_status,
			response_size_bytes = :response_size_bytes,
			records_parsed = :records_parsed,
			records_stored = :records_stored,
			parse_errors = :parse_errors,
			success = :success,
			error_message = :error_message
		WHERE id = :id
	`, run)
	return err
}

// IngestHealthSummary aggregates runs per day, source and endpoint.
type IngestHealthSummary struct {
	Date             string `db:"date" json:"date"`
	Source           string `db:"source" json:"source"`
	Endpoint         string `db:"endpoint" json:"endpoint"`
	TotalRuns        int    `db:"total_runs" json:"totalRuns"`
	SuccessRuns      int    `db:"success_runs" json:"successRuns"`
	FailedRuns       int    `db:"failed_runs" json:"failedRuns"`
	TotalRecords     int64  `db:"total_records" json:"totalRecords"`
	TotalParseErrors int64  `db:"total_parse_errors" json:"totalParseErrors"`
}

// GetIngestHealth summarises the last N days of ingest runs.
func (s *Store) GetIngestHealth(days int) ([]IngestHealthSummary, error) {
	var results []IngestHealthSummary
	err := s.dbx.Select(&results, `
		SELECT
			DATE(SUBSTR(started_at, 1, 19)) AS date,
			source,
			endpoint,
			COUNT(*) AS total_runs,
			SUM(CASE WHEN success THEN 1 ELSE 0 END) AS success_runs,
			SUM(CASE WHEN NOT success THEN 1 ELSE 0 END) AS failed_runs,
			COALESCE(SUM(records_stored), 0) AS total_records,
			COALESCE(SUM(parse_errors), 0) AS total_parse_errors
		FROM ingest_runs
		WHERE SUBSTR(started_at, 1, 19) > datetime('now', '-' || ? || ' days')
		GROUP BY date, source, endpoint
		ORDER BY date DESC, source, endpoint
	`, days)
	return results, err
}

// GetRecentIngestErrors returns the latest failed runs, newest first.
func (s *Store) GetRecentIngestErrors(limit int) ([]IngestRun, error) {
	var results []IngestRun
	err := s.dbx.Select(&results, `
		SELECT id, started_at, finished_at, source, endpoint, spot_id,
		       http_status, response_size_bytes, records_parsed, records_stored,
		       parse_errors, success, error_message
		FROM ingest_runs
		WHERE success = FALSE
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	return results, err
}
