package store

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// StoreRawPayload gzips and stores an upstream response. Identical payloads
// are stored once; a duplicate returns id 0.
func (s *Store) StoreRawPayload(run *IngestRun, payload []byte) (int64, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return 0, fmt.Errorf("compress payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("close gzip: %w", err)
	}

	sum := sha256.Sum256(payload)

	var (
		runID            sql.NullInt64
		source, endpoint string
		spotID           sql.NullString
	)
	if run != nil {
		runID = sql.NullInt64{Int64: run.ID, Valid: run.ID != 0}
		source, endpoint, spotID = run.Source, run.Endpoint, run.SpotID
	}

	result, err := s.db.Exec(`
		INSERT INTO raw_payloads
		(ingest_run_id, fetched_at, source, endpoint, spot_id, payload_compressed, payload_hash, schema_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(payload_hash) DO NOTHING
	`, runID, time.Now().UTC(), source, endpoint, spotID, buf.Bytes(), hex.EncodeToString(sum[:]))
	if err != nil {
		return 0, fmt.Errorf("insert raw payload: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil || n == 0 {
		return 0, err
	}
	return result.LastInsertId()
}

// GetRawPayload returns the decompressed payload with the given id.
func (s *Store) GetRawPayload(id int64) ([]byte, error) {
	var compressed []byte
	if err := s.db.QueryRow(`SELECT payload_compressed FROM raw_payloads WHERE id = ?`, id).Scan(&compressed); err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	defer gz.Close()

	return io.ReadAll(gz)
}

type RawPayloadStats struct {
	TotalCount     int              `json:"totalCount"`
	TotalSizeBytes int64            `json:"totalSizeBytes"`
	CountBySource  map[string]int   `json:"countBySource"`
	SizeBySource   map[string]int64 `json:"sizeBySource"`
}

func (s *Store) GetRawPayloadStats() (*RawPayloadStats, error) {
	var rows []struct {
		Source string `db:"source"`
		Count  int    `db:"n"`
		Size   int64  `db:"size"`
	}
	err := s.dbx.Select(&rows, `
		SELECT source, COUNT(*) AS n, COALESCE(SUM(LENGTH(payload_compressed)), 0) AS size
		FROM raw_payloads
		GROUP BY source
	`)
	if err != nil {
		return nil, err
	}

	stats := &RawPayloadStats{
		CountBySource: make(map[string]int, len(rows)),
		SizeBySource:  make(map[string]int64, len(rows)),
	}
	for _, r := range rows {
		stats.TotalCount += r.Count
		stats.TotalSizeBytes += r.Size
		stats.CountBySource[r.Source] = r.Count
		stats.SizeBySource[r.Source] = r.Size
	}
	return stats, nil
}

// CleanupOldRawPayloads deletes payloads fetched before cutoff.
func (s *Store) CleanupOldRawPayloads(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM raw_payloads WHERE fetched_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
