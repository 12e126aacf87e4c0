package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

const reportColumns = `report_id, spot_id, valid_at, computed_at,
	wave_height, wave_direction, wave_direction_deg, wave_period,
	wind_speed, wind_direction, wind_direction_deg, air_temp,
	breaking_height, confidence, surf_score, rating,
	wave_quality, wind_quality, tide_optimal, consistency_score,
	swell_type, swell_quality, wave_energy, energy_level,
	primary_swell_height, primary_swell_period, primary_swell_direction, primary_swell_dominance,
	secondary_swell_height, secondary_swell_period, secondary_swell_direction, secondary_swell_dominance,
	swell_interaction, tide_height, tide_source`

// UpsertSurfReport stores a scored hour, replacing any earlier score for the
// same spot and hour.
func (s *Store) UpsertSurfReport(r models.SurfReport) error {
	r.ValidAt = r.ValidAt.UTC()
	r.ComputedAt = r.ComputedAt.UTC()
	_, err := s.dbx.NamedExec(`
		INSERT INTO surf_reports (`+reportColumns+`)
		VALUES (:report_id, :spot_id, :valid_at, :computed_at,
			:wave_height, :wave_direction, :wave_direction_deg, :wave_period,
			:wind_speed, :wind_direction, :wind_direction_deg, :air_temp,
			:breaking_height, :confidence, :surf_score, :rating,
			:wave_quality, :wind_quality, :tide_optimal, :consistency_score,
			:swell_type, :swell_quality, :wave_energy, :energy_level,
			:primary_swell_height, :primary_swell_period, :primary_swell_direction, :primary_swell_dominance,
			:secondary_swell_height, :secondary_swell_period, :secondary_swell_direction, :secondary_swell_dominance,
			:swell_interaction, :tide_height, :tide_source)
		ON CONFLICT(spot_id, valid_at) DO UPDATE SET
			computed_at = excluded.computed_at,
			wave_height = excluded.wave_height,
			wave_direction = excluded.wave_direction,
			wave_direction_deg = excluded.wave_direction_deg,
			wave_period = excluded.wave_period,
			wind_speed = excluded.wind_speed,
			wind_direction = excluded.wind_direction,
			wind_direction_deg = excluded.wind_direction_deg,
			air_temp = excluded.air_temp,
			breaking_height = excluded.breaking_height,
			confidence = excluded.confidence,
			surf_score = excluded.surf_score,
			rating = excluded.rating,
			wave_quality = excluded.wave_quality,
			wind_quality = excluded.wind_quality,
			tide_optimal = excluded.tide_optimal,
			consistency_score = excluded.consistency_score,
			swell_type = excluded.swell_type,
			swell_quality = excluded.swell_quality,
			wave_energy = excluded.wave_energy,
			energy_level = excluded.energy_level,
			primary_swell_height = excluded.primary_swell_height,
			primary_swell_period = excluded.primary_swell_period,
			primary_swell_direction = excluded.primary_swell_direction,
			primary_swell_dominance = excluded.primary_swell_dominance,
			secondary_swell_height = excluded.secondary_swell_height,
			secondary_swell_period = excluded.secondary_swell_period,
			secondary_swell_direction = excluded.secondary_swell_direction,
			secondary_swell_dominance = excluded.secondary_swell_dominance,
			swell_interaction = excluded.swell_interaction,
			tide_height = excluded.tide_height,
			tide_source = excluded.tide_source
	`, r)
	return err
}

// GetLatestReport returns the most recent report valid at or before now, or
// nil, nil when the spot has none.
func (s *Store) GetLatestReport(spotID string, now time.Time) (*models.SurfReport, error) {
	var r models.SurfReport
	err := s.dbx.Get(&r, `
		SELECT `+reportColumns+`
		FROM surf_reports
		WHERE spot_id = ? AND valid_at <= ?
		ORDER BY valid_at DESC
		LIMIT 1
	`, spotID, now.UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetReports returns reports with valid_at in [start, end], oldest first.
func (s *Store) GetReports(spotID string, start, end time.Time) ([]models.SurfReport, error) {
	var reports []models.SurfReport
	err := s.dbx.Select(&reports, `
		SELECT `+reportColumns+`
		FROM surf_reports
		WHERE spot_id = ? AND valid_at >= ? AND valid_at <= ?
		ORDER BY valid_at ASC
	`, spotID, start.UTC(), end.UTC())
	return reports, err
}

// GetLatestReports returns each spot's most recent report at or before now.
func (s *Store) GetLatestReports(now time.Time) (map[string]models.SurfReport, error) {
	var reports []models.SurfReport
	err := s.dbx.Select(&reports, `
		SELECT `+prefixed("r.", reportColumns)+`
		FROM surf_reports r
		JOIN (
			SELECT spot_id, MAX(valid_at) AS latest
			FROM surf_reports
			WHERE valid_at <= ?
			GROUP BY spot_id
		) m ON r.spot_id = m.spot_id AND r.valid_at = m.latest
	`, now.UTC())
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.SurfReport, len(reports))
	for _, r := range reports {
		out[r.SpotID] = r
	}
	return out, nil
}

// PruneReports deletes reports valid before cutoff.
func (s *Store) PruneReports(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM surf_reports WHERE valid_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
