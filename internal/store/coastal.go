package store

import (
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

func (s *Store) UpsertCoastalForecast(f models.CoastalForecast) error {
	f.IssuedAt = f.IssuedAt.UTC()
	f.FetchedAt = f.FetchedAt.UTC()
	_, err := s.dbx.NamedExec(`
		INSERT INTO coastal_forecasts (area_code, area_name, valid_date, day_index, issued_at, winds, seas, swell, weather, fetched_at)
		VALUES (:area_code, :area_name, :valid_date, :day_index, :issued_at, :winds, :seas, :swell, :weather, :fetched_at)
		ON CONFLICT(area_code, valid_date) DO UPDATE SET
			area_name = excluded.area_name,
			day_index = excluded.day_index,
			issued_at = excluded.issued_at,
			winds = excluded.winds,
			seas = excluded.seas,
			swell = excluded.swell,
			weather = excluded.weather,
			fetched_at = excluded.fetched_at
		WHERE excluded.issued_at >= coastal_forecasts.issued_at
	`, f)
	return err
}

// GetCoastalForecasts returns the forecasts for an area from the given local
// date onwards.
func (s *Store) GetCoastalForecasts(areaCode string, from time.Time) ([]models.CoastalForecast, error) {
	var out []models.CoastalForecast
	err := s.dbx.Select(&out, `
		SELECT area_code, area_name, valid_date, day_index, issued_at, winds, seas, swell, weather, fetched_at
		FROM coastal_forecasts
		WHERE area_code = ? AND valid_date >= ?
		ORDER BY valid_date
	`, areaCode, s.localDate(from))
	return out, err
}
