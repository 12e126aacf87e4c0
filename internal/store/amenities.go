package store

import (
	"fmt"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

// ReplaceAmenities swaps the stored amenities for a spot in one transaction.
func (s *Store) ReplaceAmenities(spotID string, amenities []models.Amenity) error {
	tx, err := s.dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM amenities WHERE spot_id = ?`, spotID); err != nil {
		return fmt.Errorf("clear amenities: %w", err)
	}
	for _, a := range amenities {
		a.SpotID = spotID
		if _, err := tx.NamedExec(`
			INSERT INTO amenities (spot_id, osm_id, kind, name, latitude, longitude, distance_m)
			VALUES (:spot_id, :osm_id, :kind, :name, :latitude, :longitude, :distance_m)
			ON CONFLICT(spot_id, osm_id) DO NOTHING
		`, a); err != nil {
			return fmt.Errorf("insert amenity %d: %w", a.OSMID, err)
		}
	}
	return tx.Commit()
}

// GetAmenities returns a spot's amenities, nearest first.
func (s *Store) GetAmenities(spotID string) ([]models.Amenity, error) {
	var out []models.Amenity
	err := s.dbx.Select(&out, `
		SELECT spot_id, osm_id, kind, name, latitude, longitude, distance_m
		FROM amenities
		WHERE spot_id = ?
		ORDER BY distance_m
	`, spotID)
	return out, err
}
