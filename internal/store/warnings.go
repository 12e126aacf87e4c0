package store

import (
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

// UpsertWarning inserts a marine warning or refreshes last_seen_at for one
// that is still in the feed.
func (s *Store) UpsertWarning(w models.MarineWarning, now time.Time) error {
	w.PublishedAt = w.PublishedAt.UTC()
	w.FirstSeenAt = now.UTC()
	w.LastSeenAt = now.UTC()
	_, err := s.dbx.NamedExec(`
		INSERT INTO marine_warnings (guid, title, description, link, published_at, first_seen_at, last_seen_at)
		VALUES (:guid, :title, :description, :link, :published_at, :first_seen_at, :last_seen_at)
		ON CONFLICT(guid) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			link = excluded.link,
			published_at = excluded.published_at,
			last_seen_at = excluded.last_seen_at
	`, w)
	return err
}

// GetActiveWarnings returns warnings seen in the feed within maxAge of now,
// most recently published first.
func (s *Store) GetActiveWarnings(now time.Time, maxAge time.Duration) ([]models.MarineWarning, error) {
	var warnings []models.MarineWarning
	err := s.dbx.Select(&warnings, `
		SELECT guid, title, description, link, published_at, first_seen_at, last_seen_at
		FROM marine_warnings
		WHERE last_seen_at > ?
		ORDER BY published_at DESC
	`, now.Add(-maxAge).UTC())
	return warnings, err
}
