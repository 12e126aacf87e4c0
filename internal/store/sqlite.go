package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type Store struct {
	db  *sql.DB
	dbx *sqlx.DB
	loc *time.Location
	log *zap.SugaredLogger
}

func New(db *sql.DB, loc *time.Location, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{db: db, dbx: sqlx.NewDb(db, "sqlite"), loc: loc, log: log}
}

// Ping checks the database connection.
func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) UpsertSpot(sp models.Spot) error {
	_, err := s.dbx.NamedExec(`
		INSERT INTO spots (spot_id, name, region, latitude, longitude, facing_deg, preferred_tide, coastal_zone, active)
		VALUES (:spot_id, :name, :region, :latitude, :longitude, :facing_deg, :preferred_tide, :coastal_zone, :active)
		ON CONFLICT(spot_id) DO UPDATE SET
			name = excluded.name,
			region = excluded.region,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			facing_deg = excluded.facing_deg,
			preferred_tide = excluded.preferred_tide,
			coastal_zone = excluded.coastal_zone,
			active = excluded.active
	`, sp)
	return err
}

const spotColumns = `spot_id, name, region, latitude, longitude, facing_deg, preferred_tide, coastal_zone, active`

func (s *Store) GetActiveSpots() ([]models.Spot, error) {
	var spots []models.Spot
	err := s.dbx.Select(&spots, `SELECT `+spotColumns+` FROM spots WHERE active = TRUE ORDER BY spot_id`)
	return spots, err
}

// GetSpot returns nil, nil when the spot does not exist.
func (s *Store) GetSpot(spotID string) (*models.Spot, error) {
	var sp models.Spot
	err := s.dbx.Get(&sp, `SELECT `+spotColumns+` FROM spots WHERE spot_id = ?`, spotID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// prefixed qualifies each column in a comma separated list with a table
// alias, keeping the bare name as the result column.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		parts[i] = alias + p + " AS " + p
	}
	return strings.Join(parts, ", ")
}
