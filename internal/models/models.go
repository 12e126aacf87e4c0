package models

import "time"

type Spot struct {
	SpotID        string  `db:"spot_id" json:"id"`
	Name          string  `db:"name" json:"name"`
	Region        string  `db:"region" json:"region"` // "surf_coast", "mornington", "phillip_island", "otways"
	Latitude      float64 `db:"latitude" json:"latitude"`
	Longitude     float64 `db:"longitude" json:"longitude"`
	FacingDeg     float64 `db:"facing_deg" json:"facingDeg"`
	PreferredTide string  `db:"preferred_tide" json:"preferredTide"` // "low", "mid", "high", "any"
	CoastalZone   string  `db:"coastal_zone" json:"coastalZone"`     // BOM coastal waters area code
	Active        bool    `db:"active" json:"active"`
}

// SurfReport is one scored forecast hour for a spot.
type SurfReport struct {
	ReportID   string    `db:"report_id" json:"id"`
	SpotID     string    `db:"spot_id" json:"spotId"`
	ValidAt    time.Time `db:"valid_at" json:"validAt"`
	ComputedAt time.Time `db:"computed_at" json:"computedAt"`

	WaveHeight       float64 `db:"wave_height" json:"waveHeight"`
	WaveDirection    string  `db:"wave_direction" json:"waveDirection"`
	WaveDirectionDeg float64 `db:"wave_direction_deg" json:"waveDirectionDeg"`
	WavePeriod       float64 `db:"wave_period" json:"wavePeriod"`
	WindSpeed        float64 `db:"wind_speed" json:"windSpeed"`
	WindDirection    string  `db:"wind_direction" json:"windDirection"`
	WindDirectionDeg float64 `db:"wind_direction_deg" json:"windDirectionDeg"`
	AirTemp          float64 `db:"air_temp" json:"airTemp"`

	BreakingHeight   float64 `db:"breaking_height" json:"breakingHeight"`
	Confidence       float64 `db:"confidence" json:"confidence"`
	SurfScore        float64 `db:"surf_score" json:"surfScore"`
	Rating           string  `db:"rating" json:"rating"`
	WaveQuality      float64 `db:"wave_quality" json:"waveQuality"`
	WindQuality      float64 `db:"wind_quality" json:"windQuality"`
	TideOptimal      float64 `db:"tide_optimal" json:"tideOptimal"`
	ConsistencyScore float64 `db:"consistency_score" json:"consistencyScore"`
	SwellType        string  `db:"swell_type" json:"swellType"`
	SwellQuality     string  `db:"swell_quality" json:"swellQuality"`
	WaveEnergy       float64 `db:"wave_energy" json:"waveEnergy"`
	EnergyLevel      string  `db:"energy_level" json:"energyLevel"`

	PrimarySwellHeight      float64  `db:"primary_swell_height" json:"primarySwellHeight"`
	PrimarySwellPeriod      float64  `db:"primary_swell_period" json:"primarySwellPeriod"`
	PrimarySwellDirection   string   `db:"primary_swell_direction" json:"primarySwellDirection"`
	PrimarySwellDominance   float64  `db:"primary_swell_dominance" json:"primarySwellDominance"`
	SecondarySwellHeight    *float64 `db:"secondary_swell_height" json:"secondarySwellHeight,omitempty"`
	SecondarySwellPeriod    *float64 `db:"secondary_swell_period" json:"secondarySwellPeriod,omitempty"`
	SecondarySwellDirection *string  `db:"secondary_swell_direction" json:"secondarySwellDirection,omitempty"`
	SecondarySwellDominance *float64 `db:"secondary_swell_dominance" json:"secondarySwellDominance,omitempty"`
	SwellInteraction        string   `db:"swell_interaction" json:"swellInteraction"`

	TideHeight *float64 `db:"tide_height" json:"tideHeight,omitempty"`
	TideSource string   `db:"tide_source" json:"tideSource"`
}

// CoastalForecast is the BOM coastal waters text forecast for one zone and day.
type CoastalForecast struct {
	AreaCode  string    `db:"area_code" json:"areaCode"`
	AreaName  string    `db:"area_name" json:"areaName"`
	ValidDate string    `db:"valid_date" json:"validDate"` // YYYY-MM-DD local
	DayIndex  int       `db:"day_index" json:"dayIndex"`
	IssuedAt  time.Time `db:"issued_at" json:"issuedAt"`
	Winds     string    `db:"winds" json:"winds"`
	Seas      string    `db:"seas" json:"seas"`
	Swell     string    `db:"swell" json:"swell"`
	Weather   string    `db:"weather" json:"weather"`
	FetchedAt time.Time `db:"fetched_at" json:"fetchedAt"`
}

// MarineWarning is an item from the BOM Victorian marine warnings feed.
type MarineWarning struct {
	GUID        string    `db:"guid" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Link        string    `db:"link" json:"link"`
	PublishedAt time.Time `db:"published_at" json:"publishedAt"`
	FirstSeenAt time.Time `db:"first_seen_at" json:"firstSeenAt"`
	LastSeenAt  time.Time `db:"last_seen_at" json:"lastSeenAt"`
}

// Amenity is an OpenStreetMap facility near a spot.
type Amenity struct {
	SpotID    string  `db:"spot_id" json:"-"`
	OSMID     int64   `db:"osm_id" json:"osmId"`
	Kind      string  `db:"kind" json:"kind"` // "toilets", "parking", "shower", "lifeguard", "drinking_water"
	Name      string  `db:"name" json:"name,omitempty"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	DistanceM float64 `db:"distance_m" json:"distanceM"`
}
