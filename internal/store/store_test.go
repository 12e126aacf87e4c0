package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	loc, err := time.LoadLocation("Australia/Melbourne")
	require.NoError(t, err)

	store := New(db, loc, nil)
	require.NoError(t, store.Migrate())
	return store
}

func testSpot(id string) models.Spot {
	return models.Spot{
		SpotID:        id,
		Name:          "Bells Beach",
		Region:        "surf_coast",
		Latitude:      -38.3686,
		Longitude:     144.2811,
		FacingDeg:     135,
		PreferredTide: "mid",
		CoastalZone:   "VIC_MW005",
		Active:        true,
	}
}

func testReport(spotID string, validAt time.Time, score float64) models.SurfReport {
	return models.SurfReport{
		ReportID:              spotID + validAt.Format(time.RFC3339),
		SpotID:                spotID,
		ValidAt:               validAt,
		ComputedAt:            validAt,
		WaveHeight:            1.8,
		WaveDirection:         "SW",
		WaveDirectionDeg:      225,
		WavePeriod:            14,
		WindSpeed:             8,
		WindDirection:         "NE",
		WindDirectionDeg:      45,
		AirTemp:               17,
		BreakingHeight:        1.5,
		Confidence:            85,
		SurfScore:             score,
		Rating:                "good",
		SwellType:             "ground_swell",
		SwellQuality:          "excellent",
		WaveEnergy:            45.4,
		EnergyLevel:           "solid",
		PrimarySwellHeight:    1.8,
		PrimarySwellPeriod:    14,
		PrimarySwellDirection: "SW",
		PrimarySwellDominance: 100,
		SwellInteraction:      "neutral",
		TideSource:            "synthesized",
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Migrate())

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestUpsertAndGetSpot(t *testing.T) {
	store := setupTestStore(t)

	sp := testSpot("bells-beach")
	require.NoError(t, store.UpsertSpot(sp))

	sp.Name = "Bells"
	require.NoError(t, store.UpsertSpot(sp))

	got, err := store.GetSpot("bells-beach")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bells", got.Name)
	assert.Equal(t, 135.0, got.FacingDeg)
	assert.True(t, got.Active)

	missing, err := store.GetSpot("nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetActiveSpots_FilterInactive(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.UpsertSpot(testSpot("winkipop")))
	inactive := testSpot("closed")
	inactive.Active = false
	require.NoError(t, store.UpsertSpot(inactive))

	spots, err := store.GetActiveSpots()
	require.NoError(t, err)
	require.Len(t, spots, 1)
	assert.Equal(t, "winkipop", spots[0].SpotID)
}

func TestUpsertSurfReport_ReplacesSameHour(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.UpsertSurfReport(testReport("bells-beach", base, 5.0)))
	require.NoError(t, store.UpsertSurfReport(testReport("bells-beach", base, 7.5)))

	got, err := store.GetLatestReport("bells-beach", base.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7.5, got.SurfScore)
	assert.True(t, got.ValidAt.Equal(base))
	assert.Nil(t, got.SecondarySwellHeight)
	assert.Nil(t, got.TideHeight)
}

func TestSurfReport_OptionalFields(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	r := testReport("winkipop", base, 6.0)
	h, p, d, dom, tideHeight := 0.6, 8.0, "S", 20.0, 1.2
	r.SecondarySwellHeight = &h
	r.SecondarySwellPeriod = &p
	r.SecondarySwellDirection = &d
	r.SecondarySwellDominance = &dom
	r.TideHeight = &tideHeight
	require.NoError(t, store.UpsertSurfReport(r))

	got, err := store.GetLatestReport("winkipop", base)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.SecondarySwellDirection)
	assert.Equal(t, "S", *got.SecondarySwellDirection)
	require.NotNil(t, got.TideHeight)
	assert.Equal(t, 1.2, *got.TideHeight)
}

func TestGetReports_Range(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := range 6 {
		require.NoError(t, store.UpsertSurfReport(testReport("bells-beach", base.Add(time.Duration(i)*time.Hour), float64(i))))
	}

	reports, err := store.GetReports("bells-beach", base.Add(time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, 1.0, reports[0].SurfScore)
	assert.Equal(t, 3.0, reports[2].SurfScore)

	latest, err := store.GetLatestReport("bells-beach", base.Add(4*time.Hour+30*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 4.0, latest.SurfScore)

	pruned, err := store.PruneReports(base.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), pruned)
}

func TestGetLatestReports_PerSpot(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.UpsertSurfReport(testReport("bells-beach", base, 4)))
	require.NoError(t, store.UpsertSurfReport(testReport("bells-beach", base.Add(time.Hour), 5)))
	require.NoError(t, store.UpsertSurfReport(testReport("bells-beach", base.Add(5*time.Hour), 9)))
	require.NoError(t, store.UpsertSurfReport(testReport("lorne", base, 3)))

	latest, err := store.GetLatestReports(base.Add(2 * time.Hour))
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, 5.0, latest["bells-beach"].SurfScore)
	assert.Equal(t, 3.0, latest["lorne"].SurfScore)
}

func TestGetLatestReport_None(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.GetLatestReport("bells-beach", time.Now())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTideDay_MeasuredNotReplacedBySynthesized(t *testing.T) {
	store := setupTestStore(t)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, store.loc)

	measured := tide.Day{
		SpotID: "portsea",
		Date:   "2026-03-01",
		Source: tide.SourceMeasured,
		Events: []tide.Event{{Time: "04:12", Height: 0.4, Type: tide.Low}},
		Hourly: tide.FallbackHourly(),
	}
	require.NoError(t, store.UpsertTideDay(measured, time.Now()))

	synth := measured
	synth.Source = tide.SourceSynthesized
	synth.Events = tide.FallbackEvents()
	require.NoError(t, store.UpsertTideDay(synth, time.Now()))

	got, err := store.GetTideDay("portsea", date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tide.SourceMeasured, got.Source)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "04:12", got.Events[0].Time)
	assert.Len(t, got.Hourly, 24)
}

func TestTideDay_SynthesizedUpgradedToMeasured(t *testing.T) {
	store := setupTestStore(t)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, store.loc)

	synth := tide.Day{
		SpotID: "torquay",
		Date:   "2026-03-01",
		Source: tide.SourceSynthesized,
		Events: tide.FallbackEvents(),
		Hourly: tide.FallbackHourly(),
	}
	require.NoError(t, store.UpsertTideDay(synth, time.Now()))

	measured := synth
	measured.Source = tide.SourceMeasured
	require.NoError(t, store.UpsertTideDay(measured, time.Now()))

	got, err := store.GetTideDay("torquay", date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tide.SourceMeasured, got.Source)

	none, err := store.GetTideDay("torquay", date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestIngestRun_Lifecycle(t *testing.T) {
	store := setupTestStore(t)

	run, err := store.StartIngestRun("open-meteo", "marine", "bells-beach")
	require.NoError(t, err)
	require.NotZero(t, run.ID)

	run.Fail(errors.New("status 503"))
	run.HTTPStatus = sql.NullInt64{Int64: 503, Valid: true}
	require.NoError(t, store.CompleteIngestRun(run))

	ok, err := store.StartIngestRun("bom", "coastal-waters", "")
	require.NoError(t, err)
	ok.Success = true
	ok.RecordsStored = sql.NullInt64{Int64: 7, Valid: true}
	require.NoError(t, store.CompleteIngestRun(ok))

	errs, err := store.GetRecentIngestErrors(10)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "status 503", errs[0].ErrorMessage.String)
	assert.Equal(t, "bells-beach", errs[0].SpotID.String)

	health, err := store.GetIngestHealth(7)
	require.NoError(t, err)
	require.Len(t, health, 2)
	var stored int64
	for _, h := range health {
		stored += h.TotalRecords
	}
	assert.Equal(t, int64(7), stored)

	assert.NoError(t, store.CompleteIngestRun(nil))
}

func TestRawPayload_RoundTripAndDedup(t *testing.T) {
	store := setupTestStore(t)

	run, err := store.StartIngestRun("open-meteo", "marine", "lorne")
	require.NoError(t, err)

	payload := []byte(`{"hourly":{"wave_height":[1.2,1.3]}}`)
	id, err := store.StoreRawPayload(run, payload)
	require.NoError(t, err)
	require.NotZero(t, id)

	dup, err := store.StoreRawPayload(run, payload)
	require.NoError(t, err)
	assert.Zero(t, dup)

	got, err := store.GetRawPayload(id)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	stats, err := store.GetRawPayloadStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCount)
	assert.Equal(t, 1, stats.CountBySource["open-meteo"])

	deleted, err := store.CleanupOldRawPayloads(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestWarnings_Active(t *testing.T) {
	store := setupTestStore(t)
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	old := models.MarineWarning{GUID: "w1", Title: "Strong wind warning", PublishedAt: now.Add(-48 * time.Hour)}
	fresh := models.MarineWarning{GUID: "w2", Title: "Gale warning", PublishedAt: now.Add(-time.Hour)}

	require.NoError(t, store.UpsertWarning(old, now.Add(-24*time.Hour)))
	require.NoError(t, store.UpsertWarning(fresh, now))

	active, err := store.GetActiveWarnings(now, 6*time.Hour)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "w2", active[0].GUID)

	// seen again: stays active, first_seen kept
	require.NoError(t, store.UpsertWarning(old, now))
	active, err = store.GetActiveWarnings(now, 6*time.Hour)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "w2", active[0].GUID)
	assert.True(t, active[1].FirstSeenAt.Equal(now.Add(-24*time.Hour)))
}

func TestCoastalForecast_NewerIssueWins(t *testing.T) {
	store := setupTestStore(t)
	issued := time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC)

	f := models.CoastalForecast{
		AreaCode:  "VIC_MW005",
		AreaName:  "Port Phillip to Cape Otway",
		ValidDate: "2026-03-02",
		DayIndex:  1,
		IssuedAt:  issued,
		Winds:     "Northerly 10 to 15 knots.",
		Swell:     "Southwesterly 1.5 metres.",
		FetchedAt: issued,
	}
	require.NoError(t, store.UpsertCoastalForecast(f))

	stale := f
	stale.IssuedAt = issued.Add(-6 * time.Hour)
	stale.Winds = "stale"
	require.NoError(t, store.UpsertCoastalForecast(stale))

	got, err := store.GetCoastalForecasts("VIC_MW005", time.Date(2026, 3, 1, 12, 0, 0, 0, store.loc))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Northerly 10 to 15 knots.", got[0].Winds)
}

func TestReplaceAmenities(t *testing.T) {
	store := setupTestStore(t)

	first := []models.Amenity{
		{OSMID: 1, Kind: "toilets", DistanceM: 300},
		{OSMID: 2, Kind: "parking", DistanceM: 80},
	}
	require.NoError(t, store.ReplaceAmenities("bells-beach", first))
	require.NoError(t, store.ReplaceAmenities("bells-beach", first[:1]))

	got, err := store.GetAmenities("bells-beach")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "toilets", got[0].Kind)
	assert.Equal(t, "bells-beach", got[0].SpotID)
}
