package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/store"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/surf"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]models.SurfReport
}

func (p *recordingPublisher) LoadBatch(ctx context.Context, reports []models.SurfReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, reports)
	return nil
}

type schedulerFixture struct {
	sched *Scheduler
	store *store.Store
	clock *clockwork.FakeClock
	pub   *recordingPublisher
	loc   *time.Location
}

func newSchedulerFixture(t *testing.T) schedulerFixture {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	loc, err := time.LoadLocation("Australia/Melbourne")
	require.NoError(t, err)

	st := store.New(db, loc, nil)
	require.NoError(t, st.Migrate())
	require.NoError(t, st.UpsertSpot(winkipop()))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/marine":
			fmt.Fprint(w, marineFixture)
		case "/forecast":
			fmt.Fprint(w, weatherFixture)
		case "/warnings":
			fmt.Fprint(w, warningsFixture)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 14, 23, 20, 0, 0, time.UTC))
	synth := tide.NewSynthesizer(tide.WithSeed(3))
	sched := NewScheduler(
		st,
		NewMarineClient(srv.URL+"/marine", srv.URL+"/forecast", 0),
		NewTideService(synth, nil),
		NewReporter(surf.DefaultConfig(), loc),
		loc,
		nil,
	)
	sched.SetClock(clock)
	sched.SetWarningsClient(NewWarningsClient(srv.URL + "/warnings"))
	pub := &recordingPublisher{}
	sched.SetPublisher(pub)

	return schedulerFixture{sched: sched, store: st, clock: clock, pub: pub, loc: loc}
}

func TestScheduler_IngestOnce(t *testing.T) {
	f := newSchedulerFixture(t)

	require.NoError(t, f.sched.IngestOnce(context.Background()))

	today := time.Date(2025, 1, 15, 0, 0, 0, 0, f.loc)
	for _, date := range []time.Time{today, today.AddDate(0, 0, 1)} {
		day, err := f.store.GetTideDay("winkipop", date)
		require.NoError(t, err)
		require.NotNil(t, day, "tide day %s", date.Format(time.DateOnly))
		assert.Equal(t, tide.SourceSynthesized, day.Source)
	}

	reports, err := f.store.GetReports("winkipop",
		time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, reports, 1, "the hour with a null wave height is rejected")

	r := reports[0]
	assert.Equal(t, ReportID("winkipop", time.Date(2025, 1, 14, 23, 0, 0, 0, time.UTC)), r.ReportID)
	assert.Equal(t, string(tide.SourceSynthesized), r.TideSource)
	assert.NotNil(t, r.TideHeight)
	assert.NotEmpty(t, r.Rating)

	require.Len(t, f.pub.batches, 1)
	assert.Len(t, f.pub.batches[0], 1)

	warnings, err := f.store.GetActiveWarnings(f.clock.Now(), time.Hour)
	require.NoError(t, err)
	assert.Len(t, warnings, 2)

	stats, err := f.store.GetRawPayloadStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCount, "marine, forecast and warnings payloads")
}

func TestScheduler_RescoreReplaces(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sched.IngestReports(ctx))
	f.clock.Advance(10 * time.Minute)
	require.NoError(t, f.sched.IngestReports(ctx))

	reports, err := f.store.GetReports("winkipop",
		time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].ComputedAt.Equal(f.clock.Now()), "computed_at is refreshed")

	stats, err := f.store.GetRawPayloadStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCount, "identical payloads are stored once")
}

func TestScheduler_Prune(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sched.IngestReports(ctx))
	f.clock.Advance(15 * 24 * time.Hour)
	require.NoError(t, f.sched.Prune(ctx))

	latest, err := f.store.GetLatestReport("winkipop", f.clock.Now())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.sched.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestScheduler_OptionalJobsDisabled(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.sched.IngestCoastal(ctx))
	assert.NoError(t, f.sched.RefreshAmenities(ctx))
}
