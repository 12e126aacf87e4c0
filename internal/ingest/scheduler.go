package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/imagegen"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/metrics"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/store"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

// ReportPublisher receives every batch of freshly scored reports.
type ReportPublisher interface {
	LoadBatch(ctx context.Context, reports []models.SurfReport) error
}

// Intervals controls how often each job runs.
type Intervals struct {
	Reports  time.Duration
	Tides    time.Duration
	Coastal  time.Duration
	Warnings time.Duration
	Amenity  time.Duration
}

func DefaultIntervals() Intervals {
	return Intervals{
		Reports:  time.Hour,
		Tides:    6 * time.Hour,
		Coastal:  3 * time.Hour,
		Warnings: 30 * time.Minute,
		Amenity:  7 * 24 * time.Hour,
	}
}

const (
	reportRetention  = 14 * 24 * time.Hour
	payloadRetention = 30 * 24 * time.Hour
	jobTimeout       = 5 * time.Minute
)

type Scheduler struct {
	store     *store.Store
	marine    *MarineClient
	tides     *TideService
	reporter  *Reporter
	bom       *BOMClient
	warnings  *WarningsClient
	amenities *AmenitiesClient
	publisher ReportPublisher

	imageGen   *imagegen.Generator
	imageCache *imagegen.Cache
	imageGenMu *sync.Mutex

	intervals Intervals
	loc       *time.Location
	clock     clockwork.Clock
	log       *zap.SugaredLogger
}

func NewScheduler(st *store.Store, marine *MarineClient, tides *TideService, reporter *Reporter, loc *time.Location, log *zap.SugaredLogger) *Scheduler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scheduler{
		store:     st,
		marine:    marine,
		tides:     tides,
		reporter:  reporter,
		intervals: DefaultIntervals(),
		loc:       loc,
		clock:     clockwork.NewRealClock(),
		log:       log,
	}
}

func (s *Scheduler) SetIntervals(i Intervals)              { s.intervals = i }
func (s *Scheduler) SetClock(c clockwork.Clock)            { s.clock = c }
func (s *Scheduler) SetBOMClient(c *BOMClient)             { s.bom = c }
func (s *Scheduler) SetWarningsClient(c *WarningsClient)   { s.warnings = c }
func (s *Scheduler) SetPublisher(p ReportPublisher)        { s.publisher = p }
func (s *Scheduler) SetAmenitiesClient(c *AmenitiesClient) { s.amenities = c }

// SetImageGenerator enables banner pre-generation after each report run. The
// mutex is shared with the HTTP server so a banner is only generated once.
func (s *Scheduler) SetImageGenerator(gen *imagegen.Generator, cache *imagegen.Cache, mu *sync.Mutex) {
	s.imageGen = gen
	s.imageCache = cache
	s.imageGenMu = mu
}

func (s *Scheduler) Run(ctx context.Context) {
	if err := s.IngestOnce(ctx); err != nil {
		s.log.Warnf("scheduler: initial ingest: %v", err)
	}

	reportTicker := s.clock.NewTicker(s.intervals.Reports)
	tideTicker := s.clock.NewTicker(s.intervals.Tides)
	coastalTicker := s.clock.NewTicker(s.intervals.Coastal)
	warningTicker := s.clock.NewTicker(s.intervals.Warnings)
	amenityTicker := s.clock.NewTicker(s.intervals.Amenity)
	pruneTicker := s.clock.NewTicker(24 * time.Hour)
	defer reportTicker.Stop()
	defer tideTicker.Stop()
	defer coastalTicker.Stop()
	defer warningTicker.Stop()
	defer amenityTicker.Stop()
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler: shutting down")
			return
		case <-reportTicker.Chan():
			s.runJob(ctx, "reports", s.IngestReports)
		case <-tideTicker.Chan():
			s.runJob(ctx, "tides", s.IngestTides)
		case <-coastalTicker.Chan():
			s.runJob(ctx, "coastal", s.IngestCoastal)
		case <-warningTicker.Chan():
			s.runJob(ctx, "warnings", s.IngestWarnings)
		case <-amenityTicker.Chan():
			s.runJob(ctx, "amenities", s.RefreshAmenities)
		case <-pruneTicker.Chan():
			s.runJob(ctx, "prune", s.Prune)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, name string, job func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()
	if err := job(ctx); err != nil {
		s.log.Warnf("scheduler: %s: %v", name, err)
	}
}

// IngestOnce runs every job once: tides first so reports can use them.
func (s *Scheduler) IngestOnce(ctx context.Context) error {
	return errors.Join(
		s.IngestTides(ctx),
		s.IngestReports(ctx),
		s.IngestCoastal(ctx),
		s.IngestWarnings(ctx),
	)
}

func (s *Scheduler) today() time.Time {
	now := s.clock.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// IngestTides stores tide days for today and tomorrow. Measured days already
// stored are not fetched again.
func (s *Scheduler) IngestTides(ctx context.Context) error {
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		return fmt.Errorf("get spots: %w", err)
	}

	today := s.today()
	for _, spot := range spots {
		for _, date := range []time.Time{today, today.AddDate(0, 0, 1)} {
			if _, err := s.resolveTideDay(ctx, spot, date, true); err != nil {
				s.log.Warnf("scheduler: tides %s %s: %v", spot.SpotID, date.Format(time.DateOnly), err)
			}
		}
	}
	return nil
}

// resolveTideDay returns the stored day for spot and date, fetching or
// synthesizing it when absent. refresh retries the live feed for days that
// are stored only as synthesized.
func (s *Scheduler) resolveTideDay(ctx context.Context, spot models.Spot, date time.Time, refresh bool) (*tide.Day, error) {
	stored, err := s.store.GetTideDay(spot.SpotID, date)
	if err != nil {
		return nil, fmt.Errorf("get tide day: %w", err)
	}
	if stored != nil && (stored.Source == tide.SourceMeasured || !refresh || !s.tides.HasLive()) {
		return stored, nil
	}

	var run *store.IngestRun
	if s.tides.HasLive() {
		run, _ = s.store.StartIngestRun("worldtides", "extremes", spot.SpotID)
	}

	fetch, err := s.tides.Day(ctx, spot, date)
	if run != nil {
		applyResult(run, fetch.Result, fetch.LiveErr)
		if len(fetch.Raw) > 0 {
			if _, err := s.store.StoreRawPayload(run, fetch.Raw); err != nil {
				s.log.Warnf("scheduler: store tide payload %s: %v", spot.SpotID, err)
			}
		}
		if fetch.LiveErr == nil {
			run.RecordsStored = sql.NullInt64{Int64: int64(len(fetch.Day.Events)), Valid: true}
		}
		s.completeRun(run)
	}
	if err != nil {
		return nil, err
	}
	if fetch.LiveErr != nil && s.tides.HasLive() {
		s.log.Debugf("scheduler: live tides %s unavailable, synthesized: %v", spot.SpotID, fetch.LiveErr)
	}

	if err := s.store.UpsertTideDay(fetch.Day, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("store tide day: %w", err)
	}
	metrics.TideDays.WithLabelValues(string(fetch.Day.Source)).Inc()

	if stored != nil && stored.Source == tide.SourceMeasured {
		return stored, nil
	}
	return &fetch.Day, nil
}

// IngestReports fetches the marine forecast for every active spot, scores
// each hour and stores the reports.
func (s *Scheduler) IngestReports(ctx context.Context) error {
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		return fmt.Errorf("get spots: %w", err)
	}

	s.log.Infof("scheduler: scoring %d spots", len(spots))
	var all []models.SurfReport
	for _, spot := range spots {
		reports, err := s.ingestSpot(ctx, spot)
		if err != nil {
			s.log.Warnf("scheduler: %s: %v", spot.SpotID, err)
			continue
		}
		all = append(all, reports...)
	}

	if s.publisher != nil && len(all) > 0 {
		if err := s.publisher.LoadBatch(ctx, all); err != nil {
			s.log.Warnf("scheduler: publish %d reports: %v", len(all), err)
		}
	}

	s.ensureBanners(all)
	return nil
}

func (s *Scheduler) ingestSpot(ctx context.Context, spot models.Spot) ([]models.SurfReport, error) {
	run, _ := s.store.StartIngestRun("open-meteo", "hourly", spot.SpotID)

	samples, payloads, result, err := s.marine.FetchHourly(ctx, spot.Latitude, spot.Longitude)
	applyResult(run, result, err)
	for _, p := range payloads {
		if _, perr := s.store.StoreRawPayload(run, p.Body); perr != nil {
			s.log.Warnf("scheduler: store %s payload %s: %v", p.Endpoint, spot.SpotID, perr)
		}
	}
	if err != nil {
		s.completeRun(run)
		return nil, fmt.Errorf("fetch marine: %w", err)
	}

	computedAt := s.clock.Now()
	days := make(map[string]*tide.Day)
	var reports []models.SurfReport
	rejected := 0

	for _, sample := range samples {
		date := sample.Time.In(s.loc)
		key := date.Format(time.DateOnly)
		day, seen := days[key]
		if !seen {
			midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
			if day, err = s.resolveTideDay(ctx, spot, midnight, false); err != nil {
				s.log.Warnf("scheduler: tide day %s %s: %v", spot.SpotID, key, err)
			}
			days[key] = day
		}

		report, err := s.reporter.Build(spot, sample, day, computedAt)
		if err != nil {
			rejected++
			metrics.ReportsRejected.WithLabelValues(spot.SpotID).Inc()
			s.log.Debugf("scheduler: skip %s %s: %v", spot.SpotID, sample.Time.Format(time.RFC3339), err)
			continue
		}
		if err := s.store.UpsertSurfReport(report); err != nil {
			s.log.Warnf("scheduler: store report %s: %v", spot.SpotID, err)
			continue
		}
		metrics.ReportsScored.WithLabelValues(spot.SpotID).Inc()
		reports = append(reports, report)
	}

	if run != nil {
		run.RecordsStored = sql.NullInt64{Int64: int64(len(reports)), Valid: true}
		if rejected > 0 {
			run.ParseErrors = sql.NullInt64{Int64: int64(rejected), Valid: true}
		}
	}
	s.completeRun(run)

	if latest, err := s.store.GetLatestReport(spot.SpotID, computedAt); err == nil && latest != nil {
		metrics.LatestScore.WithLabelValues(spot.SpotID).Set(latest.SurfScore)
		s.log.Infof("scheduler: %s: %.1f %s (%d hours)", spot.SpotID, latest.SurfScore, latest.Rating, len(reports))
	}
	return reports, nil
}

// IngestCoastal stores the BOM coastal waters forecast when configured.
func (s *Scheduler) IngestCoastal(ctx context.Context) error {
	if s.bom == nil {
		return nil
	}

	run, _ := s.store.StartIngestRun("bom", "coastal-waters", "")
	forecasts, raw, result, err := s.bom.FetchCoastal(ctx)
	applyResult(run, result, err)
	if len(raw) > 0 {
		if _, err := s.store.StoreRawPayload(run, raw); err != nil {
			s.log.Warnf("scheduler: store BOM payload: %v", err)
		}
	}
	if err != nil {
		s.completeRun(run)
		return fmt.Errorf("fetch coastal waters: %w", err)
	}

	stored := 0
	for _, f := range forecasts {
		if err := s.store.UpsertCoastalForecast(f); err != nil {
			s.log.Warnf("scheduler: store coastal %s: %v", f.AreaCode, err)
			continue
		}
		stored++
	}
	if run != nil {
		run.RecordsStored = sql.NullInt64{Int64: int64(stored), Valid: true}
	}
	s.completeRun(run)
	s.log.Infof("scheduler: stored %d coastal forecasts", stored)
	return nil
}

// IngestWarnings refreshes marine warnings when configured.
func (s *Scheduler) IngestWarnings(ctx context.Context) error {
	if s.warnings == nil {
		return nil
	}

	run, _ := s.store.StartIngestRun("bom", "marine-warnings", "")
	warnings, raw, result, err := s.warnings.Fetch(ctx)
	applyResult(run, result, err)
	if len(raw) > 0 {
		if _, err := s.store.StoreRawPayload(run, raw); err != nil {
			s.log.Warnf("scheduler: store warnings payload: %v", err)
		}
	}
	if err != nil {
		s.completeRun(run)
		return fmt.Errorf("fetch warnings: %w", err)
	}

	now := s.clock.Now()
	stored := 0
	for _, w := range warnings {
		if err := s.store.UpsertWarning(w, now); err != nil {
			s.log.Warnf("scheduler: store warning %s: %v", w.GUID, err)
			continue
		}
		stored++
	}
	if run != nil {
		run.RecordsStored = sql.NullInt64{Int64: int64(stored), Valid: true}
	}
	s.completeRun(run)
	if stored > 0 {
		s.log.Infof("scheduler: %d active marine warnings", stored)
	}
	return nil
}

// RefreshAmenities replaces each spot's nearby facilities from
// OpenStreetMap. A failed lookup keeps the previous list.
func (s *Scheduler) RefreshAmenities(ctx context.Context) error {
	if s.amenities == nil {
		return nil
	}
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		return fmt.Errorf("get spots: %w", err)
	}

	for _, spot := range spots {
		run, _ := s.store.StartIngestRun("overpass", "amenities", spot.SpotID)
		amenities, err := s.amenities.Fetch(ctx, spot)
		if err != nil {
			run.Fail(err)
			s.completeRun(run)
			s.log.Warnf("scheduler: amenities %s: %v", spot.SpotID, err)
			continue
		}
		if err := s.store.ReplaceAmenities(spot.SpotID, amenities); err != nil {
			run.Fail(err)
			s.completeRun(run)
			s.log.Warnf("scheduler: store amenities %s: %v", spot.SpotID, err)
			continue
		}
		if run != nil {
			run.Success = true
			run.RecordsStored = sql.NullInt64{Int64: int64(len(amenities)), Valid: true}
		}
		s.completeRun(run)
	}
	return nil
}

// Prune drops old reports and archived payloads.
func (s *Scheduler) Prune(ctx context.Context) error {
	now := s.clock.Now()
	reports, err := s.store.PruneReports(now.Add(-reportRetention))
	if err != nil {
		return fmt.Errorf("prune reports: %w", err)
	}
	payloads, err := s.store.CleanupOldRawPayloads(now.Add(-payloadRetention))
	if err != nil {
		return fmt.Errorf("prune payloads: %w", err)
	}
	s.log.Infof("scheduler: pruned %d reports, %d payloads", reports, payloads)
	return nil
}

// ensureBanners generates any missing banner for the conditions in the
// current hour's reports.
func (s *Scheduler) ensureBanners(reports []models.SurfReport) {
	if s.imageGen == nil || s.imageCache == nil {
		return
	}

	now := s.clock.Now()
	hour := now.UTC().Truncate(time.Hour)
	tod := imagegen.GetTimeOfDay(now.In(s.loc))

	var missing []imagegen.Condition
	seen := make(map[string]bool)
	for _, r := range reports {
		if !r.ValidAt.Equal(hour) {
			continue
		}
		c := imagegen.ConditionFor(r)
		key := imagegen.Key(c, tod)
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := s.imageCache.Get(key); !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return
	}

	go func() {
		if s.imageGenMu != nil {
			s.imageGenMu.Lock()
			defer s.imageGenMu.Unlock()
		}
		for _, c := range missing {
			key := imagegen.Key(c, tod)
			if _, ok := s.imageCache.Get(key); ok {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			data, err := s.imageGen.Generate(ctx, c, tod, now)
			cancel()
			if err != nil {
				s.log.Warnf("scheduler: banner %s: %v", key, err)
				continue
			}
			if err := s.imageCache.Set(key, data); err != nil {
				s.log.Warnf("scheduler: cache banner %s: %v", key, err)
			}
		}
	}()
}

func applyResult(run *store.IngestRun, result *FetchResult, err error) {
	if run == nil {
		return
	}
	run.Success = err == nil
	if result != nil {
		run.HTTPStatus = sql.NullInt64{Int64: int64(result.HTTPStatus), Valid: result.HTTPStatus > 0}
		run.ResponseSizeBytes = sql.NullInt64{Int64: int64(result.ResponseSize), Valid: result.ResponseSize > 0}
		run.RecordsParsed = sql.NullInt64{Int64: int64(result.RecordCount), Valid: true}
		if result.ParseErrors > 0 {
			run.ParseErrors = sql.NullInt64{Int64: int64(result.ParseErrors), Valid: true}
		}
	}
	run.Fail(err)
}

func (s *Scheduler) completeRun(run *store.IngestRun) {
	if err := s.store.CompleteIngestRun(run); err != nil {
		s.log.Warnf("scheduler: complete ingest run: %v", err)
	}
}
