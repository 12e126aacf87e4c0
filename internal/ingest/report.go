package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/surf"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

// ErrRejected is returned by Build for samples that fail quality checks.
var ErrRejected = errors.New("sample rejected")

var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/TheMainlander/MyVicSurf-sub000/reports"))

// ReportID is stable for a spot and hour so re-scoring replaces a report.
func ReportID(spotID string, validAt time.Time) string {
	return uuid.NewSHA1(reportNamespace, []byte(spotID+"|"+validAt.UTC().Format(time.RFC3339))).String()
}

// Reporter turns forecast hours into scored surf reports.
type Reporter struct {
	cfg surf.Config
	loc *time.Location
}

func NewReporter(cfg surf.Config, loc *time.Location) *Reporter {
	return &Reporter{cfg: cfg, loc: loc}
}

// Build scores one hour. day may be nil, in which case the tide component
// is neutral.
func (r *Reporter) Build(spot models.Spot, s HourlySample, day *tide.Day, computedAt time.Time) (models.SurfReport, error) {
	if flags := ValidateSample(s); len(flags) > 0 {
		return models.SurfReport{}, fmt.Errorf("%w: %s", ErrRejected, QualityFlagsToJSON(flags))
	}
	obs, ok := s.Observation()
	if !ok {
		return models.SurfReport{}, fmt.Errorf("%w: missing required field", ErrRejected)
	}

	var (
		tideCtx    *surf.TideContext
		tideHeight *float64
		tideSource string
	)
	if day != nil {
		local := s.Time.In(r.loc)
		if local.Format(time.DateOnly) == day.Date {
			hour := float64(local.Hour()) + float64(local.Minute())/60
			if h, ok := day.HeightAt(hour); ok {
				low, high := day.Range()
				tc := surf.NewTideContext(h, low, high, surf.TidePreference(spot.PreferredTide))
				tideCtx, tideHeight, tideSource = &tc, &h, string(day.Source)
			}
		}
	}

	// An unusable facing leaves the wind judged on the swell alone.
	facing, _ := surf.DegreesToCompass(spot.FacingDeg)
	a, err := r.cfg.AssessSpot(obs, tideCtx, facing)
	if err != nil {
		return models.SurfReport{}, fmt.Errorf("assess: %w", err)
	}

	waveDir, err := surf.DegreesToCompass(obs.WaveDirection)
	if err != nil {
		return models.SurfReport{}, err
	}
	windDir, err := surf.DegreesToCompass(obs.WindDirection)
	if err != nil {
		return models.SurfReport{}, err
	}

	rep := models.SurfReport{
		ReportID:   ReportID(spot.SpotID, s.Time),
		SpotID:     spot.SpotID,
		ValidAt:    s.Time.UTC(),
		ComputedAt: computedAt.UTC(),

		WaveHeight:       obs.WaveHeight,
		WaveDirection:    string(waveDir),
		WaveDirectionDeg: obs.WaveDirection,
		WavePeriod:       obs.WavePeriod,
		WindSpeed:        obs.WindSpeed,
		WindDirection:    string(windDir),
		WindDirectionDeg: obs.WindDirection,
		AirTemp:          obs.AirTemp,

		BreakingHeight:   a.Breaking.Height,
		Confidence:       a.Breaking.Confidence,
		SurfScore:        a.Score.Overall,
		Rating:           string(a.Rating),
		WaveQuality:      a.Score.WaveQuality,
		WindQuality:      a.Score.WindQuality,
		TideOptimal:      a.Score.TideOptimal,
		ConsistencyScore: a.Score.Consistency,
		SwellType:        string(a.Classification.Type),
		SwellQuality:     string(a.Classification.Quality),
		WaveEnergy:       a.Energy,
		EnergyLevel:      string(a.EnergyLevel),

		PrimarySwellHeight:    a.Swells.Primary.Height,
		PrimarySwellPeriod:    a.Swells.Primary.Period,
		PrimarySwellDirection: string(a.Swells.Primary.Direction),
		PrimarySwellDominance: a.Swells.Primary.Dominance,
		SwellInteraction:      string(a.Swells.Interaction),

		TideHeight: tideHeight,
		TideSource: tideSource,
	}
	if sec := a.Swells.Secondary; sec != nil {
		h, p, d, dom := sec.Height, sec.Period, string(sec.Direction), sec.Dominance
		rep.SecondarySwellHeight = &h
		rep.SecondarySwellPeriod = &p
		rep.SecondarySwellDirection = &d
		rep.SecondarySwellDominance = &dom
	}
	return rep, nil
}
