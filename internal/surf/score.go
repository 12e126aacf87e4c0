package surf

import "math"

// TidePreference is the tide state a spot works best on.
type TidePreference string

const (
	TideLow  TidePreference = "low"
	TideMid  TidePreference = "mid"
	TideHigh TidePreference = "high"
	TideAny  TidePreference = "any"
)

func (p TidePreference) target() (float64, bool) {
	switch p {
	case TideLow:
		return 0, true
	case TideMid:
		return 0.5, true
	case TideHigh:
		return 1, true
	}
	return 0, false
}

// TideContext places the current tide within the day's range.
type TideContext struct {
	State     float64 // 0 at low water, 1 at high water
	Preferred TidePreference
}

// NewTideContext normalises a tide height against the day's low and high.
func NewTideContext(height, low, high float64, pref TidePreference) TideContext {
	state := 0.5
	if high > low {
		state = clamp((height-low)/(high-low), 0, 1)
	}
	return TideContext{State: state, Preferred: pref}
}

// ScoreInput is everything the composer needs for one hour at one spot.
type ScoreInput struct {
	BreakingHeight float64
	Period         float64
	WindSpeed      float64
	WindDirection  Compass
	// SwellDirection is optional. Without it the wind is judged against
	// ShoreFacing, the direction the beach faces out to sea, and with
	// neither it is scored on speed only.
	SwellDirection Compass
	ShoreFacing    Compass
	Tide           *TideContext
}

// Score is the overall rating and its breakdown, each on 1-10.
type Score struct {
	Overall     float64 `json:"overallScore"`
	WaveQuality float64 `json:"waveQuality"`
	WindQuality float64 `json:"windQuality"`
	TideOptimal float64 `json:"tideOptimal"`
	Consistency float64 `json:"consistencyScore"`
}

// Rating is the label shown next to a score.
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingFair      Rating = "fair"
	RatingPoor      Rating = "poor"
	RatingFlat      Rating = "flat"
)

func (s Score) Rating() Rating {
	switch {
	case s.Overall >= 8:
		return RatingExcellent
	case s.Overall >= 6.5:
		return RatingGood
	case s.Overall >= 4.5:
		return RatingFair
	case s.Overall >= 2.5:
		return RatingPoor
	default:
		return RatingFlat
	}
}

// CalculateScore composes a score using DefaultConfig.
func CalculateScore(in ScoreInput) (Score, error) {
	return DefaultConfig().CalculateScore(in)
}

// CalculateScore returns the weighted surf score for in. The result depends
// only on in and c.
func (c Config) CalculateScore(in ScoreInput) (Score, error) {
	if bad(in.BreakingHeight) || in.BreakingHeight < 0 {
		return Score{}, invalid("breaking height %v", in.BreakingHeight)
	}
	if bad(in.Period) || in.Period <= 0 {
		return Score{}, invalid("period %v", in.Period)
	}
	if bad(in.WindSpeed) || in.WindSpeed < 0 {
		return Score{}, invalid("wind speed %v", in.WindSpeed)
	}
	if !in.WindDirection.Valid() {
		return Score{}, invalid("wind direction %q", in.WindDirection)
	}
	if in.SwellDirection != "" && !in.SwellDirection.Valid() {
		return Score{}, invalid("swell direction %q", in.SwellDirection)
	}
	if in.ShoreFacing != "" && !in.ShoreFacing.Valid() {
		return Score{}, invalid("shore facing %q", in.ShoreFacing)
	}
	if in.Tide != nil && (bad(in.Tide.State) || in.Tide.State < 0 || in.Tide.State > 1) {
		return Score{}, invalid("tide state %v", in.Tide.State)
	}

	s := Score{
		WaveQuality: c.waveQuality(in.BreakingHeight, in.Period),
		WindQuality: c.windQuality(in.WindSpeed, in.WindDirection, in.offshoreReference()),
		TideOptimal: c.tideScore(in.Tide),
		Consistency: c.consistency(in.Period),
	}

	w := c.Weights
	overall := (w.Wave*s.WaveQuality + w.Wind*s.WindQuality + w.Tide*s.TideOptimal + w.Consistency*s.Consistency) / w.total()
	s.Overall = round1(clamp(overall, 1, 10))
	return s, nil
}

func (c Config) waveQuality(h, period float64) float64 {
	var q float64
	switch {
	case h < c.MinRideable:
		return 1
	case h < c.SweetSpotMin:
		q = 2 + 6*(h-c.MinRideable)/(c.SweetSpotMin-c.MinRideable)
	case h <= c.SweetSpotMax:
		q = 8
	case h <= c.ChaoticAbove:
		q = 8 - 2*(h-c.SweetSpotMax)/(c.ChaoticAbove-c.SweetSpotMax)
	default:
		q = 6 - 1.5*(h-c.ChaoticAbove)
	}

	switch {
	case period >= c.GroundSwellGood:
		q += 2
	case period >= 10:
		q++
	case period < 7:
		q -= 2
	}
	return round1(clamp(q, 1, 10))
}

// offshoreReference is the direction an onshore wind blows from.
func (in ScoreInput) offshoreReference() Compass {
	if in.SwellDirection != "" {
		return in.SwellDirection
	}
	return in.ShoreFacing
}

// windQuality scores offshore and light winds highest. Offshore means the
// wind blows from the opposite quarter to onshore.
func (c Config) windQuality(speed float64, windDir, onshore Compass) float64 {
	if speed <= c.LightWind {
		return 10
	}

	offshore := 0.5
	if onshore != "" {
		offshore = AngularDifference(windDir.Degrees(), onshore.Degrees()) / 180
	}

	q := 10 - (1-offshore)*(speed-c.LightWind)*0.4
	if speed > c.StrongWind {
		q = math.Min(q, 5) - (speed-c.StrongWind)*0.2
	}
	return round1(clamp(q, 1, 10))
}

func (c Config) tideScore(t *TideContext) float64 {
	if t == nil {
		return c.NeutralTide
	}
	target, ok := t.Preferred.target()
	if !ok {
		return c.NeutralTide
	}
	return round1(clamp(10-9*math.Abs(t.State-target), 1, 10))
}

// consistency maps period linearly so short wind chop scores 2.5 and
// 13 s groundswell scores 9.
func (c Config) consistency(period float64) float64 {
	return round1(clamp(2.5+(period-6)*6.5/7, 1, 10))
}
