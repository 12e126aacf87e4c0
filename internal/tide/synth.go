// Package tide estimates tides for spots without a live tide feed. Estimates
// come from a two-constituent harmonic model and are always labelled
// SourceSynthesized so callers can tell them apart from station data.
package tide

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrInvalidDate is returned for the zero time.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidSpot is returned for an empty spot ID.
var ErrInvalidSpot = errors.New("invalid spot")

// Source distinguishes station data from model output.
type Source string

const (
	SourceMeasured    Source = "measured"
	SourceSynthesized Source = "synthesized"
)

type EventType string

const (
	High EventType = "high"
	Low  EventType = "low"
)

// Event is a high or low water at a local clock time.
type Event struct {
	Time   string    `json:"time"` // HH:MM local
	Height float64   `json:"height"`
	Type   EventType `json:"type"`
}

const (
	DescHigh    = "High tide"
	DescLow     = "Low tide"
	DescRising  = "Rising tide"
	DescFalling = "Falling tide"
)

// HourlyPoint is the modelled height at the top of an hour.
type HourlyPoint struct {
	Hour        int     `json:"hour"`
	Height      float64 `json:"height"`
	Description string  `json:"description"`
}

// Event jitter bounds.
const (
	maxTimeJitter   = 20 * time.Minute
	maxHeightJitter = 0.05
)

// Synthesizer produces tide days for known spots. It is safe for concurrent
// use: each call derives its own random generator.
type Synthesizer struct {
	model     Model
	locations map[string]Location
	clock     clockwork.Clock
	seed      uint64
	seeded    bool
}

type Option func(*Synthesizer)

// WithSeed makes event jitter reproducible for a given date and spot.
func WithSeed(seed uint64) Option {
	return func(s *Synthesizer) {
		s.seed = seed
		s.seeded = true
	}
}

func WithModel(m Model) Option {
	return func(s *Synthesizer) { s.model = m }
}

func WithLocations(locs map[string]Location) Option {
	return func(s *Synthesizer) { s.locations = locs }
}

// WithClock sets the clock used to seed jitter when no seed is given.
func WithClock(c clockwork.Clock) Option {
	return func(s *Synthesizer) { s.clock = c }
}

func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		model:     DefaultModel(),
		locations: DefaultLocations(),
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mapped reports whether spotID has a location entry.
func (s *Synthesizer) Mapped(spotID string) bool {
	_, ok := s.locations[spotID]
	return ok
}

// Hourly returns 24 points for hours 0-23 of date's local day.
func (s *Synthesizer) Hourly(date time.Time, spotID string) ([]HourlyPoint, error) {
	if err := check(date, spotID); err != nil {
		return nil, err
	}
	loc, ok := s.locations[spotID]
	if !ok {
		return FallbackHourly(), nil
	}
	return GenerateHourly(s.model, loc, date), nil
}

// Events returns low, high, low, high for a mapped spot, or the generic
// three-event pattern for an unmapped one. Times and heights carry bounded
// random jitter; use WithSeed for reproducible output.
func (s *Synthesizer) Events(date time.Time, spotID string) ([]Event, error) {
	if err := check(date, spotID); err != nil {
		return nil, err
	}
	loc, ok := s.locations[spotID]
	if !ok {
		return FallbackEvents(), nil
	}
	return GenerateEvents(s.model, loc, date, s.rand(date, spotID)), nil
}

// HeightAt returns the modelled height at t, without jitter. Hours are wall
// clock hours in t's location, matching the indexes of Hourly.
func (s *Synthesizer) HeightAt(t time.Time, spotID string) (float64, error) {
	if err := check(t, spotID); err != nil {
		return 0, err
	}
	hour := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
	loc, ok := s.locations[spotID]
	if !ok {
		return fallbackCurve(hour), nil
	}
	return round2(s.model.curve(t, loc).at(hour)), nil
}

// Day bundles events and the hourly curve for one spot and date.
func (s *Synthesizer) Day(date time.Time, spotID string) (Day, error) {
	events, err := s.Events(date, spotID)
	if err != nil {
		return Day{}, err
	}
	hourly, err := s.Hourly(date, spotID)
	if err != nil {
		return Day{}, err
	}
	return Day{
		SpotID:   spotID,
		Date:     date.Format(time.DateOnly),
		Source:   SourceSynthesized,
		Fallback: !s.Mapped(spotID),
		Moon:     PhaseName(startOfDay(date).Add(12 * time.Hour)),
		Events:   events,
		Hourly:   hourly,
	}, nil
}

func (s *Synthesizer) rand(date time.Time, spotID string) *rand.Rand {
	seed := s.seed
	if !s.seeded {
		seed = uint64(s.clock.Now().UnixNano())
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s", spotID, date.Format(time.DateOnly))
	return rand.New(rand.NewPCG(seed, h.Sum64()))
}

func check(date time.Time, spotID string) error {
	if date.IsZero() {
		return ErrInvalidDate
	}
	if spotID == "" {
		return ErrInvalidSpot
	}
	return nil
}

// GenerateHourly samples the model at each hour of date's local day.
func GenerateHourly(m Model, loc Location, date time.Time) []HourlyPoint {
	return sampleHourly(m.curve(date, loc).at)
}

// GenerateEvents places low, high, low, high at the model's slot times and
// perturbs each by up to 20 minutes and 5 cm using rng.
func GenerateEvents(m Model, loc Location, date time.Time, rng *rand.Rand) []Event {
	c := m.curve(date, loc)
	types := [4]EventType{Low, High, Low, High}

	events := make([]Event, 0, 4)
	for i, hour := range c.slots() {
		jitterMin := (rng.Float64()*2 - 1) * maxTimeJitter.Minutes()
		jitterHeight := (rng.Float64()*2 - 1) * maxHeightJitter

		h := math.Max(c.at(hour)+jitterHeight, m.MinHeight)
		minutes := int(math.Round(hour*60 + jitterMin))
		events = append(events, Event{
			Time:   clockTime(minutes),
			Height: round2(h),
			Type:   types[i],
		})
	}
	return events
}

// FallbackEvents is the generic pattern for spots with no location entry:
// high near dawn, low near noon, high near evening.
func FallbackEvents() []Event {
	return []Event{
		{Time: "06:00", Height: 1.5, Type: High},
		{Time: "12:00", Height: 0.5, Type: Low},
		{Time: "18:00", Height: 1.5, Type: High},
	}
}

// FallbackHourly is a 12 hour cosine matching FallbackEvents.
func FallbackHourly() []HourlyPoint {
	return sampleHourly(fallbackCurve)
}

func fallbackCurve(hour float64) float64 {
	return round2(1.0 + 0.5*math.Cos(2*math.Pi*(hour-6)/12))
}

func sampleHourly(f func(float64) float64) []HourlyPoint {
	points := make([]HourlyPoint, 24)
	for h := range points {
		prev, cur, next := f(float64(h-1)), f(float64(h)), f(float64(h+1))
		points[h] = HourlyPoint{
			Hour:        h,
			Height:      round2(cur),
			Description: describe(prev, cur, next),
		}
	}
	return points
}

func describe(prev, cur, next float64) string {
	switch {
	case cur >= prev && cur > next:
		return DescHigh
	case cur <= prev && cur < next:
		return DescLow
	case next > cur:
		return DescRising
	default:
		return DescFalling
	}
}

func clockTime(minutes int) string {
	minutes = max(0, min(minutes, 24*60-1))
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
