package surf

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for negative heights, non-positive periods,
// unknown compass points and similar malformed values.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// Config holds every tunable threshold used by the converters, classifier
// and score composer.
type Config struct {
	// BreakingFactor converts offshore swell height to breaking height.
	BreakingFactor float64

	// Confidence heuristic for ConvertWaveHeight, in percent.
	ConfidenceBase         float64
	ConfidenceFloor        float64
	ConfidenceStableHeight float64 // metres below which confidence stays at base
	ConfidencePerMetre     float64 // confidence lost per metre above stable height

	// Swell period thresholds in seconds.
	GroundSwellExcellent float64
	GroundSwellGood      float64
	MixedGood            float64
	WindSwellMax         float64 // periods at or below this are wind swell
	WindSwellFair        float64 // wind swell at or above this is fair, else poor

	// EnergyScale multiplies h²·T.
	EnergyScale float64
	// Upper bounds (exclusive) for Small, Moderate, Solid and Powerful.
	EnergyBands [4]float64

	// Wave quality height bands in metres of breaking height.
	MinRideable  float64
	SweetSpotMin float64
	SweetSpotMax float64
	ChaoticAbove float64

	// Wind thresholds in km/h.
	LightWind  float64
	StrongWind float64

	// NeutralTide is used when no tide context is supplied.
	NeutralTide float64

	// Swell interaction thresholds.
	NegligibleHeight     float64 // metres
	NegligibleEnergy     float64 // fraction of primary energy
	ConstructiveMaxAngle float64 // degrees
	DestructiveMinAngle  float64 // degrees
	PeriodRatioMin       float64
	PeriodRatioMax       float64

	Weights Weights
}

// Weights combine the four sub-scores into the overall score.
type Weights struct {
	Wave        float64
	Wind        float64
	Tide        float64
	Consistency float64
}

func (w Weights) total() float64 {
	return w.Wave + w.Wind + w.Tide + w.Consistency
}

// DefaultConfig returns thresholds tuned for the Victorian coastline.
func DefaultConfig() Config {
	return Config{
		BreakingFactor: 0.85,

		ConfidenceBase:         85,
		ConfidenceFloor:        60,
		ConfidenceStableHeight: 3,
		ConfidencePerMetre:     5,

		GroundSwellExcellent: 14,
		GroundSwellGood:      12,
		MixedGood:            9,
		WindSwellMax:         6,
		WindSwellFair:        5,

		EnergyScale: 1.0,
		EnergyBands: [4]float64{10, 30, 80, 200},

		MinRideable:  0.3,
		SweetSpotMin: 1.0,
		SweetSpotMax: 2.5,
		ChaoticAbove: 4.0,

		LightWind:  5,
		StrongWind: 25,

		NeutralTide: 5.5,

		NegligibleHeight:     0.1,
		NegligibleEnergy:     0.10,
		ConstructiveMaxAngle: 30,
		DestructiveMinAngle:  60,
		PeriodRatioMin:       0.7,
		PeriodRatioMax:       1.43,

		Weights: Weights{Wave: 0.45, Wind: 0.35, Tide: 0.10, Consistency: 0.10},
	}
}

// Validate reports configurations that would break the score invariants.
func (c Config) Validate() error {
	switch {
	case c.BreakingFactor <= 0:
		return invalid("breaking factor %v must be positive", c.BreakingFactor)
	case c.EnergyScale <= 0:
		return invalid("energy scale %v must be positive", c.EnergyScale)
	case c.Weights.total() <= 0:
		return invalid("score weights must sum to a positive value")
	case c.Weights.Wave < 0 || c.Weights.Wind < 0 || c.Weights.Tide < 0 || c.Weights.Consistency < 0:
		return invalid("score weights must not be negative")
	case c.SweetSpotMin >= c.SweetSpotMax:
		return invalid("sweet spot %v-%v is empty", c.SweetSpotMin, c.SweetSpotMax)
	case c.LightWind >= c.StrongWind:
		return invalid("light wind %v must be below strong wind %v", c.LightWind, c.StrongWind)
	}
	for i := 1; i < len(c.EnergyBands); i++ {
		if c.EnergyBands[i] <= c.EnergyBands[i-1] {
			return invalid("energy bands must be increasing")
		}
	}
	return nil
}
