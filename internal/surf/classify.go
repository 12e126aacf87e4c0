package surf

import "math"

// SwellType categorises a swell train by period.
type SwellType string

const (
	GroundSwell SwellType = "ground_swell"
	WindSwell   SwellType = "wind_swell"
	MixedSwell  SwellType = "mixed"
)

// SwellQuality is the qualitative grade attached to a classification.
type SwellQuality string

const (
	QualityExcellent SwellQuality = "excellent"
	QualityGood      SwellQuality = "good"
	QualityFair      SwellQuality = "fair"
	QualityPoor      SwellQuality = "poor"
)

type SwellClassification struct {
	Type    SwellType    `json:"type"`
	Quality SwellQuality `json:"quality"`
}

// ClassifySwell uses the default period thresholds.
func ClassifySwell(period float64) (SwellClassification, error) {
	return DefaultConfig().ClassifySwell(period)
}

// ClassifySwell grades a swell by period alone.
func (c Config) ClassifySwell(period float64) (SwellClassification, error) {
	if math.IsNaN(period) || math.IsInf(period, 0) || period <= 0 {
		return SwellClassification{}, invalid("period %v", period)
	}
	switch {
	case period >= c.GroundSwellExcellent:
		return SwellClassification{GroundSwell, QualityExcellent}, nil
	case period >= c.GroundSwellGood:
		return SwellClassification{GroundSwell, QualityGood}, nil
	case period >= c.MixedGood:
		return SwellClassification{MixedSwell, QualityGood}, nil
	case period > c.WindSwellMax:
		return SwellClassification{MixedSwell, QualityFair}, nil
	case period >= c.WindSwellFair:
		return SwellClassification{WindSwell, QualityFair}, nil
	default:
		return SwellClassification{WindSwell, QualityPoor}, nil
	}
}
