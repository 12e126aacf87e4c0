package surf

import "math"

// Breaking is the surf height expected at the break for a given swell height.
type Breaking struct {
	Height     float64 `json:"breakingHeight"`
	Confidence float64 `json:"confidence"` // percent
}

// ConvertWaveHeight applies the default breaking factor.
func ConvertWaveHeight(swell float64) (Breaking, error) {
	return DefaultConfig().ConvertWaveHeight(swell)
}

// ConvertWaveHeight scales swell height by BreakingFactor. Confidence is a
// heuristic: flat at ConfidenceBase up to ConfidenceStableHeight, then
// falling linearly with height to ConfidenceFloor.
func (c Config) ConvertWaveHeight(swell float64) (Breaking, error) {
	if math.IsNaN(swell) || math.IsInf(swell, 0) || swell < 0 {
		return Breaking{}, invalid("swell height %v", swell)
	}
	conf := c.ConfidenceBase
	if swell > c.ConfidenceStableHeight {
		conf -= (swell - c.ConfidenceStableHeight) * c.ConfidencePerMetre
	}
	conf = math.Max(conf, c.ConfidenceFloor)
	return Breaking{
		Height:     swell * c.BreakingFactor,
		Confidence: round1(conf),
	}, nil
}

// ConvertWaveHeightWithData additionally scales confidence by the share of
// optional marine fields (0-1) that were present in the source payload.
func (c Config) ConvertWaveHeightWithData(swell, completeness float64) (Breaking, error) {
	if completeness < 0 || completeness > 1 || math.IsNaN(completeness) {
		return Breaking{}, invalid("completeness %v", completeness)
	}
	b, err := c.ConvertWaveHeight(swell)
	if err != nil {
		return Breaking{}, err
	}
	b.Confidence = round1(b.Confidence * (0.7 + 0.3*completeness))
	return b, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
