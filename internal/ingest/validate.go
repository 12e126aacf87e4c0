package ingest

import "encoding/json"

const (
	FlagMissingRequired     = "missing_required"
	FlagWaveHeightRange     = "wave_height_out_of_range"
	FlagWavePeriodRange     = "wave_period_out_of_range"
	FlagDirectionInvalid    = "direction_invalid"
	FlagWindSpeedUnlikely   = "wind_speed_unlikely"
	FlagAirTempOutOfRange   = "air_temp_out_of_range"
	FlagComponentInvalid    = "component_invalid"
	FlagComponentExceedsSea = "component_exceeds_sea"
)

// ValidateSample returns quality flags for a forecast hour. Samples with any
// flag are not scored.
func ValidateSample(s HourlySample) []string {
	var flags []string

	if s.WaveHeight == nil || s.WavePeriod == nil || s.WaveDirection == nil ||
		s.WindSpeed == nil || s.WindDirection == nil {
		flags = append(flags, FlagMissingRequired)
	}

	if s.WaveHeight != nil && (*s.WaveHeight < 0 || *s.WaveHeight > 20) {
		flags = append(flags, FlagWaveHeightRange)
	}
	if s.WavePeriod != nil && (*s.WavePeriod <= 0 || *s.WavePeriod > 30) {
		flags = append(flags, FlagWavePeriodRange)
	}

	for _, d := range []*float64{s.WaveDirection, s.WindDirection, s.SwellDirection, s.WindWaveDirection} {
		if d != nil && (*d < 0 || *d > 360) {
			flags = append(flags, FlagDirectionInvalid)
			break
		}
	}

	if s.WindSpeed != nil && (*s.WindSpeed < 0 || *s.WindSpeed > 200) {
		flags = append(flags, FlagWindSpeedUnlikely)
	}
	if s.AirTemp != nil && (*s.AirTemp < -10 || *s.AirTemp > 50) {
		flags = append(flags, FlagAirTempOutOfRange)
	}

	for _, v := range []*float64{s.SwellHeight, s.WindWaveHeight} {
		if v != nil && *v < 0 {
			flags = append(flags, FlagComponentInvalid)
			break
		}
	}
	for _, v := range []*float64{s.SwellPeriod, s.WindWavePeriod} {
		if v != nil && *v <= 0 {
			flags = append(flags, FlagComponentInvalid)
			break
		}
	}

	if s.WaveHeight != nil && s.SwellHeight != nil && *s.SwellHeight > *s.WaveHeight*1.5+0.5 {
		flags = append(flags, FlagComponentExceedsSea)
	}

	return flags
}

func QualityFlagsToJSON(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
