package surf

import "math"

// Observation is one hour of marine and weather data for a spot. Optional
// fields are nil when the provider omitted them.
type Observation struct {
	WaveHeight    float64 `json:"waveHeight"`    // metres, combined sea state
	WaveDirection float64 `json:"waveDirection"` // degrees, 0-359
	WavePeriod    float64 `json:"wavePeriod"`    // seconds
	WindSpeed     float64 `json:"windSpeed"`     // km/h
	WindDirection float64 `json:"windDirection"` // degrees, 0-359
	AirTemp       float64 `json:"airTemp"`       // °C

	WindWaveHeight    *float64 `json:"windWaveHeight,omitempty"`
	WindWavePeriod    *float64 `json:"windWavePeriod,omitempty"`
	WindWaveDirection *float64 `json:"windWaveDirection,omitempty"`
	SwellHeight       *float64 `json:"swellHeight,omitempty"`
	SwellPeriod       *float64 `json:"swellPeriod,omitempty"`
	SwellDirection    *float64 `json:"swellDirection,omitempty"`
}

// Validate rejects values no scoring function should ever see.
func (o Observation) Validate() error {
	if bad(o.WaveHeight) || o.WaveHeight < 0 {
		return invalid("wave height %v", o.WaveHeight)
	}
	if bad(o.WavePeriod) || o.WavePeriod <= 0 {
		return invalid("wave period %v", o.WavePeriod)
	}
	if bad(o.WindSpeed) || o.WindSpeed < 0 {
		return invalid("wind speed %v", o.WindSpeed)
	}
	if !bearing(o.WaveDirection) {
		return invalid("wave direction %v", o.WaveDirection)
	}
	if !bearing(o.WindDirection) {
		return invalid("wind direction %v", o.WindDirection)
	}
	for _, h := range []*float64{o.WindWaveHeight, o.SwellHeight} {
		if h != nil && (bad(*h) || *h < 0) {
			return invalid("component height %v", *h)
		}
	}
	for _, p := range []*float64{o.WindWavePeriod, o.SwellPeriod} {
		if p != nil && (bad(*p) || *p <= 0) {
			return invalid("component period %v", *p)
		}
	}
	for _, d := range []*float64{o.WindWaveDirection, o.SwellDirection} {
		if d != nil && !bearing(*d) {
			return invalid("component direction %v", *d)
		}
	}
	return nil
}

// Completeness is the share of optional fields present, 0-1.
func (o Observation) Completeness() float64 {
	present := 0
	fields := []*float64{o.WindWaveHeight, o.WindWavePeriod, o.WindWaveDirection, o.SwellHeight, o.SwellPeriod, o.SwellDirection}
	for _, f := range fields {
		if f != nil {
			present++
		}
	}
	return float64(present) / float64(len(fields))
}

// SplitSwells separates the groundswell train from the local wind sea. When
// the provider gave no swell partition the combined sea state is the primary
// train and there is no secondary.
func (o Observation) SplitSwells() (SwellInput, *SwellInput, error) {
	waveDir, err := DegreesToCompass(o.WaveDirection)
	if err != nil {
		return SwellInput{}, nil, err
	}

	primary := SwellInput{Height: o.WaveHeight, Period: o.WavePeriod, Direction: waveDir}
	if o.SwellHeight == nil || *o.SwellHeight <= 0 {
		return primary, nil, nil
	}

	primary.Height = *o.SwellHeight
	if o.SwellPeriod != nil {
		primary.Period = *o.SwellPeriod
	}
	if o.SwellDirection != nil {
		if primary.Direction, err = DegreesToCompass(*o.SwellDirection); err != nil {
			return SwellInput{}, nil, err
		}
	}

	if o.WindWaveHeight == nil || *o.WindWaveHeight <= 0 {
		return primary, nil, nil
	}
	secondary := &SwellInput{Height: *o.WindWaveHeight, Period: o.WavePeriod}
	if o.WindWavePeriod != nil {
		secondary.Period = *o.WindWavePeriod
	}
	dir := o.WindDirection
	if o.WindWaveDirection != nil {
		dir = *o.WindWaveDirection
	}
	if secondary.Direction, err = DegreesToCompass(dir); err != nil {
		return SwellInput{}, nil, err
	}
	return primary, secondary, nil
}

func bad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func bearing(v float64) bool {
	return !bad(v) && v >= 0 && v < 360
}
