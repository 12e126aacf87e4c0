package tide

import "math"

// Day is a spot's tides for one local calendar date.
type Day struct {
	SpotID   string        `json:"spotId"`
	Date     string        `json:"date"` // YYYY-MM-DD
	Source   Source        `json:"source"`
	Fallback bool          `json:"fallback,omitempty"`
	Moon     MoonPhase     `json:"moonPhase,omitempty"`
	Events   []Event       `json:"events"`
	Hourly   []HourlyPoint `json:"hourly"`
}

// Range returns the lowest and highest heights across events and hourly
// points.
func (d Day) Range() (low, high float64) {
	low, high = math.Inf(1), math.Inf(-1)
	for _, e := range d.Events {
		low, high = math.Min(low, e.Height), math.Max(high, e.Height)
	}
	for _, p := range d.Hourly {
		low, high = math.Min(low, p.Height), math.Max(high, p.Height)
	}
	if math.IsInf(low, 1) {
		return 0, 0
	}
	return low, high
}

// HeightAt linearly interpolates the hourly curve at a fractional hour.
func (d Day) HeightAt(hour float64) (float64, bool) {
	n := len(d.Hourly)
	if n == 0 {
		return 0, false
	}
	if hour <= 0 {
		return d.Hourly[0].Height, true
	}
	i := int(hour)
	if i >= n-1 {
		return d.Hourly[n-1].Height, true
	}
	f := hour - float64(i)
	return d.Hourly[i].Height*(1-f) + d.Hourly[i+1].Height*f, true
}
