package tide

import (
	"math"
	"time"
)

// Constituent periods in hours.
const (
	M2Period = 12.4206
	S2Period = 12.0
)

// Model is the two-constituent harmonic approximation used when no tide
// station data is available. Heights are metres above chart datum.
type Model struct {
	Base            float64
	M2Amplitude     float64
	S2Amplitude     float64
	SpringNeapRange float64 // fractional amplitude swing across the lunar cycle
	MinHeight       float64
}

// DefaultModel approximates the open Victorian coast.
func DefaultModel() Model {
	return Model{
		Base:            1.0,
		M2Amplitude:     0.55,
		S2Amplitude:     0.20,
		SpringNeapRange: 0.25,
		MinHeight:       0.1,
	}
}

// dayCurve is the harmonic curve for one local calendar day, anchored so the
// first low water falls between 01:00 and 05:00.
type dayCurve struct {
	model      Model
	offset     float64
	lowHour    float64 // hours after local midnight
	s2Phase    float64 // radians of S2 relative to M2 at lowHour
	springNeap float64
}

func (m Model) curve(date time.Time, loc Location) dayCurve {
	midnight := startOfDay(date)
	hrs := midnight.Sub(referenceNewMoon).Hours() - loc.LagMinutes/60

	lowHour := 3 + (0.5-frac(hrs/M2Period))*4
	at := hrs + lowHour
	s2 := 2 * math.Pi * (frac(at/S2Period) - frac(at/M2Period))

	return dayCurve{
		model:      m,
		offset:     loc.Offset,
		lowHour:    lowHour,
		s2Phase:    s2,
		springNeap: m.springNeap(midnight.Add(12 * time.Hour)),
	}
}

// at returns the tide height at a fractional local hour.
func (c dayCurve) at(hour float64) float64 {
	dt := hour - c.lowHour
	m2 := -c.model.M2Amplitude * math.Cos(2*math.Pi*dt/M2Period)
	s2 := -c.model.S2Amplitude * math.Cos(2*math.Pi*dt/S2Period+c.s2Phase)
	h := c.model.Base + c.offset + c.springNeap*(m2+s2)
	return math.Max(h, c.model.MinHeight)
}

// slots returns the four event hours: low, high, low, high.
func (c dayCurve) slots() [4]float64 {
	half := M2Period / 2
	return [4]float64{c.lowHour, c.lowHour + half, c.lowHour + 2*half, c.lowHour + 3*half}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func frac(v float64) float64 {
	f := v - math.Floor(v)
	if f >= 1 {
		return 0
	}
	return f
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
