package tide

import (
	"math"
	"time"
)

// MoonPhase names one eighth of the synodic month.
type MoonPhase string

const (
	MoonNew            MoonPhase = "new"
	MoonWaxingCrescent MoonPhase = "waxing_crescent"
	MoonFirstQuarter   MoonPhase = "first_quarter"
	MoonWaxingGibbous  MoonPhase = "waxing_gibbous"
	MoonFull           MoonPhase = "full"
	MoonWaningGibbous  MoonPhase = "waning_gibbous"
	MoonLastQuarter    MoonPhase = "last_quarter"
	MoonWaningCrescent MoonPhase = "waning_crescent"
)

var moonPhases = [8]MoonPhase{
	MoonNew, MoonWaxingCrescent, MoonFirstQuarter, MoonWaxingGibbous,
	MoonFull, MoonWaningGibbous, MoonLastQuarter, MoonWaningCrescent,
}

// LunarCycle is the synodic month in days.
const LunarCycle = 29.53

// referenceNewMoon is the new moon of January 6, 2000 18:14 UTC.
var referenceNewMoon = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// LunarPhase returns the position within the lunar cycle: 0 at new moon,
// 0.5 at full moon.
func LunarPhase(t time.Time) float64 {
	days := t.Sub(referenceNewMoon).Hours() / 24
	pos := math.Mod(days, LunarCycle)
	if pos < 0 {
		pos += LunarCycle
	}
	return pos / LunarCycle
}

// PhaseName buckets LunarPhase into eight named phases.
func PhaseName(t time.Time) MoonPhase {
	i := int(LunarPhase(t) * 8)
	if i > 7 {
		i = 7
	}
	return moonPhases[i]
}

// springNeap scales tidal amplitude. Springs fall at new and full moon,
// neaps at the quarters.
func (m Model) springNeap(t time.Time) float64 {
	return 1 + m.SpringNeapRange*math.Cos(4*math.Pi*LunarPhase(t))
}
