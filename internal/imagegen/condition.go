package imagegen

import (
	"fmt"
	"strings"
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/surf"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

// Condition is a banner category for surf conditions.
type Condition string

const (
	ConditionCleanEpic Condition = "clean_epic"
	ConditionCleanGood Condition = "clean_good"
	ConditionChoppy    Condition = "choppy"
	ConditionFlat      Condition = "flat"
	ConditionStormy    Condition = "stormy"
)

var conditions = []Condition{ConditionCleanEpic, ConditionCleanGood, ConditionChoppy, ConditionFlat, ConditionStormy}

// TimeOfDay is the lighting period for a banner.
type TimeOfDay string

const (
	TimeDawn  TimeOfDay = "dawn"
	TimeDay   TimeOfDay = "day"
	TimeDusk  TimeOfDay = "dusk"
	TimeNight TimeOfDay = "night"
)

var timesOfDay = []TimeOfDay{TimeDawn, TimeDay, TimeDusk, TimeNight}

func GetTimeOfDay(t time.Time) TimeOfDay {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 7:
		return TimeDawn
	case hour >= 7 && hour < 18:
		return TimeDay
	case hour >= 18 && hour < 21:
		return TimeDusk
	default:
		return TimeNight
	}
}

// ConditionFor maps a scored report to a banner condition.
func ConditionFor(r models.SurfReport) Condition {
	switch {
	case r.WindSpeed >= 40 || r.BreakingHeight >= 4:
		return ConditionStormy
	case r.BreakingHeight < 0.3 || r.Rating == string(surf.RatingFlat):
		return ConditionFlat
	case r.WindQuality < 5:
		return ConditionChoppy
	case r.SurfScore >= 8:
		return ConditionCleanEpic
	default:
		return ConditionCleanGood
	}
}

// Key is the cache key for a condition at a time of day, e.g. "choppy_dusk".
func Key(c Condition, tod TimeOfDay) string {
	return fmt.Sprintf("%s_%s", c, tod)
}

// ParseKey splits a cache key back into its parts.
func ParseKey(key string) (Condition, TimeOfDay, bool) {
	i := strings.LastIndex(key, "_")
	if i <= 0 {
		return "", "", false
	}
	c, tod := Condition(key[:i]), TimeOfDay(key[i+1:])
	validC, validT := false, false
	for _, v := range conditions {
		validC = validC || v == c
	}
	for _, v := range timesOfDay {
		validT = validT || v == tod
	}
	return c, tod, validC && validT
}

const baseStylePrompt = `Serene watercolor seascape of the Victorian surf coast, Australia.
Limestone cliffs, coastal heath and a long sandy beach, the Southern Ocean to the horizon.
Style: impressionistic watercolor, soft gradients, muted blues and sand tones, peaceful and minimal.
Wide panoramic composition suitable for a website header banner.
No text, no people, no buildings, no boats.`

var conditionPrompts = map[Condition]string{
	ConditionCleanEpic: "Long lines of clean groundswell peeling along the reef, glassy water, spray blowing back off the lips.",
	ConditionCleanGood: "Well-shaped waves breaking evenly, light offshore breeze, smooth water between sets.",
	ConditionChoppy:    "Wind-blown whitecaps, messy crumbling waves, textured water surface.",
	ConditionFlat:      "Calm flat ocean, tiny lapping shorebreak, mirror-like water.",
	ConditionStormy:    "Huge grey storm surf, dark heavy clouds, foam streaking across the water, rain squalls offshore.",
}

var timePrompts = map[TimeOfDay]string{
	TimeDawn: "Early dawn, soft pink and orange glow on the horizon, cool blue shadows, stillness before sunrise.",
	TimeDay:  "Midday, bright daylight, sun high in the sky, sparkling water.",
	TimeDusk: "Sunset, golden hour, warm orange and pink sky, sun setting into the sea, long shadows.",
}

var moonPrompts = map[tide.MoonPhase]string{
	tide.MoonNew:            "Moonless sky, only starlight",
	tide.MoonWaxingCrescent: "Thin crescent moon low in the west",
	tide.MoonFirstQuarter:   "Half moon high in the sky",
	tide.MoonWaxingGibbous:  "Bright gibbous moon",
	tide.MoonFull:           "Full moon laying a silver path across the water",
	tide.MoonWaningGibbous:  "Bright gibbous moon rising late",
	tide.MoonLastQuarter:    "Half moon rising over the sea",
	tide.MoonWaningCrescent: "Thin crescent moon before dawn",
}

// BuildPrompt creates the image prompt. Night scenes describe the moon phase.
func BuildPrompt(c Condition, tod TimeOfDay, moon tide.MoonPhase) string {
	conditionDesc, ok := conditionPrompts[c]
	if !ok {
		conditionDesc = conditionPrompts[ConditionCleanGood]
	}

	timeDesc := timePrompts[tod]
	if tod == TimeNight {
		timeDesc = fmt.Sprintf("NIGHTTIME SCENE. %s. Dark night sky, stars over the ocean, breaking waves lit by moonlight.", moonPrompts[moon])
	}

	return fmt.Sprintf("%s\n\n%s\n\nSurf conditions: %s", timeDesc, baseStylePrompt, conditionDesc)
}
