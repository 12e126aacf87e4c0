// Package surf converts marine forecast fields into breaking heights, swell
// classifications, wave energy and a 1-10 surf score. Everything here is
// pure: no I/O, no clocks, no shared state.
package surf

import (
	"math"
	"strings"
)

// Compass is one of the 16 compass points.
type Compass string

const (
	N   Compass = "N"
	NNE Compass = "NNE"
	NE  Compass = "NE"
	ENE Compass = "ENE"
	E   Compass = "E"
	ESE Compass = "ESE"
	SE  Compass = "SE"
	SSE Compass = "SSE"
	S   Compass = "S"
	SSW Compass = "SSW"
	SW  Compass = "SW"
	WSW Compass = "WSW"
	W   Compass = "W"
	WNW Compass = "WNW"
	NW  Compass = "NW"
	NNW Compass = "NNW"
)

var compassPoints = [16]Compass{N, NNE, NE, ENE, E, ESE, SE, SSE, S, SSW, SW, WSW, W, WNW, NW, NNW}

const sectorWidth = 360.0 / 16

// DegreesToCompass maps a bearing to the nearest of 16 compass points.
// Bearings of 360 or more are normalised; negative bearings are rejected.
func DegreesToCompass(deg float64) (Compass, error) {
	if math.IsNaN(deg) || math.IsInf(deg, 0) || deg < 0 {
		return "", invalid("bearing %v", deg)
	}
	deg = math.Mod(deg, 360)
	idx := int(math.Round(deg/sectorWidth)) % 16
	return compassPoints[idx], nil
}

// ParseCompass accepts a compass point in any case.
func ParseCompass(s string) (Compass, error) {
	c := Compass(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", invalid("compass point %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the 16 points.
func (c Compass) Valid() bool {
	return c.index() >= 0
}

// Degrees returns the centre bearing of the sector, or -1 for an invalid point.
func (c Compass) Degrees() float64 {
	i := c.index()
	if i < 0 {
		return -1
	}
	return float64(i) * sectorWidth
}

// Opposite returns the point 180° away.
func (c Compass) Opposite() Compass {
	i := c.index()
	if i < 0 {
		return c
	}
	return compassPoints[(i+8)%16]
}

func (c Compass) index() int {
	for i, p := range compassPoints {
		if p == c {
			return i
		}
	}
	return -1
}

// AngularDifference returns the smallest angle between two bearings, 0-180.
func AngularDifference(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
