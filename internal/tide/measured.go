package tide

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrNoEvents is returned when a measured day has fewer than two usable
// extremes.
var ErrNoEvents = errors.New("not enough tide events")

// Measured builds a day from station extremes. The hourly curve comes from
// the extremes alone; see InterpolateHourly.
func (s *Synthesizer) Measured(date time.Time, spotID string, events []Event) (Day, error) {
	if err := check(date, spotID); err != nil {
		return Day{}, err
	}

	sorted := append([]Event(nil), events...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	hourly, err := InterpolateHourly(sorted)
	if err != nil {
		return Day{}, err
	}
	return Day{
		SpotID: spotID,
		Date:   date.Format(time.DateOnly),
		Source: SourceMeasured,
		Moon:   PhaseName(startOfDay(date).Add(12 * time.Hour)),
		Events: sorted,
		Hourly: hourly,
	}, nil
}

type extreme struct {
	minute float64
	height float64
}

// InterpolateHourly fits a half-cosine through consecutive extremes. Before
// the first and after the last event the curve is mirrored about the edge
// event, so the day stays continuous. Events must be sorted by time and at
// least two must parse.
func InterpolateHourly(events []Event) ([]HourlyPoint, error) {
	ext := make([]extreme, 0, len(events))
	for _, e := range events {
		var h, m int
		if _, err := fmt.Sscanf(e.Time, "%d:%d", &h, &m); err != nil {
			continue
		}
		minute := float64(h*60 + m)
		if n := len(ext); n > 0 && minute <= ext[n-1].minute {
			continue
		}
		ext = append(ext, extreme{minute: minute, height: e.Height})
	}
	if len(ext) < 2 {
		return nil, ErrNoEvents
	}
	ext = mirrorEdges(ext)

	at := func(hour float64) float64 {
		minute := hour * 60
		for i := 1; i < len(ext); i++ {
			a, b := ext[i-1], ext[i]
			if minute > b.minute {
				continue
			}
			x := (minute - a.minute) / (b.minute - a.minute)
			return (a.height+b.height)/2 + (a.height-b.height)/2*math.Cos(math.Pi*x)
		}
		return ext[len(ext)-1].height
	}
	return sampleHourly(at), nil
}

// mirrorEdges reflects the extremes about the first and last event until
// they cover an hour either side of the day, which sampleHourly reads.
func mirrorEdges(ext []extreme) []extreme {
	const from, to = -60.0, 25 * 60.0
	for ext[0].minute > from {
		first, second := ext[0], ext[1]
		mirrored := extreme{minute: 2*first.minute - second.minute, height: second.height}
		ext = append([]extreme{mirrored}, ext...)
	}
	for n := len(ext); ext[n-1].minute < to; n = len(ext) {
		last, prev := ext[n-1], ext[n-2]
		ext = append(ext, extreme{minute: 2*last.minute - prev.minute, height: prev.height})
	}
	return ext
}
