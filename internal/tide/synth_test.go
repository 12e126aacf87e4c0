package tide

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"strconv"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"
)

var aest = time.FixedZone("AEST", 10*60*60)

func minutesOf(t *testing.T, hhmm string) int {
	t.Helper()
	if len(hhmm) != 5 || hhmm[2] != ':' {
		t.Fatalf("bad time %q", hhmm)
	}
	h, err := strconv.Atoi(hhmm[:2])
	if err != nil {
		t.Fatal(err)
	}
	m, err := strconv.Atoi(hhmm[3:])
	if err != nil {
		t.Fatal(err)
	}
	return h*60 + m
}

func TestEvents_FourAlternatingStartingLow(t *testing.T) {
	s := NewSynthesizer(WithSeed(42))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, aest)

	for id := range DefaultLocations() {
		for d := 0; d < 60; d++ {
			date := start.AddDate(0, 0, d)
			events, err := s.Events(date, id)
			if err != nil {
				t.Fatalf("Events(%s, %s): %v", date.Format(time.DateOnly), id, err)
			}
			if len(events) != 4 {
				t.Fatalf("len(events) = %d, want 4", len(events))
			}

			want := []EventType{Low, High, Low, High}
			prev := -1
			for i, e := range events {
				if e.Type != want[i] {
					t.Errorf("%s %s event %d type = %s, want %s", id, date.Format(time.DateOnly), i, e.Type, want[i])
				}
				m := minutesOf(t, e.Time)
				if m <= prev {
					t.Errorf("%s %s event %d at %s not after previous", id, date.Format(time.DateOnly), i, e.Time)
				}
				prev = m
				if e.Height <= 0 {
					t.Errorf("event height %v, want > 0", e.Height)
				}
			}
			if events[0].Height >= events[1].Height || events[2].Height >= events[3].Height {
				t.Errorf("%s %s lows not below highs: %+v", id, date.Format(time.DateOnly), events)
			}
		}
	}
}

func TestEvents_JitterBounded(t *testing.T) {
	m := DefaultModel()
	loc := DefaultLocations()["bells-beach"]
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, aest)
	slots := m.curve(date, loc).slots()

	for seed := uint64(0); seed < 200; seed++ {
		events := GenerateEvents(m, loc, date, rand.New(rand.NewPCG(seed, 7)))
		for i, e := range events {
			got := float64(minutesOf(t, e.Time))
			if diff := math.Abs(got - slots[i]*60); diff > 21 {
				t.Fatalf("seed %d event %d at %s is %.0f minutes from slot", seed, i, e.Time, diff)
			}
		}
	}
}

func TestEvents_SeededIsReproducible(t *testing.T) {
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, aest)

	a, err := NewSynthesizer(WithSeed(7)).Events(date, "winkipop")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSynthesizer(WithSeed(7)).Events(date, "winkipop")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
}

func TestEvents_UnseededUsesClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC))
	s := NewSynthesizer(WithClock(clock))
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, aest)

	a, _ := s.Events(date, "bells-beach")
	b, _ := s.Events(date, "bells-beach")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same clock reading gave different events")
	}

	clock.Advance(time.Hour)
	c, _ := s.Events(date, "bells-beach")
	if reflect.DeepEqual(a, c) {
		t.Errorf("events did not change after the clock advanced")
	}
}

func TestHourly(t *testing.T) {
	s := NewSynthesizer()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, aest)

	valid := map[string]bool{DescHigh: true, DescLow: true, DescRising: true, DescFalling: true}
	for d := 0; d < 30; d++ {
		date := start.AddDate(0, 0, d)
		points, err := s.Hourly(date, "gunnamatta")
		if err != nil {
			t.Fatal(err)
		}
		if len(points) != 24 {
			t.Fatalf("len(points) = %d, want 24", len(points))
		}
		var highs, lows int
		for i, p := range points {
			if p.Hour != i {
				t.Errorf("points[%d].Hour = %d", i, p.Hour)
			}
			if p.Height <= 0 {
				t.Errorf("points[%d].Height = %v, want > 0", i, p.Height)
			}
			if !valid[p.Description] {
				t.Errorf("points[%d].Description = %q", i, p.Description)
			}
			switch p.Description {
			case DescHigh:
				highs++
			case DescLow:
				lows++
			}
		}
		if highs == 0 || lows == 0 {
			t.Errorf("%s: highs=%d lows=%d, want both", date.Format(time.DateOnly), highs, lows)
		}

		again, _ := s.Hourly(date, "gunnamatta")
		if !reflect.DeepEqual(points, again) {
			t.Errorf("Hourly not deterministic for %s", date.Format(time.DateOnly))
		}
	}
}

func TestHourly_FloorsAtMinimum(t *testing.T) {
	m := DefaultModel()
	m.Base = 0
	points := GenerateHourly(m, Location{Offset: -0.5}, time.Date(2026, 1, 1, 0, 0, 0, 0, aest))
	for _, p := range points {
		if p.Height < m.MinHeight {
			t.Errorf("hour %d height %v below floor %v", p.Hour, p.Height, m.MinHeight)
		}
	}
}

func TestFallback(t *testing.T) {
	s := NewSynthesizer(WithSeed(1))
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, aest)

	if s.Mapped("phantom-reef") {
		t.Fatal("phantom-reef should not be mapped")
	}

	events, err := s.Events(date, "phantom-reef")
	if err != nil {
		t.Fatal(err)
	}
	want := []Event{
		{Time: "06:00", Height: 1.5, Type: High},
		{Time: "12:00", Height: 0.5, Type: Low},
		{Time: "18:00", Height: 1.5, Type: High},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("Events() = %+v, want %+v", events, want)
	}

	day, err := s.Day(date, "phantom-reef")
	if err != nil {
		t.Fatal(err)
	}
	if !day.Fallback || day.Source != SourceSynthesized {
		t.Errorf("Day() Fallback=%v Source=%v", day.Fallback, day.Source)
	}
	if len(day.Hourly) != 24 {
		t.Fatalf("len(Hourly) = %d, want 24", len(day.Hourly))
	}
	if day.Hourly[6].Description != DescHigh || day.Hourly[12].Description != DescLow {
		t.Errorf("fallback curve extremes: 06=%q 12=%q", day.Hourly[6].Description, day.Hourly[12].Description)
	}
	for _, p := range day.Hourly {
		if p.Height <= 0 {
			t.Errorf("hour %d height %v", p.Hour, p.Height)
		}
	}
}

func TestInvalidInput(t *testing.T) {
	s := NewSynthesizer()
	if _, err := s.Events(time.Time{}, "bells-beach"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Events(zero date) error = %v, want ErrInvalidDate", err)
	}
	if _, err := s.Hourly(time.Now(), ""); !errors.Is(err, ErrInvalidSpot) {
		t.Errorf("Hourly(empty spot) error = %v, want ErrInvalidSpot", err)
	}
	if _, err := s.Day(time.Time{}, "bells-beach"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Day(zero date) error = %v, want ErrInvalidDate", err)
	}
}

func TestSpringNeapRange(t *testing.T) {
	s := NewSynthesizer(WithSeed(3))

	spring, err := s.Day(time.Date(2000, 1, 7, 0, 0, 0, 0, time.UTC), "portsea")
	if err != nil {
		t.Fatal(err)
	}
	neap, err := s.Day(time.Date(2000, 1, 14, 0, 0, 0, 0, time.UTC), "portsea")
	if err != nil {
		t.Fatal(err)
	}

	sl, sh := spring.Range()
	nl, nh := neap.Range()
	if sh-sl <= 2*(nh-nl) {
		t.Errorf("spring range %.2f not well above neap range %.2f", sh-sl, nh-nl)
	}
	if spring.Moon != MoonNew {
		t.Errorf("spring Moon = %v, want new", spring.Moon)
	}
}

func TestHeightAt(t *testing.T) {
	s := NewSynthesizer()
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, aest)
	points, _ := s.Hourly(date, "torquay")

	for _, hour := range []int{0, 7, 15, 23} {
		got, err := s.HeightAt(date.Add(time.Duration(hour)*time.Hour), "torquay")
		if err != nil {
			t.Fatal(err)
		}
		if got != points[hour].Height {
			t.Errorf("HeightAt(%02d:00) = %v, want %v", hour, got, points[hour].Height)
		}
	}
}

func TestHeightAt_DaylightSavingChange(t *testing.T) {
	melbourne, err := time.LoadLocation("Australia/Melbourne")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSynthesizer()
	date := time.Date(2026, 10, 4, 0, 0, 0, 0, melbourne)
	points, _ := s.Hourly(date, "winkipop")

	for _, hour := range []int{1, 7, 12, 22} {
		at := time.Date(2026, 10, 4, hour, 0, 0, 0, melbourne)
		got, err := s.HeightAt(at, "winkipop")
		if err != nil {
			t.Fatal(err)
		}
		if got != points[hour].Height {
			t.Errorf("HeightAt(%02d:00) = %v, want Hourly[%d] = %v", hour, got, hour, points[hour].Height)
		}
	}
}

func TestLunarPhase(t *testing.T) {
	tests := []struct {
		t    time.Time
		want MoonPhase
	}{
		{referenceNewMoon, MoonNew},
		{referenceNewMoon.Add(15 * 24 * time.Hour), MoonFull},
		{referenceNewMoon.Add(8 * 24 * time.Hour), MoonFirstQuarter},
		{referenceNewMoon.Add(-24 * time.Hour), MoonWaningCrescent},
	}
	for _, tt := range tests {
		if got := PhaseName(tt.t); got != tt.want {
			t.Errorf("PhaseName(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}

	if got := LunarPhase(referenceNewMoon); got != 0 {
		t.Errorf("LunarPhase(reference) = %v, want 0", got)
	}
}

func TestDayHelpers(t *testing.T) {
	d := Day{
		Events: []Event{{Height: 0.4, Type: Low}, {Height: 1.6, Type: High}},
		Hourly: []HourlyPoint{{Hour: 0, Height: 1.0}, {Hour: 1, Height: 2.0}},
	}
	low, high := d.Range()
	if low != 0.4 || high != 2.0 {
		t.Errorf("Range() = %v, %v, want 0.4, 2.0", low, high)
	}
	if got, ok := d.HeightAt(0.5); !ok || got != 1.5 {
		t.Errorf("HeightAt(0.5) = %v, %v, want 1.5", got, ok)
	}
	if got, _ := d.HeightAt(5); got != 2.0 {
		t.Errorf("HeightAt(5) = %v, want 2.0", got)
	}
	if _, ok := (Day{}).HeightAt(1); ok {
		t.Error("HeightAt on empty day should report false")
	}
}
