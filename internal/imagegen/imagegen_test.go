package imagegen

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

func TestConditionFor(t *testing.T) {
	tests := []struct {
		name string
		r    models.SurfReport
		want Condition
	}{
		{"storm wind", models.SurfReport{WindSpeed: 55, BreakingHeight: 2, WindQuality: 2, SurfScore: 3}, ConditionStormy},
		{"huge surf", models.SurfReport{WindSpeed: 5, BreakingHeight: 4.5, WindQuality: 9, SurfScore: 6}, ConditionStormy},
		{"flat", models.SurfReport{WindSpeed: 5, BreakingHeight: 0.2, WindQuality: 10, SurfScore: 2, Rating: "flat"}, ConditionFlat},
		{"choppy", models.SurfReport{WindSpeed: 30, BreakingHeight: 1.2, WindQuality: 3, SurfScore: 5}, ConditionChoppy},
		{"epic", models.SurfReport{WindSpeed: 8, BreakingHeight: 1.8, WindQuality: 10, SurfScore: 9.1}, ConditionCleanEpic},
		{"good", models.SurfReport{WindSpeed: 12, BreakingHeight: 1.0, WindQuality: 8, SurfScore: 6.7}, ConditionCleanGood},
	}
	for _, tt := range tests {
		if got := ConditionFor(tt.r); got != tt.want {
			t.Errorf("%s: ConditionFor() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestGetTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want TimeOfDay
	}{
		{4, TimeNight}, {5, TimeDawn}, {7, TimeDay}, {17, TimeDay}, {18, TimeDusk}, {21, TimeNight},
	}
	for _, tt := range tests {
		got := GetTimeOfDay(time.Date(2026, 1, 1, tt.hour, 0, 0, 0, time.UTC))
		if got != tt.want {
			t.Errorf("GetTimeOfDay(%02d:00) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	key := Key(ConditionCleanEpic, TimeDusk)
	if key != "clean_epic_dusk" {
		t.Fatalf("Key() = %q", key)
	}
	c, tod, ok := ParseKey(key)
	if !ok || c != ConditionCleanEpic || tod != TimeDusk {
		t.Errorf("ParseKey(%q) = %q, %q, %v", key, c, tod, ok)
	}
	if _, _, ok := ParseKey("sunny_day"); ok {
		t.Error("ParseKey(sunny_day) ok = true, want false")
	}
	if _, _, ok := ParseKey("flat"); ok {
		t.Error("ParseKey(flat) ok = true, want false")
	}
}

func TestBuildPrompt_NightUsesMoon(t *testing.T) {
	p := BuildPrompt(ConditionFlat, TimeNight, tide.MoonFull)
	if !strings.Contains(p, "Full moon") {
		t.Errorf("night prompt missing moon description: %q", p)
	}
	if !strings.Contains(p, conditionPrompts[ConditionFlat]) {
		t.Error("prompt missing condition description")
	}
}

func TestCache(t *testing.T) {
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("flat_day"); ok {
		t.Fatal("Get on empty cache ok = true")
	}
	if err := c.Set("flat_day", []byte("png")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, ok := c.Get("flat_day"); !ok || string(got) != "png" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
	if keys := c.List(); len(keys) != 1 || keys[0] != "flat_day" {
		t.Errorf("List() = %v", keys)
	}

	c.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if _, ok := c.Get("flat_day"); ok {
		t.Error("stale Get ok = true")
	}
	if _, ok := c.GetAny(); !ok {
		t.Error("GetAny ok = false")
	}
}

func TestRenderCard(t *testing.T) {
	tideHeight := 1.2
	r := models.SurfReport{
		SurfScore:             7.4,
		Rating:                "good",
		BreakingHeight:        1.5,
		PrimarySwellPeriod:    13,
		PrimarySwellDirection: "SW",
		WindSpeed:             10,
		WindDirection:         "N",
		TideHeight:            &tideHeight,
		TideSource:            "synthesized",
		ValidAt:               time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC),
	}
	data, err := RenderCard(nil, CardFromReport("Bells Beach", r, time.UTC))
	if err != nil {
		t.Fatalf("RenderCard: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != CardWidth || b.Dy() != CardHeight {
		t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), CardWidth, CardHeight)
	}

	// background is cover-cropped
	var bg bytes.Buffer
	if err := png.Encode(&bg, image.NewRGBA(image.Rect(0, 0, 300, 200))); err != nil {
		t.Fatal(err)
	}
	if _, err := RenderCard(bg.Bytes(), CardData{SpotName: "Lorne"}); err != nil {
		t.Errorf("RenderCard with background: %v", err)
	}
	if _, err := RenderCard([]byte("not an image"), CardData{}); err == nil {
		t.Error("RenderCard with bad background: want error")
	}
}

func TestCardCache(t *testing.T) {
	c := NewCardCache(time.Minute)
	now := time.Now()
	c.Set("lorne", "r1", []byte("a"), now)

	if _, ok := c.Get("lorne", "r1", now.Add(30*time.Second)); !ok {
		t.Error("Get within TTL ok = false")
	}
	if _, ok := c.Get("lorne", "r2", now); ok {
		t.Error("Get for new report ok = true")
	}
	if _, ok := c.Get("lorne", "r1", now.Add(2*time.Minute)); ok {
		t.Error("Get after TTL ok = true")
	}
}
