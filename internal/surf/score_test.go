package surf

import (
	"errors"
	"testing"
)

func TestCalculateScore_OffshoreGroundswell(t *testing.T) {
	swell := 2.0
	b, err := ConvertWaveHeight(swell)
	if err != nil {
		t.Fatal(err)
	}
	class, err := ClassifySwell(14)
	if err != nil {
		t.Fatal(err)
	}
	if class.Quality != QualityExcellent && class.Quality != QualityGood {
		t.Errorf("ClassifySwell(14).Quality = %v, want excellent or good", class.Quality)
	}

	score, err := CalculateScore(ScoreInput{
		BreakingHeight: b.Height,
		Period:         14,
		WindSpeed:      8,
		WindDirection:  SW.Opposite(),
		SwellDirection: SW,
	})
	if err != nil {
		t.Fatal(err)
	}
	if score.Overall < 7 {
		t.Errorf("Overall = %v, want >= 7", score.Overall)
	}
	if score.Rating() != RatingExcellent {
		t.Errorf("Rating() = %v, want excellent", score.Rating())
	}
}

func TestCalculateScore_WinkipopFixture(t *testing.T) {
	score, err := CalculateScore(ScoreInput{
		BreakingHeight: 1.5,
		Period:         14,
		WindSpeed:      8,
		WindDirection:  NE,
		SwellDirection: SW,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := Score{Overall: 9.5, WaveQuality: 10, WindQuality: 10, TideOptimal: 5.5, Consistency: 9.9}
	if score != want {
		t.Errorf("CalculateScore() = %+v, want %+v", score, want)
	}
	if score.Rating() != RatingExcellent {
		t.Errorf("Rating() = %v, want excellent", score.Rating())
	}
}

func TestCalculateScore_Deterministic(t *testing.T) {
	in := ScoreInput{
		BreakingHeight: 1.2,
		Period:         9,
		WindSpeed:      18,
		WindDirection:  S,
		SwellDirection: SW,
		Tide:           &TideContext{State: 0.3, Preferred: TideMid},
	}
	first, err := CalculateScore(in)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _ := CalculateScore(in)
		if again != first {
			t.Fatalf("call %d = %+v, want %+v", i, again, first)
		}
	}
}

func TestCalculateScore_Clamped(t *testing.T) {
	heights := []float64{0, 0.1, 0.3, 0.8, 1.5, 2.5, 3.5, 5, 8, 15}
	periods := []float64{1, 4, 6, 8, 11, 14, 20, 30}
	winds := []float64{0, 5, 12, 25, 40, 90}
	prefs := []*TideContext{nil, {State: 0, Preferred: TideHigh}, {State: 1, Preferred: TideLow}, {State: 0.5, Preferred: TideAny}}

	for _, h := range heights {
		for _, p := range periods {
			for _, w := range winds {
				for _, dir := range compassPoints {
					for _, tide := range prefs {
						s, err := CalculateScore(ScoreInput{
							BreakingHeight: h,
							Period:         p,
							WindSpeed:      w,
							WindDirection:  dir,
							SwellDirection: SW,
							Tide:           tide,
						})
						if err != nil {
							t.Fatal(err)
						}
						for name, v := range map[string]float64{
							"overall":     s.Overall,
							"wave":        s.WaveQuality,
							"wind":        s.WindQuality,
							"tide":        s.TideOptimal,
							"consistency": s.Consistency,
						} {
							if v < 1 || v > 10 {
								t.Fatalf("%s = %v out of range for h=%v T=%v w=%v dir=%v", name, v, h, p, w, dir)
							}
						}
					}
				}
			}
		}
	}
}

func TestCalculateScore_Wind(t *testing.T) {
	base := ScoreInput{BreakingHeight: 1.5, Period: 12, SwellDirection: SW}

	tests := []struct {
		name  string
		speed float64
		dir   Compass
		min   float64
		max   float64
	}{
		{"glassy onshore", 3, SW, 10, 10},
		{"light offshore", 10, NE, 10, 10},
		{"moderate onshore", 20, SW, 1, 4.5},
		{"cross shore", 15, SE, 7, 9},
		{"strong offshore", 35, NE, 1, 5},
		{"strong onshore", 30, SW, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.WindSpeed = tt.speed
			in.WindDirection = tt.dir
			s, err := CalculateScore(in)
			if err != nil {
				t.Fatal(err)
			}
			if s.WindQuality < tt.min || s.WindQuality > tt.max {
				t.Errorf("WindQuality = %v, want %v-%v", s.WindQuality, tt.min, tt.max)
			}
		})
	}
}

func TestCalculateScore_Tide(t *testing.T) {
	base := ScoreInput{BreakingHeight: 1.5, Period: 12, WindSpeed: 5, WindDirection: N}

	s, err := CalculateScore(base)
	if err != nil {
		t.Fatal(err)
	}
	if s.TideOptimal != 5.5 {
		t.Errorf("TideOptimal without context = %v, want 5.5", s.TideOptimal)
	}

	tests := []struct {
		ctx  TideContext
		want float64
	}{
		{TideContext{State: 0, Preferred: TideLow}, 10},
		{TideContext{State: 1, Preferred: TideLow}, 1},
		{TideContext{State: 0.5, Preferred: TideMid}, 10},
		{TideContext{State: 1, Preferred: TideMid}, 5.5},
		{TideContext{State: 0.2, Preferred: TideAny}, 5.5},
	}
	for _, tt := range tests {
		in := base
		ctx := tt.ctx
		in.Tide = &ctx
		s, err := CalculateScore(in)
		if err != nil {
			t.Fatal(err)
		}
		if s.TideOptimal != tt.want {
			t.Errorf("TideOptimal(%+v) = %v, want %v", tt.ctx, s.TideOptimal, tt.want)
		}
	}
}

func TestCalculateScore_Invalid(t *testing.T) {
	valid := ScoreInput{BreakingHeight: 1, Period: 10, WindSpeed: 5, WindDirection: N}
	tests := []struct {
		name   string
		mutate func(*ScoreInput)
	}{
		{"negative height", func(in *ScoreInput) { in.BreakingHeight = -0.5 }},
		{"zero period", func(in *ScoreInput) { in.Period = 0 }},
		{"negative wind", func(in *ScoreInput) { in.WindSpeed = -1 }},
		{"unknown wind direction", func(in *ScoreInput) { in.WindDirection = "X" }},
		{"unknown swell direction", func(in *ScoreInput) { in.SwellDirection = "SSSW" }},
		{"tide out of range", func(in *ScoreInput) { in.Tide = &TideContext{State: 1.5} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if _, err := CalculateScore(in); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("CalculateScore() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNewTideContext(t *testing.T) {
	tests := []struct {
		height, low, high float64
		want              float64
	}{
		{0.4, 0.4, 1.6, 0},
		{1.6, 0.4, 1.6, 1},
		{1.0, 0.4, 1.6, 0.5},
		{2.0, 0.4, 1.6, 1},
		{1.0, 1.0, 1.0, 0.5},
	}
	for _, tt := range tests {
		got := NewTideContext(tt.height, tt.low, tt.high, TideMid)
		if diff := got.State - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("NewTideContext(%v, %v, %v).State = %v, want %v", tt.height, tt.low, tt.high, got.State, tt.want)
		}
	}
}

func TestAssess(t *testing.T) {
	obs := Observation{
		WaveHeight:    2.0,
		WaveDirection: 225,
		WavePeriod:    14,
		WindSpeed:     8,
		WindDirection: 45,
		AirTemp:       17,
	}

	a, err := DefaultConfig().Assess(obs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Breaking.Height != 2.0*0.85 {
		t.Errorf("Breaking.Height = %v, want 1.7", a.Breaking.Height)
	}
	if a.Classification != (SwellClassification{GroundSwell, QualityExcellent}) {
		t.Errorf("Classification = %+v", a.Classification)
	}
	if a.Energy != 40.5 {
		t.Errorf("Energy = %v, want 40.5", a.Energy)
	}
	if a.EnergyLevel != EnergySolid {
		t.Errorf("EnergyLevel = %v, want Solid", a.EnergyLevel)
	}
	if a.Swells.Primary.Dominance != 100 || a.Swells.Secondary != nil {
		t.Errorf("Swells = %+v, want single train", a.Swells)
	}
	if a.Swells.Interaction != Neutral {
		t.Errorf("Interaction = %v, want neutral", a.Swells.Interaction)
	}
	if a.Rating != RatingExcellent {
		t.Errorf("Rating = %v, want excellent", a.Rating)
	}

	obs.WavePeriod = -1
	if _, err := DefaultConfig().Assess(obs, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Assess(bad period) error = %v, want ErrInvalidInput", err)
	}
}

func TestCalculateScore_ShoreFacing(t *testing.T) {
	tests := []struct {
		name   string
		swell  Compass
		facing Compass
		wind   Compass
		want   float64
	}{
		{"offshore against facing", "", S, N, 10},
		{"onshore against facing", "", S, S, 4},
		{"no reference", "", "", N, 7},
		{"swell direction wins", SW, S, N, 8.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := CalculateScore(ScoreInput{
				BreakingHeight: 1.5,
				Period:         12,
				WindSpeed:      20,
				WindDirection:  tt.wind,
				SwellDirection: tt.swell,
				ShoreFacing:    tt.facing,
			})
			if err != nil {
				t.Fatal(err)
			}
			if s.WindQuality != tt.want {
				t.Errorf("WindQuality = %v, want %v", s.WindQuality, tt.want)
			}
		})
	}

	_, err := CalculateScore(ScoreInput{BreakingHeight: 1.5, Period: 12, WindSpeed: 20, WindDirection: N, ShoreFacing: "SOUTH"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad facing error = %v, want ErrInvalidInput", err)
	}
}
