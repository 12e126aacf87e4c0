package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/api"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/ingest"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/surf"
)

type ServeCmd struct {
	Addr   string `help:"HTTP listen address." default:":8080" env:"VICSURF_ADDR"`
	NoPoll bool   `help:"Serve stored data only, without polling upstream feeds."`

	Sources `embed:""`
}

func (c *ServeCmd) Run(g *Globals) error {
	st, db, err := g.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := c.Sources.build(g, st)
	if err != nil {
		return err
	}
	defer w.close()

	server := api.NewServer(st, w.synth, c.Addr, g.loc, g.log)
	server.SetImages(w.imageGen, w.imageCache)
	if w.imageGen != nil {
		w.scheduler.SetImageGenerator(w.imageGen, w.imageCache, server.ImageGenMutex())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !c.NoPoll {
		go w.scheduler.Run(ctx)
	} else {
		g.log.Info("polling disabled (--no-poll)")
	}

	return server.Run(ctx)
}

type IngestCmd struct {
	Amenities bool `help:"Also refresh OpenStreetMap amenities."`

	Sources `embed:""`
}

func (c *IngestCmd) Run(g *Globals) error {
	st, db, err := g.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := c.Sources.build(g, st)
	if err != nil {
		return err
	}
	defer w.close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g.log.Info("running single ingestion")
	if err := w.scheduler.IngestOnce(ctx); err != nil {
		return err
	}
	if c.Amenities {
		if err := w.scheduler.RefreshAmenities(ctx); err != nil {
			return err
		}
	}

	latest, err := st.GetLatestReports(time.Now())
	if err != nil {
		return err
	}
	for _, sp := range defaultSpots {
		if r, ok := latest[sp.SpotID]; ok {
			fmt.Println(scoreLine(sp.Name, r.SurfScore, r.Rating, r.BreakingHeight, r.WindSpeed, r.WindDirection))
		}
	}
	return nil
}

type TidesCmd struct {
	Spot string `help:"Spot ID." default:"bells-beach"`
	Date string `help:"Local date (YYYY-MM-DD), default today."`
	Seed uint64 `help:"Seed for reproducible jitter."`
}

func (c *TidesCmd) Run(g *Globals) error {
	now := time.Now().In(g.loc)
	date := now
	if c.Date != "" {
		d, err := time.ParseInLocation(time.DateOnly, c.Date, g.loc)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		date = d
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, g.loc)

	src := Sources{TideSeed: c.Seed}
	synth := src.synthesizer()
	day, err := synth.Day(date, c.Spot)
	if err != nil {
		return err
	}

	var current string
	if day.Date == now.Format(time.DateOnly) {
		h, err := synth.HeightAt(now, c.Spot)
		if err != nil {
			return err
		}
		current = fmt.Sprintf("%s  %.2f m", now.Format("15:04"), h)
	}
	fmt.Println(renderTideDay(day, current))
	return nil
}

type ScoreCmd struct {
	Height   float64 `help:"Offshore significant wave height in metres." required:""`
	Period   float64 `help:"Wave period in seconds." required:""`
	Wind     float64 `help:"Wind speed in km/h." default:"0"`
	WindDir  string  `help:"Wind direction (compass point)." default:"N"`
	SwellDir string  `help:"Swell direction (compass point)." default:"SW"`
	Tide     float64 `help:"Tide state from 0 (low) to 1 (high); negative to ignore." default:"-1"`
	Prefer   string  `help:"Preferred tide." default:"mid" enum:"low,mid,high,any"`
	Facing   string  `help:"Direction the beach faces (compass point), optional."`
}

func (c *ScoreCmd) Run(g *Globals) error {
	windDir, err := surf.ParseCompass(c.WindDir)
	if err != nil {
		return fmt.Errorf("wind direction: %w", err)
	}
	swellDir, err := surf.ParseCompass(c.SwellDir)
	if err != nil {
		return fmt.Errorf("swell direction: %w", err)
	}

	var facing surf.Compass
	if c.Facing != "" {
		if facing, err = surf.ParseCompass(c.Facing); err != nil {
			return fmt.Errorf("facing: %w", err)
		}
	}

	obs := surf.Observation{
		WaveHeight:    c.Height,
		WavePeriod:    c.Period,
		WaveDirection: swellDir.Degrees(),
		WindSpeed:     c.Wind,
		WindDirection: windDir.Degrees(),
	}
	var tc *surf.TideContext
	if c.Tide >= 0 {
		t := surf.NewTideContext(c.Tide, 0, 1, surf.TidePreference(c.Prefer))
		tc = &t
	}

	a, err := surf.DefaultConfig().AssessSpot(obs, tc, facing)
	if err != nil {
		return err
	}
	fmt.Println(renderAssessment(a))
	return nil
}

type AmenitiesCmd struct {
	Spot        string `help:"Spot ID." default:"bells-beach"`
	OverpassURL string `help:"Overpass API URL." env:"OVERPASS_URL"`
}

func (c *AmenitiesCmd) Run(g *Globals) error {
	sp, ok := findSpot(c.Spot)
	if !ok {
		return fmt.Errorf("unknown spot %q", c.Spot)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	amenities, err := ingest.NewAmenitiesClient(c.OverpassURL, nil).Fetch(ctx, sp)
	if err != nil {
		return err
	}
	if len(amenities) == 0 {
		fmt.Fprintf(os.Stderr, "no amenities within 1.5 km of %s\n", sp.Name)
		return nil
	}
	fmt.Println(renderAmenities(sp.Name, amenities))
	return nil
}
