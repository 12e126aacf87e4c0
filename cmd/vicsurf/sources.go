package main

import (
	"fmt"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/imagegen"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/ingest"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/publish"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/store"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/surf"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

// Sources configures the upstream feeds and outputs used by the scheduler.
type Sources struct {
	MarineURL     string  `help:"Open-Meteo marine API URL." env:"OPEN_METEO_MARINE_URL"`
	WeatherURL    string  `help:"Open-Meteo forecast API URL." env:"OPEN_METEO_WEATHER_URL"`
	OpenMeteoRPS  float64 `help:"Open-Meteo request rate limit per second (0 disables)." default:"2" env:"OPEN_METEO_RPS"`
	WorldTidesKey string  `help:"WorldTides API key; tides are synthesized without it." env:"WORLDTIDES_API_KEY"`
	WorldTidesURL string  `help:"WorldTides API URL." env:"WORLDTIDES_URL"`
	BOMHost       string  `help:"BOM anonymous FTP host." default:"ftp.bom.gov.au:21" env:"BOM_FTP_HOST"`
	NoBOM         bool    `help:"Skip the BOM coastal waters forecast." env:"NO_BOM"`
	WarningsURL   string  `help:"BOM marine warnings RSS feed." env:"BOM_WARNINGS_URL"`
	NoWarnings    bool    `help:"Skip marine warnings." env:"NO_WARNINGS"`
	OverpassURL   string  `help:"Overpass API URL for amenities." env:"OVERPASS_URL"`
	NoAmenities   bool    `help:"Skip the OpenStreetMap amenities refresh." env:"NO_AMENITIES"`

	KafkaBrokers []string `help:"Kafka brokers to publish scored reports to." env:"KAFKA_BROKERS"`
	KafkaTopic   string   `help:"Kafka topic for scored reports." default:"vicsurf.reports" env:"KAFKA_TOPIC"`

	OpenAIKey string `help:"OpenAI API key for banner images." env:"OPENAI_API_KEY"`
	ImageDir  string `help:"Directory for cached banner images." default:"data/images" env:"VICSURF_IMAGE_DIR"`

	TideSeed uint64 `help:"Seed for synthesized tide jitter (0 for random)." env:"VICSURF_TIDE_SEED"`
}

func (s *Sources) synthesizer() *tide.Synthesizer {
	if s.TideSeed != 0 {
		return tide.NewSynthesizer(tide.WithSeed(s.TideSeed))
	}
	return tide.NewSynthesizer()
}

// wiring is everything built from Sources. close releases the publisher.
// Banner generation is attached by the caller, which owns the mutex.
type wiring struct {
	scheduler  *ingest.Scheduler
	synth      *tide.Synthesizer
	imageGen   *imagegen.Generator
	imageCache *imagegen.Cache
	close      func()
}

func (s *Sources) build(g *Globals, st *store.Store) (*wiring, error) {
	synth := s.synthesizer()

	var tideClient ingest.TideClient
	if s.WorldTidesKey != "" {
		tideClient = ingest.NewWorldTidesClient(s.WorldTidesURL, s.WorldTidesKey, 1)
	} else {
		g.log.Info("no WorldTides key, tides will be synthesized")
	}

	sched := ingest.NewScheduler(
		st,
		ingest.NewMarineClient(s.MarineURL, s.WeatherURL, s.OpenMeteoRPS),
		ingest.NewTideService(synth, tideClient),
		ingest.NewReporter(surf.DefaultConfig(), g.loc),
		g.loc,
		g.log,
	)
	if !s.NoBOM {
		sched.SetBOMClient(ingest.NewBOMClient(s.BOMHost, g.loc))
	}
	if !s.NoWarnings {
		sched.SetWarningsClient(ingest.NewWarningsClient(s.WarningsURL))
	}
	if !s.NoAmenities {
		sched.SetAmenitiesClient(ingest.NewAmenitiesClient(s.OverpassURL, nil))
	}

	w := &wiring{scheduler: sched, synth: synth, close: func() {}}

	if len(s.KafkaBrokers) > 0 {
		kw := publish.NewKafkaWriter(s.KafkaBrokers, s.KafkaTopic)
		sched.SetPublisher(kw)
		w.close = func() {
			if err := kw.Close(); err != nil {
				g.log.Warnf("close kafka writer: %v", err)
			}
		}
		g.log.Infof("publishing reports to %s on %v", s.KafkaTopic, s.KafkaBrokers)
	}

	cache, err := imagegen.NewCache(s.ImageDir)
	if err != nil {
		return nil, fmt.Errorf("image cache: %w", err)
	}
	w.imageCache = cache

	gen, err := imagegen.NewGenerator(s.OpenAIKey, g.log)
	if err != nil {
		g.log.Infof("banner generation disabled: %v", err)
	} else {
		w.imageGen = gen
	}
	return w, nil
}
