package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/logging"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/store"
)

type Globals struct {
	DB        string `help:"Path to SQLite database." default:"data/vicsurf.db" env:"VICSURF_DB"`
	Timezone  string `help:"Local timezone for tide days and report dates." default:"Australia/Melbourne" env:"VICSURF_TZ"`
	LogLevel  string `help:"Log level." default:"info" enum:"debug,info,warn,error" env:"LOG_LEVEL"`
	LogFormat string `help:"Log format." default:"console" enum:"console,json" env:"LOG_FORMAT"`

	log *zap.SugaredLogger `kong:"-"`
	loc *time.Location     `kong:"-"`
}

type CLI struct {
	Globals `embed:""`

	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file'"`

	Serve     ServeCmd     `cmd:"" help:"Run the scheduler and HTTP API."`
	Ingest    IngestCmd    `cmd:"" help:"Run one ingestion pass and exit."`
	Tides     TidesCmd     `cmd:"" help:"Print synthesized tides for a spot."`
	Score     ScoreCmd     `cmd:"" help:"Score a single set of conditions."`
	Amenities AmenitiesCmd `cmd:"" help:"Look up facilities near a spot."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("vicsurf"),
		kong.Description("Surf conditions and tides for Victorian surf spots."),
		kong.UsageOnError(),
	)

	log, err := logging.New(cli.LogLevel, cli.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	cli.log = log

	cli.loc, err = time.LoadLocation(cli.Timezone)
	if err != nil {
		log.Warnf("could not load %s timezone, using UTC: %v", cli.Timezone, err)
		cli.loc = time.UTC
	}

	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

// openStore opens the database, migrates it and seeds the default spots.
func (g *Globals) openStore() (*store.Store, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(g.DB), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", g.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			g.log.Warnf("%s: %v", pragma, err)
		}
	}

	st := store.New(db, g.loc, g.log)
	if err := st.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	g.log.Debug("database migrated")

	for _, sp := range defaultSpots {
		if err := st.UpsertSpot(sp); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("upsert spot %s: %w", sp.SpotID, err)
		}
	}
	g.log.Debugf("seeded %d spots", len(defaultSpots))
	return st, db, nil
}
