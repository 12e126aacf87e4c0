package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/imagegen"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/store"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

// staleAfter is how old the latest report may be before a spot counts as
// stale in /health and conditions responses.
const staleAfter = 3 * time.Hour

type Server struct {
	store *store.Store
	synth *tide.Synthesizer
	addr  string
	loc   *time.Location
	clock clockwork.Clock
	log   *zap.SugaredLogger

	imageCache *imagegen.Cache
	imageGen   *imagegen.Generator
	cards      *imagegen.CardCache
	genMu      sync.Mutex // one banner generation at a time
}

func NewServer(st *store.Store, synth *tide.Synthesizer, addr string, loc *time.Location, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		store: st,
		synth: synth,
		addr:  addr,
		loc:   loc,
		clock: clockwork.NewRealClock(),
		log:   log,
		cards: imagegen.NewCardCache(time.Hour),
	}
}

func (s *Server) SetClock(c clockwork.Clock) { s.clock = c }

// SetImages enables banners. gen may be nil to serve cached banners only.
func (s *Server) SetImages(gen *imagegen.Generator, cache *imagegen.Cache) {
	s.imageGen = gen
	s.imageCache = cache
}

// ImageGenMutex is shared with the scheduler so the same banner is not
// generated twice.
func (s *Server) ImageGenMutex() *sync.Mutex {
	return &s.genMu
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/spots", s.handleSpots)
	mux.HandleFunc("GET /api/spots/{id}/conditions", s.handleConditions)
	mux.HandleFunc("GET /api/spots/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /api/spots/{id}/tides", s.handleTides)
	mux.HandleFunc("GET /api/spots/{id}/amenities", s.handleAmenities)
	mux.HandleFunc("GET /api/spots/{id}/card.png", s.handleCard)
	mux.HandleFunc("GET /api/warnings", s.handleWarnings)
	mux.HandleFunc("GET /api/banner/{condition}", s.handleBanner)
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.log.Infof("api: listening on %s", s.addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type HealthStatus struct {
	Status string       `json:"status"`
	Spots  []SpotHealth `json:"spots"`
	Errors []string     `json:"errors,omitempty"`
}

type SpotHealth struct {
	SpotID     string    `json:"spotId"`
	LastReport time.Time `json:"lastReport,omitzero"`
	AgeMinutes int       `json:"ageMinutes"`
	Stale      bool      `json:"stale"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
		return
	}
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
		return
	}

	now := s.clock.Now()
	latest, err := s.store.GetLatestReports(now)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
		return
	}

	health := HealthStatus{Status: "ok", Spots: make([]SpotHealth, 0, len(spots))}
	for _, sp := range spots {
		sh := SpotHealth{SpotID: sp.SpotID}
		if rep, ok := latest[sp.SpotID]; ok {
			age := now.Sub(rep.ComputedAt)
			sh.LastReport = rep.ComputedAt
			sh.AgeMinutes = int(age.Minutes())
			sh.Stale = age > staleAfter
		} else {
			sh.Stale = true
			sh.AgeMinutes = -1
		}
		if sh.Stale {
			health.Status = "degraded"
		}
		health.Spots = append(health.Spots, sh)
	}

	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
