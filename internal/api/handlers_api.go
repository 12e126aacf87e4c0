package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

const (
	defaultHistoryHours = 24
	maxHistoryHours     = 7 * 24
	warningMaxAge       = 2 * time.Hour
)

// SpotSummary is a spot with its current score, if any.
type SpotSummary struct {
	models.Spot
	SurfScore *float64   `json:"surfScore,omitempty"`
	Rating    string     `json:"rating,omitempty"`
	ValidAt   *time.Time `json:"validAt,omitempty"`
}

func (s *Server) handleSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	latest, err := s.store.GetLatestReports(s.clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]SpotSummary, 0, len(spots))
	for _, sp := range spots {
		sum := SpotSummary{Spot: sp}
		if rep, ok := latest[sp.SpotID]; ok {
			score, validAt := rep.SurfScore, rep.ValidAt
			sum.SurfScore = &score
			sum.Rating = rep.Rating
			sum.ValidAt = &validAt
		}
		out = append(out, sum)
	}
	writeJSON(w, http.StatusOK, out)
}

// spot resolves the {id} path value, writing a 404 when it is unknown.
func (s *Server) spot(w http.ResponseWriter, r *http.Request) (*models.Spot, bool) {
	sp, err := s.store.GetSpot(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if sp == nil {
		writeError(w, http.StatusNotFound, "unknown spot")
		return nil, false
	}
	return sp, true
}

// Conditions is the latest report for a spot with its regional context.
type Conditions struct {
	Spot     models.Spot             `json:"spot"`
	Report   models.SurfReport       `json:"report"`
	Stale    bool                    `json:"stale"`
	Coastal  *models.CoastalForecast `json:"coastal,omitempty"`
	Warnings []models.MarineWarning  `json:"warnings"`
}

func (s *Server) handleConditions(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.spot(w, r)
	if !ok {
		return
	}

	now := s.clock.Now()
	rep, err := s.store.GetLatestReport(sp.SpotID, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, "no report for spot")
		return
	}

	out := Conditions{
		Spot:   *sp,
		Report: *rep,
		Stale:  now.Sub(rep.ComputedAt) > staleAfter,
	}

	if sp.CoastalZone != "" {
		local := now.In(s.loc)
		today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
		forecasts, err := s.store.GetCoastalForecasts(sp.CoastalZone, today)
		if err != nil {
			s.log.Warnf("api: coastal forecast %s: %v", sp.CoastalZone, err)
		} else if len(forecasts) > 0 {
			out.Coastal = &forecasts[0]
		}
	}

	out.Warnings, err = s.store.GetActiveWarnings(now, warningMaxAge)
	if err != nil {
		s.log.Warnf("api: warnings: %v", err)
	}
	if out.Warnings == nil {
		out.Warnings = []models.MarineWarning{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.spot(w, r)
	if !ok {
		return
	}

	hours := defaultHistoryHours
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxHistoryHours {
			writeError(w, http.StatusBadRequest, "hours must be between 1 and 168")
			return
		}
		hours = n
	}

	end := s.clock.Now()
	reports, err := s.store.GetReports(sp.SpotID, end.Add(-time.Duration(hours)*time.Hour), end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reports == nil {
		reports = []models.SurfReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// handleTides serves the stored tide day. When nothing is stored for the
// date a synthesized day is stored first, so repeat requests see the same
// events.
func (s *Server) handleTides(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.spot(w, r)
	if !ok {
		return
	}

	local := s.clock.Now().In(s.loc)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.ParseInLocation(time.DateOnly, v, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	day, err := s.store.GetTideDay(sp.SpotID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if day != nil {
		writeJSON(w, http.StatusOK, day)
		return
	}

	synth, err := s.synth.Day(date, sp.SpotID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.UpsertTideDay(synth, s.clock.Now()); err != nil {
		s.log.Warnf("api: store synthesized tides %s %s: %v", sp.SpotID, synth.Date, err)
	}
	writeJSON(w, http.StatusOK, synth)
}

func (s *Server) handleAmenities(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.spot(w, r)
	if !ok {
		return
	}
	amenities, err := s.store.GetAmenities(sp.SpotID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if amenities == nil {
		amenities = []models.Amenity{}
	}
	writeJSON(w, http.StatusOK, amenities)
}

func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := s.store.GetActiveWarnings(s.clock.Now(), warningMaxAge)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if warnings == nil {
		warnings = []models.MarineWarning{}
	}
	writeJSON(w, http.StatusOK, warnings)
}
