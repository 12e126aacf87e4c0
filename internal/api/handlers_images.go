package api

import (
	"context"
	"net/http"
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/imagegen"
)

// handleCard renders a share card for the spot's latest report. Cards are
// cached per report so a re-score produces a new image.
func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
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

	cacheID := rep.ReportID + "@" + rep.ComputedAt.UTC().Format(time.RFC3339)
	if data, ok := s.cards.Get(sp.SpotID, cacheID, now); ok {
		s.servePNG(w, data, "public, max-age=900")
		return
	}

	var background []byte
	if s.imageCache != nil {
		key := imagegen.Key(imagegen.ConditionFor(*rep), imagegen.GetTimeOfDay(rep.ValidAt.In(s.loc)))
		if data, ok := s.imageCache.Get(key); ok {
			background = data
		} else if data, ok := s.imageCache.GetAny(); ok {
			background = data
		}
	}

	data, err := imagegen.RenderCard(background, imagegen.CardFromReport(sp.Name, *rep, s.loc))
	if err != nil {
		s.log.Warnf("api: render card %s: %v", sp.SpotID, err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	s.cards.Set(sp.SpotID, cacheID, data, now)
	s.servePNG(w, data, "public, max-age=900")
}

// handleBanner serves a condition banner. {condition} is either a bare
// condition, resolved against the current time of day, or a full key such
// as "choppy_dusk".
func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	if s.imageCache == nil {
		writeError(w, http.StatusServiceUnavailable, "banner images unavailable")
		return
	}

	now := s.clock.Now().In(s.loc)
	raw := r.PathValue("condition")
	cond, tod, ok := imagegen.ParseKey(raw)
	if !ok {
		cond, tod, ok = imagegen.ParseKey(imagegen.Key(imagegen.Condition(raw), imagegen.GetTimeOfDay(now)))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown condition")
			return
		}
	}
	key := imagegen.Key(cond, tod)

	if data, ok := s.imageCache.Get(key); ok {
		s.servePNG(w, data, "public, max-age=3600")
		return
	}

	if s.imageGen == nil {
		s.log.Debugf("api: banner %s: no generator and not cached", key)
		writeError(w, http.StatusServiceUnavailable, "banner images unavailable")
		return
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()

	if data, ok := s.imageCache.Get(key); ok {
		s.servePNG(w, data, "public, max-age=3600")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	s.log.Infof("api: generating banner %s", key)
	data, err := s.imageGen.Generate(ctx, cond, tod, now)
	if err != nil {
		s.log.Warnf("api: banner %s: %v", key, err)
		writeError(w, http.StatusServiceUnavailable, "banner generation failed")
		return
	}
	if err := s.imageCache.Set(key, data); err != nil {
		s.log.Warnf("api: cache banner %s: %v", key, err)
	}
	s.servePNG(w, data, "public, max-age=3600")
}

func (s *Server) servePNG(w http.ResponseWriter, data []byte, cacheControl string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", cacheControl)
	w.Write(data)
}
