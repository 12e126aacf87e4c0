package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/httputil"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

const DefaultWorldTidesURL = "https://www.worldtides.info/api/v3"

// TideClient fetches measured high and low water for a point and local date.
type TideClient interface {
	FetchExtremes(ctx context.Context, lat, lon float64, date time.Time) ([]tide.Event, []byte, *FetchResult, error)
}

// WorldTidesClient reads predicted extremes from WorldTides.
type WorldTidesClient struct {
	baseURL string
	apiKey  string
	fetch   fetcher
}

func NewWorldTidesClient(baseURL, apiKey string, rps float64) *WorldTidesClient {
	if baseURL == "" {
		baseURL = DefaultWorldTidesURL
	}
	return &WorldTidesClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		fetch:   newFetcher("worldtides", httputil.NewClient(), rps),
	}
}

type worldTidesResponse struct {
	Status   int    `json:"status"`
	Error    string `json:"error"`
	Extremes []struct {
		Dt     int64   `json:"dt"`
		Height float64 `json:"height"`
		Type   string  `json:"type"`
	} `json:"extremes"`
}

// FetchExtremes returns the extremes falling on date's local calendar day.
func (c *WorldTidesClient) FetchExtremes(ctx context.Context, lat, lon float64, date time.Time) ([]tide.Event, []byte, *FetchResult, error) {
	result := &FetchResult{}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("date", date.Format(time.DateOnly))
	q.Set("days", "1")
	q.Set("key", c.apiKey)
	u := c.baseURL + "?extremes&" + q.Encode()

	body, err := c.fetch.get(ctx, "extremes", u, result)
	if err != nil {
		return nil, nil, result, err
	}

	events, err := ParseWorldTides(body, date.Location(), date.Format(time.DateOnly))
	if err != nil {
		result.ParseErrors++
		result.ParseError = err.Error()
		result.Error = err
		return nil, body, result, err
	}
	result.RecordCount = len(events)
	return events, body, result, nil
}

// ParseWorldTides decodes an extremes response, keeping events whose local
// date in loc equals day.
func ParseWorldTides(body []byte, loc *time.Location, day string) ([]tide.Event, error) {
	var resp worldTidesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if resp.Status != 0 && resp.Status != 200 {
		return nil, fmt.Errorf("worldtides status %d: %s", resp.Status, resp.Error)
	}

	var events []tide.Event
	for _, e := range resp.Extremes {
		t := time.Unix(e.Dt, 0).In(loc)
		if t.Format(time.DateOnly) != day {
			continue
		}
		typ := tide.Low
		if strings.EqualFold(e.Type, "high") {
			typ = tide.High
		}
		events = append(events, tide.Event{
			Time:   t.Format("15:04"),
			Height: math.Round(e.Height*100) / 100,
			Type:   typ,
		})
	}
	return events, nil
}

// TideService resolves a spot's tide day, preferring measured extremes and
// falling back to the synthesizer.
type TideService struct {
	synth  *tide.Synthesizer
	client TideClient
}

func NewTideService(synth *tide.Synthesizer, client TideClient) *TideService {
	return &TideService{synth: synth, client: client}
}

// errNoClient marks a synthesized day produced because no tide feed is set.
var errNoClient = errors.New("no tide client")

// TideFetch is the outcome of Day: the resolved day plus what the live feed
// returned, for the audit trail.
type TideFetch struct {
	Day     tide.Day
	Raw     []byte
	Result  *FetchResult
	LiveErr error
}

// Day never fails for a valid spot and date: a live error is reported in
// LiveErr and the synthesized day returned instead.
func (s *TideService) Day(ctx context.Context, spot models.Spot, date time.Time) (TideFetch, error) {
	var out TideFetch
	if s.client == nil {
		out.LiveErr = errNoClient
	} else {
		events, raw, result, err := s.client.FetchExtremes(ctx, spot.Latitude, spot.Longitude, date)
		out.Raw, out.Result = raw, result
		if err == nil {
			var day tide.Day
			if day, err = s.synth.Measured(date, spot.SpotID, events); err == nil {
				out.Day = day
				return out, nil
			}
		}
		out.LiveErr = err
	}

	day, err := s.synth.Day(date, spot.SpotID)
	if err != nil {
		return out, err
	}
	out.Day = day
	return out, nil
}

// HasLive reports whether a live tide feed is configured.
func (s *TideService) HasLive() bool {
	return s.client != nil
}
