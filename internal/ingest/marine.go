package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/httputil"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/surf"
)

const (
	DefaultMarineURL  = "https://marine-api.open-meteo.com/v1/marine"
	DefaultWeatherURL = "https://api.open-meteo.com/v1/forecast"

	marineVariables  = "wave_height,wave_direction,wave_period,wind_wave_height,wind_wave_direction,wind_wave_period,swell_wave_height,swell_wave_direction,swell_wave_period"
	weatherVariables = "wind_speed_10m,wind_direction_10m,temperature_2m"
	openMeteoTime    = "2006-01-02T15:04"
)

// MarineClient reads hourly sea state and surface weather from Open-Meteo.
type MarineClient struct {
	marineURL  string
	weatherURL string
	days       int
	fetch      fetcher
}

func NewMarineClient(marineURL, weatherURL string, rps float64) *MarineClient {
	if marineURL == "" {
		marineURL = DefaultMarineURL
	}
	if weatherURL == "" {
		weatherURL = DefaultWeatherURL
	}
	return &MarineClient{
		marineURL:  marineURL,
		weatherURL: weatherURL,
		days:       3,
		fetch:      newFetcher("open-meteo", httputil.NewClient(), rps),
	}
}

// HourlySample is one forecast hour. Any field may be nil when the provider
// returned null.
type HourlySample struct {
	Time time.Time

	WaveHeight    *float64
	WaveDirection *float64
	WavePeriod    *float64

	WindWaveHeight    *float64
	WindWaveDirection *float64
	WindWavePeriod    *float64

	SwellHeight    *float64
	SwellDirection *float64
	SwellPeriod    *float64

	WindSpeed     *float64 // km/h
	WindDirection *float64
	AirTemp       *float64
}

// Observation converts the sample for scoring. ok is false when a required
// field is missing.
func (s HourlySample) Observation() (obs surf.Observation, ok bool) {
	for _, p := range []*float64{s.WaveHeight, s.WaveDirection, s.WavePeriod, s.WindSpeed, s.WindDirection} {
		if p == nil {
			return surf.Observation{}, false
		}
	}
	obs = surf.Observation{
		WaveHeight:        *s.WaveHeight,
		WaveDirection:     normaliseBearing(*s.WaveDirection),
		WavePeriod:        *s.WavePeriod,
		WindSpeed:         *s.WindSpeed,
		WindDirection:     normaliseBearing(*s.WindDirection),
		WindWaveHeight:    s.WindWaveHeight,
		WindWavePeriod:    s.WindWavePeriod,
		WindWaveDirection: normalisePtr(s.WindWaveDirection),
		SwellHeight:       s.SwellHeight,
		SwellPeriod:       s.SwellPeriod,
		SwellDirection:    normalisePtr(s.SwellDirection),
	}
	if s.AirTemp != nil {
		obs.AirTemp = *s.AirTemp
	}
	return obs, true
}

// Open-Meteo reports 360 for due north.
func normaliseBearing(v float64) float64 {
	if v == 360 {
		return 0
	}
	return v
}

func normalisePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := normaliseBearing(*v)
	return &n
}

// Payload is a raw upstream response kept for the audit archive.
type Payload struct {
	Endpoint string
	Body     []byte
}

type openMeteoResponse struct {
	Hourly map[string]json.RawMessage `json:"hourly"`
	Error  bool                       `json:"error"`
	Reason string                     `json:"reason"`
}

// FetchHourly merges the marine and weather forecasts for a point by hour.
// Hours missing from the weather response keep nil wind fields.
func (c *MarineClient) FetchHourly(ctx context.Context, lat, lon float64) ([]HourlySample, []Payload, *FetchResult, error) {
	result := &FetchResult{}

	marineBody, err := c.fetch.get(ctx, "marine", c.query(c.marineURL, lat, lon, marineVariables), result)
	if err != nil {
		return nil, nil, result, err
	}
	payloads := []Payload{{Endpoint: "marine", Body: marineBody}}

	weatherBody, err := c.fetch.get(ctx, "forecast", c.query(c.weatherURL, lat, lon, weatherVariables), result)
	if err != nil {
		return nil, payloads, result, err
	}
	payloads = append(payloads, Payload{Endpoint: "forecast", Body: weatherBody})

	samples, err := ParseHourly(marineBody, weatherBody)
	if err != nil {
		result.ParseErrors++
		result.ParseError = err.Error()
		result.Error = err
		return nil, payloads, result, err
	}
	result.RecordCount = len(samples)
	return samples, payloads, result, nil
}

func (c *MarineClient) query(base string, lat, lon float64, variables string) string {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("hourly", variables)
	q.Set("timezone", "GMT")
	q.Set("forecast_days", fmt.Sprint(c.days))
	return base + "?" + q.Encode()
}

// ParseHourly decodes Open-Meteo marine and weather bodies into samples
// ordered by the marine time axis.
func ParseHourly(marineBody, weatherBody []byte) ([]HourlySample, error) {
	marine, err := decodeHourly(marineBody)
	if err != nil {
		return nil, fmt.Errorf("marine: %w", err)
	}
	weather, err := decodeHourly(weatherBody)
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}

	weatherIndex := make(map[string]int, len(weather.times))
	for i, t := range weather.times {
		weatherIndex[t] = i
	}

	samples := make([]HourlySample, 0, len(marine.times))
	for i, ts := range marine.times {
		t, err := time.ParseInLocation(openMeteoTime, ts, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse time %q: %w", ts, err)
		}
		s := HourlySample{
			Time:              t,
			WaveHeight:        marine.at("wave_height", i),
			WaveDirection:     marine.at("wave_direction", i),
			WavePeriod:        marine.at("wave_period", i),
			WindWaveHeight:    marine.at("wind_wave_height", i),
			WindWaveDirection: marine.at("wind_wave_direction", i),
			WindWavePeriod:    marine.at("wind_wave_period", i),
			SwellHeight:       marine.at("swell_wave_height", i),
			SwellDirection:    marine.at("swell_wave_direction", i),
			SwellPeriod:       marine.at("swell_wave_period", i),
		}
		if j, ok := weatherIndex[ts]; ok {
			s.WindSpeed = weather.at("wind_speed_10m", j)
			s.WindDirection = weather.at("wind_direction_10m", j)
			s.AirTemp = weather.at("temperature_2m", j)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

type hourlySeries struct {
	times  []string
	values map[string][]*float64
}

func (h hourlySeries) at(name string, i int) *float64 {
	v := h.values[name]
	if i >= len(v) {
		return nil
	}
	return v[i]
}

func decodeHourly(body []byte) (hourlySeries, error) {
	var resp openMeteoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return hourlySeries{}, fmt.Errorf("unmarshal: %w", err)
	}
	if resp.Error {
		return hourlySeries{}, fmt.Errorf("api error: %s", resp.Reason)
	}

	out := hourlySeries{values: make(map[string][]*float64, len(resp.Hourly))}
	for name, raw := range resp.Hourly {
		if name == "time" {
			if err := json.Unmarshal(raw, &out.times); err != nil {
				return hourlySeries{}, fmt.Errorf("unmarshal time: %w", err)
			}
			continue
		}
		var vals []*float64
		if err := json.Unmarshal(raw, &vals); err != nil {
			return hourlySeries{}, fmt.Errorf("unmarshal %s: %w", name, err)
		}
		out.values[name] = vals
	}
	if len(out.times) == 0 {
		return hourlySeries{}, fmt.Errorf("no hourly times")
	}
	return out, nil
}
