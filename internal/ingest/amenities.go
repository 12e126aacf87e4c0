package ingest

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"

	"github.com/serjvanilla/go-overpass"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/httputil"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

const (
	DefaultOverpassURL = "https://overpass-api.de/api/interpreter"
	amenityRadiusM     = 1500
)

// AmenitiesClient looks up beach facilities near a spot in OpenStreetMap.
type AmenitiesClient struct {
	client *overpass.Client
}

func NewAmenitiesClient(endpoint string, httpClient *http.Client) *AmenitiesClient {
	if endpoint == "" {
		endpoint = DefaultOverpassURL
	}
	if httpClient == nil {
		httpClient = httputil.NewClient()
	}
	client := overpass.NewWithSettings(endpoint, 2, httpClient)
	return &AmenitiesClient{client: &client}
}

// OSMNode is the subset of an OpenStreetMap node used for amenities.
type OSMNode struct {
	ID   int64
	Lat  float64
	Lon  float64
	Tags map[string]string
}

func amenityQuery(lat, lon float64) string {
	return fmt.Sprintf(`
		[out:json][timeout:25];
		(
			node["amenity"~"^(toilets|parking|shower|drinking_water)$"](around:%d,%.5f,%.5f);
			node["emergency"~"^(lifeguard|lifeguard_base|lifeguard_tower)$"](around:%d,%.5f,%.5f);
		);
		out body;
	`, amenityRadiusM, lat, lon, amenityRadiusM, lat, lon)
}

// Fetch returns amenities within 1.5 km of the spot, nearest first.
func (c *AmenitiesClient) Fetch(ctx context.Context, spot models.Spot) ([]models.Amenity, error) {
	type queryResult struct {
		res overpass.Result
		err error
	}
	done := make(chan queryResult, 1)
	go func() {
		res, err := c.client.Query(amenityQuery(spot.Latitude, spot.Longitude))
		done <- queryResult{res, err}
	}()

	var res overpass.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("overpass query: %w", r.err)
		}
		res = r.res
	}

	nodes := make([]OSMNode, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		nodes = append(nodes, OSMNode{ID: n.ID, Lat: n.Lat, Lon: n.Lon, Tags: n.Tags})
	}
	return ToAmenities(spot, nodes), nil
}

// ToAmenities classifies nodes and sorts them by distance from the spot.
// Nodes with no recognised tag are dropped.
func ToAmenities(spot models.Spot, nodes []OSMNode) []models.Amenity {
	out := make([]models.Amenity, 0, len(nodes))
	for _, n := range nodes {
		kind := amenityKind(n.Tags)
		if kind == "" {
			continue
		}
		out = append(out, models.Amenity{
			SpotID:    spot.SpotID,
			OSMID:     n.ID,
			Kind:      kind,
			Name:      n.Tags["name"],
			Latitude:  n.Lat,
			Longitude: n.Lon,
			DistanceM: math.Round(haversine(spot.Latitude, spot.Longitude, n.Lat, n.Lon)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceM != out[j].DistanceM {
			return out[i].DistanceM < out[j].DistanceM
		}
		return out[i].OSMID < out[j].OSMID
	})
	return out
}

func amenityKind(tags map[string]string) string {
	switch tags["emergency"] {
	case "lifeguard", "lifeguard_base", "lifeguard_tower":
		return "lifeguard"
	}
	switch a := tags["amenity"]; a {
	case "toilets", "parking", "shower", "drinking_water":
		return a
	}
	return ""
}

// haversine returns the great-circle distance in metres.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusM = 6371000
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}
