package main

import "github.com/TheMainlander/MyVicSurf-sub000/internal/models"

// Coastal zones follow the BOM coastal waters areas in IDV10460.
const (
	zoneWestCoast    = "VIC_MW003" // SA border to Cape Otway
	zoneCentralCoast = "VIC_MW004" // Cape Otway to Wilsons Promontory
)

var defaultSpots = []models.Spot{
	{SpotID: "bells-beach", Name: "Bells Beach", Region: "surf_coast", Latitude: -38.3686, Longitude: 144.2811, FacingDeg: 150, PreferredTide: "mid", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "winkipop", Name: "Winkipop", Region: "surf_coast", Latitude: -38.3705, Longitude: 144.2836, FacingDeg: 150, PreferredTide: "mid", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "torquay", Name: "Torquay Point", Region: "surf_coast", Latitude: -38.3442, Longitude: 144.3207, FacingDeg: 150, PreferredTide: "low", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "jan-juc", Name: "Jan Juc", Region: "surf_coast", Latitude: -38.3522, Longitude: 144.2980, FacingDeg: 160, PreferredTide: "low", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "13th-beach", Name: "13th Beach", Region: "surf_coast", Latitude: -38.2886, Longitude: 144.4760, FacingDeg: 170, PreferredTide: "any", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "lorne", Name: "Lorne Point", Region: "otways", Latitude: -38.5420, Longitude: 143.9790, FacingDeg: 110, PreferredTide: "high", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "apollo-bay", Name: "Apollo Bay", Region: "otways", Latitude: -38.7570, Longitude: 143.6720, FacingDeg: 90, PreferredTide: "mid", CoastalZone: zoneWestCoast, Active: true},
	{SpotID: "portsea", Name: "Portsea Back Beach", Region: "mornington", Latitude: -38.3390, Longitude: 144.7040, FacingDeg: 210, PreferredTide: "low", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "gunnamatta", Name: "Gunnamatta", Region: "mornington", Latitude: -38.4570, Longitude: 144.8470, FacingDeg: 210, PreferredTide: "any", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "point-leo", Name: "Point Leo", Region: "mornington", Latitude: -38.4210, Longitude: 145.0710, FacingDeg: 160, PreferredTide: "mid", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "woolamai", Name: "Cape Woolamai", Region: "phillip_island", Latitude: -38.5470, Longitude: 145.3440, FacingDeg: 160, PreferredTide: "any", CoastalZone: zoneCentralCoast, Active: true},
	{SpotID: "smiths-beach", Name: "Smiths Beach", Region: "phillip_island", Latitude: -38.5100, Longitude: 145.2600, FacingDeg: 180, PreferredTide: "mid", CoastalZone: zoneCentralCoast, Active: true},
}

func findSpot(id string) (models.Spot, bool) {
	for _, sp := range defaultSpots {
		if sp.SpotID == id {
			return sp, true
		}
	}
	return models.Spot{}, false
}
