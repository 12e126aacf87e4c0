package tide

// Location adjusts the harmonic model for local bathymetry and exposure.
type Location struct {
	Offset     float64 // metres added to every height
	LagMinutes float64 // delay of the tidal wave relative to the open coast
}

// DefaultLocations covers the surf spots the service tracks.
func DefaultLocations() map[string]Location {
	return map[string]Location{
		"bells-beach":  {Offset: 0.10},
		"winkipop":     {Offset: 0.10},
		"torquay":      {Offset: 0.05, LagMinutes: 5},
		"jan-juc":      {Offset: 0.08},
		"13th-beach":   {Offset: 0.07, LagMinutes: 10},
		"lorne":        {Offset: 0.04, LagMinutes: -10},
		"apollo-bay":   {Offset: 0.02, LagMinutes: -20},
		"portsea":      {Offset: 0.00, LagMinutes: 15},
		"gunnamatta":   {Offset: 0.12},
		"point-leo":    {Offset: -0.05, LagMinutes: 30},
		"woolamai":     {Offset: 0.15, LagMinutes: 5},
		"smiths-beach": {Offset: 0.12, LagMinutes: 5},
	}
}
