package surf

// EnergyLevel is the qualitative band for a wave energy value.
type EnergyLevel string

const (
	EnergySmall    EnergyLevel = "Small"
	EnergyModerate EnergyLevel = "Moderate"
	EnergySolid    EnergyLevel = "Solid"
	EnergyPowerful EnergyLevel = "Powerful"
	EnergyMassive  EnergyLevel = "Massive"
)

var energyLevels = [5]EnergyLevel{EnergySmall, EnergyModerate, EnergySolid, EnergyPowerful, EnergyMassive}

// WaveEnergy uses the default scale.
func WaveEnergy(height, period float64) (float64, error) {
	return DefaultConfig().WaveEnergy(height, period)
}

// WaveEnergy returns EnergyScale·h²·T.
func (c Config) WaveEnergy(height, period float64) (float64, error) {
	if bad(height) || height < 0 {
		return 0, invalid("height %v", height)
	}
	if bad(period) || period <= 0 {
		return 0, invalid("period %v", period)
	}
	return c.EnergyScale * height * height * period, nil
}

// EnergyBand buckets an energy value using the default bands.
func EnergyBand(energy float64) EnergyLevel {
	return DefaultConfig().EnergyBand(energy)
}

func (c Config) EnergyBand(energy float64) EnergyLevel {
	for i, upper := range c.EnergyBands {
		if energy < upper {
			return energyLevels[i]
		}
	}
	return EnergyMassive
}

// energy ignores validation; callers have already checked their inputs.
func (c Config) energy(h, t float64) float64 {
	return c.EnergyScale * h * h * t
}
