package surf

// Assessment is every derived value for one observation.
type Assessment struct {
	Breaking       Breaking            `json:"breaking"`
	Classification SwellClassification `json:"classification"`
	Energy         float64             `json:"energy"`
	EnergyLevel    EnergyLevel         `json:"energyLevel"`
	Swells         SwellAnalysis       `json:"swells"`
	Score          Score               `json:"score"`
	Rating         Rating              `json:"rating"`
}

// Assess runs the full pipeline over a validated observation. tide may be nil.
func (c Config) Assess(obs Observation, tide *TideContext) (Assessment, error) {
	return c.AssessSpot(obs, tide, "")
}

// AssessSpot is Assess at a beach facing out to sea towards facing, which
// may be empty. See ScoreInput.ShoreFacing.
func (c Config) AssessSpot(obs Observation, tide *TideContext, facing Compass) (Assessment, error) {
	swells, err := c.AnalyzeSwells(obs)
	if err != nil {
		return Assessment{}, err
	}

	breaking, err := c.ConvertWaveHeightWithData(obs.WaveHeight, obs.Completeness())
	if err != nil {
		return Assessment{}, err
	}

	period := swells.Primary.Period
	class, err := c.ClassifySwell(period)
	if err != nil {
		return Assessment{}, err
	}

	energy, err := c.WaveEnergy(breaking.Height, period)
	if err != nil {
		return Assessment{}, err
	}

	windDir, err := DegreesToCompass(obs.WindDirection)
	if err != nil {
		return Assessment{}, err
	}

	score, err := c.CalculateScore(ScoreInput{
		BreakingHeight: breaking.Height,
		Period:         period,
		WindSpeed:      obs.WindSpeed,
		WindDirection:  windDir,
		SwellDirection: swells.Primary.Direction,
		ShoreFacing:    facing,
		Tide:           tide,
	})
	if err != nil {
		return Assessment{}, err
	}

	return Assessment{
		Breaking:       breaking,
		Classification: class,
		Energy:         round1(energy),
		EnergyLevel:    c.EnergyBand(energy),
		Swells:         swells,
		Score:          score,
		Rating:         score.Rating(),
	}, nil
}
