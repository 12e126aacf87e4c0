package surf

// SwellInput describes one swell train.
type SwellInput struct {
	Height    float64 // metres
	Period    float64 // seconds
	Direction Compass // direction the swell arrives from
}

func (s SwellInput) validate(name string) error {
	if bad(s.Height) || s.Height < 0 {
		return invalid("%s height %v", name, s.Height)
	}
	if bad(s.Period) || s.Period <= 0 {
		return invalid("%s period %v", name, s.Period)
	}
	if s.Direction != "" && !s.Direction.Valid() {
		return invalid("%s direction %q", name, s.Direction)
	}
	return nil
}

// SwellComponent is a swell train with its share of total energy.
type SwellComponent struct {
	Height    float64 `json:"height"`
	Period    float64 `json:"period"`
	Direction Compass `json:"direction"`
	Dominance float64 `json:"dominance"`
}

// Dominance is the energy split between primary and secondary swell, in
// percent. Primary + Secondary is always 100.
type Dominance struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
}

// Interaction describes how two swell trains combine at the break.
type Interaction string

const (
	Constructive Interaction = "constructive"
	Destructive  Interaction = "destructive"
	Neutral      Interaction = "neutral"
)

// SwellDominance uses the default config.
func SwellDominance(primary SwellInput, secondary *SwellInput) (Dominance, error) {
	return DefaultConfig().SwellDominance(primary, secondary)
}

// SwellDominance weights each train by h²·T. A nil or zero-height secondary
// yields {100, 0}.
func (c Config) SwellDominance(primary SwellInput, secondary *SwellInput) (Dominance, error) {
	if err := primary.validate("primary"); err != nil {
		return Dominance{}, err
	}
	if secondary == nil {
		return Dominance{Primary: 100}, nil
	}
	if err := secondary.validate("secondary"); err != nil {
		return Dominance{}, err
	}

	ep := c.energy(primary.Height, primary.Period)
	es := c.energy(secondary.Height, secondary.Period)
	if es == 0 || ep+es == 0 {
		return Dominance{Primary: 100}, nil
	}

	p := round1(100 * ep / (ep + es))
	return Dominance{Primary: p, Secondary: round1(100 - p)}, nil
}

// AnalyzeInteraction uses the default config.
func AnalyzeInteraction(primary SwellInput, secondary *SwellInput) (Interaction, error) {
	return DefaultConfig().AnalyzeInteraction(primary, secondary)
}

// AnalyzeInteraction classifies two swell trains as constructive when they
// arrive from a similar direction with a comparable period, destructive when
// their directions diverge widely, and neutral otherwise. A missing or
// negligible secondary is always neutral.
func (c Config) AnalyzeInteraction(primary SwellInput, secondary *SwellInput) (Interaction, error) {
	if err := primary.validate("primary"); err != nil {
		return "", err
	}
	if secondary == nil {
		return Neutral, nil
	}
	if err := secondary.validate("secondary"); err != nil {
		return "", err
	}
	if secondary.Height < c.NegligibleHeight {
		return Neutral, nil
	}
	ep := c.energy(primary.Height, primary.Period)
	es := c.energy(secondary.Height, secondary.Period)
	if ep > 0 && es < ep*c.NegligibleEnergy {
		return Neutral, nil
	}
	if primary.Direction == "" || secondary.Direction == "" {
		return Neutral, nil
	}

	diff := AngularDifference(primary.Direction.Degrees(), secondary.Direction.Degrees())
	ratio := secondary.Period / primary.Period

	switch {
	case diff >= c.DestructiveMinAngle:
		return Destructive, nil
	case diff <= c.ConstructiveMaxAngle && ratio >= c.PeriodRatioMin && ratio <= c.PeriodRatioMax:
		return Constructive, nil
	default:
		return Neutral, nil
	}
}

// SwellAnalysis is the full multi-swell breakdown for one observation.
type SwellAnalysis struct {
	Primary     SwellComponent  `json:"primary"`
	Secondary   *SwellComponent `json:"secondary,omitempty"`
	Interaction Interaction     `json:"interaction"`
}

// AnalyzeSwells splits an observation into primary and secondary trains and
// classifies their interaction.
func (c Config) AnalyzeSwells(obs Observation) (SwellAnalysis, error) {
	if err := obs.Validate(); err != nil {
		return SwellAnalysis{}, err
	}
	primary, secondary, err := obs.SplitSwells()
	if err != nil {
		return SwellAnalysis{}, err
	}

	dom, err := c.SwellDominance(primary, secondary)
	if err != nil {
		return SwellAnalysis{}, err
	}
	inter, err := c.AnalyzeInteraction(primary, secondary)
	if err != nil {
		return SwellAnalysis{}, err
	}

	out := SwellAnalysis{
		Primary: SwellComponent{
			Height:    primary.Height,
			Period:    primary.Period,
			Direction: primary.Direction,
			Dominance: dom.Primary,
		},
		Interaction: inter,
	}
	if secondary != nil {
		out.Secondary = &SwellComponent{
			Height:    secondary.Height,
			Period:    secondary.Period,
			Direction: secondary.Direction,
			Dominance: dom.Secondary,
		}
	}
	return out, nil
}
