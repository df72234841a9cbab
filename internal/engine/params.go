package engine

// Params holds the tunable constants of the price process. Zero value is not
// usable; start from DefaultParams and override from config.
type Params struct {
	Mu              float64 // Base drift per tick
	Sigma           float64 // Base volatility per tick
	NoiseSigma      float64 // Idiosyncratic noise volatility
	DecayLambda     float64 // Exponential decay rate of news impact
	LossAversion    float64 // Multiplier for negative aggregate news (> 1)
	GainDampener    float64 // Multiplier for positive aggregate news (< 1)
	MaxChange       float64 // Per-tick return clamp bound
	ReversionFactor float64 // Share of impact clawed back in the reversion window
	ReversionStart  int64   // Reversion window lower bound (exclusive)
	ReversionEnd    int64   // Reversion window upper bound (exclusive)
}

// DefaultParams returns the lab defaults.
func DefaultParams() Params {
	return Params{
		Mu:              0.0002,
		Sigma:           0.004,
		NoiseSigma:      0.002,
		DecayLambda:     0.08,
		LossAversion:    1.5,
		GainDampener:    0.75,
		MaxChange:       0.05,
		ReversionFactor: 0.25,
		ReversionStart:  30,
		ReversionEnd:    90,
	}
}
