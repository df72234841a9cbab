package engine

import (
	"github.com/tradinglab/marketsim/internal/model"
)

// Return is the decomposed per-tick return for one instrument. Kept for
// logging and tests; only Total moves the price.
type Return struct {
	Base       float64 // Gaussian(mu, sigma)
	NewsRaw    float64 // Aggregate news impact before the asymmetric transform
	NewsFinal  float64 // After loss-aversion / gain-dampening
	Noise      float64 // Gaussian(0, noiseSigma)
	Correction float64 // Delayed mean-reversion term
	Total      float64 // Clamped sum
	Clamped    bool    // Total hit the bound
}

// Engine evolves instrument prices tick by tick.
type Engine struct {
	params Params
	gauss  *Gaussian
}

// New creates an engine with the given parameters and random seed.
func New(params Params, seed int64) *Engine {
	return &Engine{
		params: params,
		gauss:  NewGaussian(seed),
	}
}

// Params returns the engine's parameters.
func (e *Engine) Params() Params {
	return e.params
}

// Evolve computes the next price for one instrument at tick, applies it, and
// appends one history entry. Application order is fixed: aggregate news,
// asymmetric transform, add noise and correction, clamp.
func (e *Engine) Evolve(in *model.Instrument, tick int64, events []model.NewsEvent, lag int64) Return {
	p := e.params

	r := Return{
		Base:  e.gauss.Sample(p.Mu, p.Sigma),
		Noise: e.gauss.Sample(0, p.NoiseSigma),
	}

	impact := NewsImpact(*in, tick, events, lag, p)
	r.NewsRaw = impact.Raw
	r.Correction = impact.Correction
	r.NewsFinal = Asymmetric(impact.Raw, p)

	r.Total = r.Base + r.NewsFinal + r.Noise + r.Correction
	if r.Total > p.MaxChange {
		r.Total = p.MaxChange
		r.Clamped = true
	} else if r.Total < -p.MaxChange {
		r.Total = -p.MaxChange
		r.Clamped = true
	}

	in.Price = in.Price * (1 + r.Total)
	in.AppendHistory(model.PricePoint{Tick: tick, Price: in.Price})

	return r
}
