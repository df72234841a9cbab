package engine

import (
	"math"
	"math/rand"
)

// Gaussian samples normal deviates using the Box-Muller transform over two
// uniform draws. Not safe for concurrent use; the coordinator owns one
// sampler.
type Gaussian struct {
	src      *rand.Rand
	spare    float64
	hasSpare bool
}

// NewGaussian creates a sampler from the given seed.
func NewGaussian(seed int64) *Gaussian {
	return &Gaussian{src: rand.New(rand.NewSource(seed))}
}

// Sample returns one draw from N(mu, sigma).
func (g *Gaussian) Sample(mu, sigma float64) float64 {
	return mu + sigma*g.standard()
}

// standard returns one draw from N(0, 1). Box-Muller produces deviates in
// pairs; the second is cached for the next call.
func (g *Gaussian) standard() float64 {
	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}

	// u1 must be strictly positive for the log.
	u1 := g.src.Float64()
	for u1 == 0 {
		u1 = g.src.Float64()
	}
	u2 := g.src.Float64()

	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2

	g.spare = r * math.Sin(theta)
	g.hasSpare = true
	return r * math.Cos(theta)
}
