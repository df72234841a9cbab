package engine

import (
	"math"

	"github.com/tradinglab/marketsim/internal/model"
)

// channelWeights maps a source channel to its prominence multiplier.
// Print and broadcast carry more weight than social chatter; the mapping is
// implicit in the channel, not configurable per event.
var channelWeights = map[model.Channel]float64{
	model.ChannelNewspaper: 1.0,
	model.ChannelTV:        0.9,
	model.ChannelOnline:    0.7,
	model.ChannelSocial:    0.4,
	model.ChannelChat:      0.25,
}

// visualWeights maps visual prominence to its multiplier.
var visualWeights = map[model.Visual]float64{
	model.VisualMinor:    0.5,
	model.VisualStandard: 1.0,
	model.VisualBreaking: 1.5,
}

// ChannelWeight returns the prominence weight of a channel (0 if unknown).
func ChannelWeight(c model.Channel) float64 {
	return channelWeights[c]
}

// VisualWeight returns the weight of a visual prominence level (0 if unknown).
func VisualWeight(v model.Visual) float64 {
	return visualWeights[v]
}

// Impact is the aggregated news contribution for one instrument at one tick,
// before the asymmetric transform.
type Impact struct {
	Raw        float64 // Sum of per-event impacts
	Correction float64 // Delayed mean-reversion term, accumulated separately
}

// NewsImpact aggregates all matching events into a raw impact and a
// correction term. Events younger than the reaction lag contribute nothing.
// Each matching event contributes independently; multiple events accumulate
// additively.
func NewsImpact(in model.Instrument, tick int64, events []model.NewsEvent, lag int64, p Params) Impact {
	var out Impact

	for _, e := range events {
		if !e.Target.Matches(in) {
			continue
		}
		age := tick - e.InjectedAt
		if age < lag {
			continue
		}
		effAge := age - lag

		decay := math.Exp(-p.DecayLambda * float64(effAge))
		impact := e.Sentiment * ChannelWeight(e.Channel) * VisualWeight(e.Visual) * decay
		out.Raw += impact

		// Part of the effect unwinds in a fixed later window, layered on top
		// of first-order decay.
		if effAge > p.ReversionStart && effAge < p.ReversionEnd {
			out.Correction -= impact * p.ReversionFactor
		}
	}

	return out
}

// Asymmetric applies the loss-aversion / gain-dampening transform to the
// aggregate raw impact. Zero passes through unchanged.
func Asymmetric(raw float64, p Params) float64 {
	switch {
	case raw < 0:
		return raw * p.LossAversion
	case raw > 0:
		return raw * p.GainDampener
	default:
		return raw
	}
}
