// Package engine implements the price evolution process.
//
// Per instrument, per tick, the engine composes a bounded return from:
//   - base drift/volatility (Gaussian)
//   - aggregated news impact (decayed, lagged, asymmetrically transformed)
//   - a delayed mean-reversion correction for aging news
//   - idiosyncratic noise (Gaussian, redrawn every tick)
//
// and applies it multiplicatively to the current price. The engine is pure
// apart from its random source; the tick coordinator drives it.
package engine
