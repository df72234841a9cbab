// Package coordinator implements the tick coordinator.
//
// While the session is LIVE, a single coordinator advances the market once
// per fixed wall-clock interval: it evolves every instrument through the
// engine and appends one tick entry to the feed journal. Single-writer
// ownership is enforced with a time-bounded lease renewed on every tick, so
// a second coordinator instance can never tick concurrently. Publish
// failures back off exponentially and surface a degraded flag; they are
// never fatal to the loop.
package coordinator
