// Package feed implements the shared market-state channel.
//
// State lives in an append-only journal of typed entries (ticks, news,
// overrides, status changes) plus a derived snapshot projection that is
// maintained incrementally on every append. Replaying the journal from the
// genesis entry reproduces the projection exactly, which keeps manual
// overrides and resets auditable.
//
// Subscribers receive the full current snapshot on every change. A slow
// subscriber is skipped ahead to the latest snapshot rather than blocking
// the writer.
package feed
