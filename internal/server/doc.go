// Package server exposes the lab over HTTP and WebSocket.
//
// Participants log in, place orders, and read the leaderboard over JSON
// endpoints; every connected client also receives the full market snapshot
// over WebSocket on each change. Admin endpoints (status, lag, news,
// override, reset) are gated by a shared key; real identity management is
// the deployment's problem, not the core's.
package server
