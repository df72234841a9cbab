// Package ranking computes the live leaderboard.
//
// The ranking is a stateless projection recomputed on every read from the
// current accounts and published prices; nothing is cached between calls.
package ranking
