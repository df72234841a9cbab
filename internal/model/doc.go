// Package model defines shared data types used across the trading lab.
//
// Conventions:
//   - Simulated time: int64 tick counter, starting at 0, reset with the session
//   - Wall time: time.Time, recorded on transactions and journal entries
//   - Engine prices: float64 (stochastic returns are multiplicative)
//   - Money in accounts and transactions: decimal.Decimal
package model
