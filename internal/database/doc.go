// Package database provides the PostgreSQL connection pool for the
// transaction archive. The archive is optional; the lab runs fully
// in-memory without it.
package database
