// Package writer implements the batched transaction archive.
//
// Accepted orders are enqueued by the ledger and inserted into Postgres in
// batches (append-only, never update). The export collaborator reads this
// table; the live system never does.
package writer
