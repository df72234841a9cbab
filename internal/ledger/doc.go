// Package ledger implements per-participant cash and position bookkeeping.
//
// Orders are validated against the current published price and the
// participant's holdings; accepted orders update weighted-average cost and
// append an immutable transaction record carrying the most recent news
// context. Rejected orders leave the account untouched and return a typed
// error; nothing unwinds past this boundary.
package ledger
