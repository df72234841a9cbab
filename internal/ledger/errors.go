package ledger

import "errors"

var (
	// ErrMarketClosed is returned for orders placed while the session is
	// not LIVE.
	ErrMarketClosed = errors.New("market closed")

	// ErrInsufficientFunds is returned when a BUY exceeds available cash.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientHoldings is returned when a SELL exceeds the held
	// quantity.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrUnknownParticipant is returned for an order from an unregistered
	// participant.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrUnknownSymbol is returned for an order naming an instrument that
	// does not exist in the session.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrInvalidQuantity is returned for a non-positive order quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidKind is returned for an order kind other than BUY or SELL.
	ErrInvalidKind = errors.New("invalid order kind")
)
