package feed

import "errors"

var (
	// ErrInvalidTransition is returned for a status change the session
	// state machine does not allow.
	ErrInvalidTransition = errors.New("invalid session status transition")

	// ErrInvalidOverrideValue is returned for a manual price that is not a
	// positive finite number.
	ErrInvalidOverrideValue = errors.New("invalid override value")

	// ErrUnknownSymbol is returned when an operation names an instrument
	// that does not exist in the session.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrSessionEnded is returned for operations that require a non-ended
	// session.
	ErrSessionEnded = errors.New("session has ended")

	// ErrStaleTick is returned when a tick entry does not follow the
	// current tick. A second concurrent coordinator would trip this.
	ErrStaleTick = errors.New("stale tick")
)
