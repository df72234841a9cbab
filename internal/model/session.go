package model

import "time"

// SessionStatus is the lifecycle state of a lab session.
type SessionStatus string

const (
	StatusWaiting SessionStatus = "WAITING"
	StatusLive    SessionStatus = "LIVE"
	StatusPaused  SessionStatus = "PAUSED"
	StatusEnded   SessionStatus = "ENDED"
)

// transitions is the allowed status transition table. ENDED is terminal;
// only a session reset returns to WAITING.
var transitions = map[SessionStatus][]SessionStatus{
	StatusWaiting: {StatusLive},
	StatusLive:    {StatusPaused, StatusEnded},
	StatusPaused:  {StatusLive, StatusEnded},
	StatusEnded:   {},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to SessionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the four session states.
func ValidStatus(s SessionStatus) bool {
	switch s {
	case StatusWaiting, StatusLive, StatusPaused, StatusEnded:
		return true
	}
	return false
}

// Snapshot is the full published market state delivered to every
// subscriber on each change.
type Snapshot struct {
	Seq         int64                 `json:"seq"`          // Journal sequence of the last applied entry
	Tick        int64                 `json:"tick"`         // Current market tick
	Status      SessionStatus         `json:"status"`       // Session state
	ReactionLag int64                 `json:"reaction_lag"` // Ticks before injected news takes effect
	Instruments map[string]Instrument `json:"instruments"`  // symbol -> instrument
	Events      []NewsEvent           `json:"events"`       // All injected events, creation order
	PublishedAt time.Time             `json:"published_at"` // Wall time of the last change
}

// Clone returns a deep copy safe to hand to subscribers.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Instruments = make(map[string]Instrument, len(s.Instruments))
	for sym, in := range s.Instruments {
		cp := in
		cp.History = append([]PricePoint(nil), in.History...)
		out.Instruments[sym] = cp
	}
	out.Events = append([]NewsEvent(nil), s.Events...)
	return out
}

// LatestEvent returns the most recently injected event, if any.
func (s Snapshot) LatestEvent() (NewsEvent, bool) {
	if len(s.Events) == 0 {
		return NewsEvent{}, false
	}
	return s.Events[len(s.Events)-1], true
}
