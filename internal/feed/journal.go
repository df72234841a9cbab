package feed

import (
	"time"

	"github.com/tradinglab/marketsim/internal/model"
)

// EntryKind discriminates journal entry payloads.
type EntryKind string

const (
	EntryReset    EntryKind = "reset"
	EntryTick     EntryKind = "tick"
	EntryNews     EntryKind = "news"
	EntryOverride EntryKind = "override"
	EntryStatus   EntryKind = "status"
	EntryLag      EntryKind = "lag"
)

// TickApplied carries the per-symbol prices of one engine tick.
type TickApplied struct {
	Tick   int64              `json:"tick"`
	Prices map[string]float64 `json:"prices"`
}

// NewsInjected carries one injected event (ID already assigned).
type NewsInjected struct {
	Event model.NewsEvent `json:"event"`
}

// PriceOverridden carries a manual admin price override. It is recorded in
// the instrument's history like an engine tick, so replay stays consistent.
type PriceOverridden struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Tick   int64   `json:"tick"`
}

// StatusChanged carries a session status transition.
type StatusChanged struct {
	Status model.SessionStatus `json:"status"`
}

// LagChanged carries a new reaction lag setting.
type LagChanged struct {
	Ticks int64 `json:"ticks"`
}

// SessionReset reinitializes the market from a seed instrument list. The
// genesis entry of every session is a reset.
type SessionReset struct {
	Instruments []model.Instrument `json:"instruments"`
}

// Entry is one journal record. Exactly one payload field is non-nil,
// matching Kind.
type Entry struct {
	Seq      int64     `json:"seq"`
	Kind     EntryKind `json:"kind"`
	Walltime time.Time `json:"walltime"`

	Reset    *SessionReset    `json:"reset,omitempty"`
	Tick     *TickApplied     `json:"tick,omitempty"`
	News     *NewsInjected    `json:"news,omitempty"`
	Override *PriceOverridden `json:"override,omitempty"`
	Status   *StatusChanged   `json:"status,omitempty"`
	Lag      *LagChanged      `json:"lag,omitempty"`
}

// apply folds one entry into the snapshot. Shared by the incremental
// projection and Replay.
func apply(s *model.Snapshot, e Entry) {
	switch e.Kind {
	case EntryReset:
		s.Tick = 0
		s.Status = model.StatusWaiting
		s.ReactionLag = 0
		s.Events = nil
		s.Instruments = make(map[string]model.Instrument, len(e.Reset.Instruments))
		for _, in := range e.Reset.Instruments {
			cp := in
			cp.History = append([]model.PricePoint(nil), in.History...)
			s.Instruments[cp.Symbol] = cp
		}

	case EntryTick:
		s.Tick = e.Tick.Tick
		for sym, price := range e.Tick.Prices {
			in, ok := s.Instruments[sym]
			if !ok {
				continue
			}
			in.Price = price
			in.AppendHistory(model.PricePoint{Tick: e.Tick.Tick, Price: price})
			s.Instruments[sym] = in
		}

	case EntryNews:
		s.Events = append(s.Events, e.News.Event)

	case EntryOverride:
		in, ok := s.Instruments[e.Override.Symbol]
		if !ok {
			return
		}
		in.Price = e.Override.Price
		in.AppendHistory(model.PricePoint{
			Tick:     e.Override.Tick,
			Price:    e.Override.Price,
			Override: true,
		})
		s.Instruments[e.Override.Symbol] = in

	case EntryStatus:
		s.Status = e.Status.Status

	case EntryLag:
		s.ReactionLag = e.Lag.Ticks
	}

	s.Seq = e.Seq
	s.PublishedAt = e.Walltime
}
