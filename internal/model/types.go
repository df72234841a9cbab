package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryWindow is the maximum number of price points kept per instrument.
const HistoryWindow = 60

// NoNewsDelay is the ReactionDelay sentinel used when no news event
// existed at order time.
const NoNewsDelay int64 = -1

// -----------------------------------------------------------------------------
// Market Types
// -----------------------------------------------------------------------------

// Industry classifies an instrument for industry-targeted news.
type Industry string

const (
	IndustryTech     Industry = "tech"
	IndustryEnergy   Industry = "energy"
	IndustryFinance  Industry = "finance"
	IndustryHealth   Industry = "health"
	IndustryConsumer Industry = "consumer"
)

// PricePoint is one entry in an instrument's price history.
type PricePoint struct {
	Tick     int64   `json:"tick"`     // Tick at which the price was set
	Price    float64 `json:"price"`    // Price after that tick
	Override bool    `json:"override"` // Set by manual admin override, not the engine
}

// Instrument is a tradeable simulated stock.
type Instrument struct {
	Symbol   string       `json:"symbol"`   // Primary key (e.g., "NOVA")
	Name     string       `json:"name"`     // Display name
	Industry Industry     `json:"industry"` // Industry classification
	Price    float64      `json:"price"`    // Current price, positive
	History  []PricePoint `json:"history"`  // Bounded window, oldest first
}

// AppendHistory appends a price point, evicting the oldest entry once the
// window is full.
func (in *Instrument) AppendHistory(p PricePoint) {
	in.History = append(in.History, p)
	if len(in.History) > HistoryWindow {
		in.History = in.History[len(in.History)-HistoryWindow:]
	}
}

// -----------------------------------------------------------------------------
// News Types
// -----------------------------------------------------------------------------

// Channel identifies which communication channel carried a news event.
// The engine maps channels to prominence weights.
type Channel string

const (
	ChannelNewspaper Channel = "newspaper"
	ChannelTV        Channel = "tv"
	ChannelOnline    Channel = "online"
	ChannelSocial    Channel = "social"
	ChannelChat      Channel = "chat"
)

// Visual is the visual prominence an event is rendered with.
type Visual string

const (
	VisualMinor    Visual = "minor"
	VisualStandard Visual = "standard"
	VisualBreaking Visual = "breaking"
)

// NewsEvent is an experimenter-injected headline. Immutable once created;
// retained for the whole session even after its market effect has decayed.
type NewsEvent struct {
	ID          int64   `json:"id"`          // Creation-ordered, assigned by the journal
	Headline    string  `json:"headline"`    // Display headline
	Description string  `json:"description"` // Longer body text
	Sentiment   float64 `json:"sentiment"`   // [-1, 1], clamped at injection
	Visual      Visual  `json:"visual"`      // Visual prominence
	Target      Target  `json:"target"`      // Resolved at injection time
	Channel     Channel `json:"channel"`     // Source channel
	InjectedAt  int64   `json:"injected_at"` // Tick at injection
}

// NewsSnapshot is the news context frozen onto a transaction record.
type NewsSnapshot struct {
	Present     bool    `json:"present"` // false = "no news" sentinel
	Headline    string  `json:"headline,omitempty"`
	Description string  `json:"description,omitempty"`
	Channel     Channel `json:"channel,omitempty"`
	Sentiment   float64 `json:"sentiment,omitempty"`
	Visual      Visual  `json:"visual,omitempty"`
	InjectedAt  int64   `json:"injected_at,omitempty"`
}

// SnapshotOf freezes an event into a transaction-record snapshot.
func SnapshotOf(e NewsEvent) NewsSnapshot {
	return NewsSnapshot{
		Present:     true,
		Headline:    e.Headline,
		Description: e.Description,
		Channel:     e.Channel,
		Sentiment:   e.Sentiment,
		Visual:      e.Visual,
		InjectedAt:  e.InjectedAt,
	}
}

// -----------------------------------------------------------------------------
// Account Types
// -----------------------------------------------------------------------------

// Position is a participant's holding in one instrument.
type Position struct {
	Quantity  int64           `json:"quantity"`   // Shares held, > 0 (zero entries are removed)
	AvgCost   decimal.Decimal `json:"avg_cost"`   // TotalCost / Quantity
	TotalCost decimal.Decimal `json:"total_cost"` // Accumulated cost basis
}

// Account is a participant's cash and holdings.
type Account struct {
	ID             string              `json:"id"`              // Opaque stable participant ID
	DisplayName    string              `json:"display_name"`    // Shown on the leaderboard
	RegistrationID string              `json:"registration_id"` // Lab registration identifier
	Cash           decimal.Decimal     `json:"cash"`            // >= 0 after any accepted trade
	Positions      map[string]Position `json:"positions"`       // symbol -> position
	LastActiveTick int64               `json:"last_active_tick"`
}

// Clone returns a deep copy (positions map included).
func (a Account) Clone() Account {
	out := a
	out.Positions = make(map[string]Position, len(a.Positions))
	for sym, pos := range a.Positions {
		out.Positions[sym] = pos
	}
	return out
}

// OrderKind is the direction of a trade.
type OrderKind string

const (
	OrderBuy  OrderKind = "BUY"
	OrderSell OrderKind = "SELL"
)

// Transaction is one accepted order. Append-only; never mutated or deleted.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`             // Assigned by the ledger
	ParticipantID string          `json:"participant_id"` // Account ID
	Kind          OrderKind       `json:"kind"`           // BUY or SELL
	Symbol        string          `json:"symbol"`         // Instrument symbol
	Quantity      int64           `json:"quantity"`       // Shares
	Price         decimal.Decimal `json:"price"`          // Execution price per share
	Total         decimal.Decimal `json:"total"`          // Price * Quantity
	Walltime      time.Time       `json:"walltime"`       // Wall-clock execution time
	Tick          int64           `json:"tick"`           // Market tick at execution
	News          NewsSnapshot    `json:"news"`           // Most recent event at order time
	ReactionDelay int64           `json:"reaction_delay"` // Tick - News.InjectedAt, or NoNewsDelay
}
