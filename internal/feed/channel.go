package feed

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tradinglab/marketsim/internal/model"
)

// SubscriptionBuffer is the per-subscriber channel capacity. A full
// subscriber is skipped ahead to the latest snapshot.
const SubscriptionBuffer = 16

// Channel is the shared state channel: the append-only journal, its
// snapshot projection, and push subscriptions.
type Channel struct {
	logger *slog.Logger

	mu          sync.RWMutex
	entries     []Entry
	state       model.Snapshot
	seq         int64
	nextEventID int64

	subMu   sync.Mutex
	subs    map[int]chan model.Snapshot
	nextSub int
}

// NewChannel creates a channel seeded with the given instruments. The seed
// becomes the genesis reset entry of the journal.
func NewChannel(seed []model.Instrument, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Channel{
		logger: logger,
		subs:   make(map[int]chan model.Snapshot),
	}
	c.mu.Lock()
	c.appendLocked(Entry{Kind: EntryReset, Reset: &SessionReset{Instruments: cloneInstruments(seed)}})
	c.mu.Unlock()
	return c
}

// Snapshot returns a deep copy of the current market state.
func (c *Channel) Snapshot() model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Entries returns a copy of the journal.
func (c *Channel) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Entry(nil), c.entries...)
}

// Replay rebuilds the snapshot from the journal alone. It must equal the
// incremental projection; tests rely on this for audit consistency.
func (c *Channel) Replay() model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s model.Snapshot
	for _, e := range c.entries {
		apply(&s, e)
	}
	return s.Clone()
}

// Subscribe registers a snapshot subscriber. The current snapshot is
// delivered immediately; every subsequent append delivers the new one.
// The returned cancel func must be called to release the subscription.
func (c *Channel) Subscribe() (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, SubscriptionBuffer)

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subMu.Unlock()

	ch <- c.Snapshot()

	cancel := func() {
		c.subMu.Lock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
		c.subMu.Unlock()
	}
	return ch, cancel
}

// ApplyTick appends one engine tick. The tick must directly follow the
// current one; anything else means a second writer raced us.
func (c *Channel) ApplyTick(tick int64, prices map[string]float64) error {
	c.mu.Lock()
	if tick != c.state.Tick+1 {
		c.mu.Unlock()
		return ErrStaleTick
	}
	c.appendLocked(Entry{Kind: EntryTick, Tick: &TickApplied{Tick: tick, Prices: prices}})
	c.mu.Unlock()

	c.broadcast()
	return nil
}

// InjectNews validates, assigns an ID and injection tick, and appends one
// news event. Sentiment outside [-1, 1] is clamped rather than rejected;
// the original platform never validated it, and a clamp keeps the impact
// math inside its modeled range without failing the experimenter.
func (c *Channel) InjectNews(e model.NewsEvent) (model.NewsEvent, error) {
	c.mu.Lock()
	if c.state.Status == model.StatusEnded {
		c.mu.Unlock()
		return model.NewsEvent{}, ErrSessionEnded
	}
	if e.Target.Kind == model.TargetKindSymbol {
		if _, ok := c.state.Instruments[e.Target.ID]; !ok {
			c.mu.Unlock()
			return model.NewsEvent{}, ErrUnknownSymbol
		}
	}

	e.Sentiment = clampSentiment(e.Sentiment)
	e.InjectedAt = c.state.Tick
	e.ID = c.nextEventID
	c.nextEventID++

	c.appendLocked(Entry{Kind: EntryNews, News: &NewsInjected{Event: e}})
	c.mu.Unlock()

	c.broadcast()
	c.logger.Info("news injected",
		"id", e.ID,
		"target", e.Target.String(),
		"sentiment", e.Sentiment,
		"channel", e.Channel,
		"tick", e.InjectedAt,
	)
	return e, nil
}

// OverridePrice sets an instrument's price manually. Allowed while WAITING
// or LIVE; recorded in history like a tick so replay stays consistent.
func (c *Channel) OverridePrice(symbol string, price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return ErrInvalidOverrideValue
	}

	c.mu.Lock()
	if c.state.Status != model.StatusWaiting && c.state.Status != model.StatusLive {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if _, ok := c.state.Instruments[symbol]; !ok {
		c.mu.Unlock()
		return ErrUnknownSymbol
	}
	c.appendLocked(Entry{Kind: EntryOverride, Override: &PriceOverridden{
		Symbol: symbol,
		Price:  price,
		Tick:   c.state.Tick,
	}})
	c.mu.Unlock()

	c.broadcast()
	c.logger.Info("price overridden", "symbol", symbol, "price", price)
	return nil
}

// SetStatus transitions the session state machine.
func (c *Channel) SetStatus(to model.SessionStatus) error {
	if !model.ValidStatus(to) {
		return ErrInvalidTransition
	}

	c.mu.Lock()
	from := c.state.Status
	if !model.CanTransition(from, to) {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.appendLocked(Entry{Kind: EntryStatus, Status: &StatusChanged{Status: to}})
	c.mu.Unlock()

	c.broadcast()
	c.logger.Info("session status changed", "from", from, "to", to)
	return nil
}

// SetLag updates the reaction lag setting. Negative values are rejected.
func (c *Channel) SetLag(ticks int64) error {
	if ticks < 0 {
		return ErrInvalidOverrideValue
	}

	c.mu.Lock()
	c.appendLocked(Entry{Kind: EntryLag, Lag: &LagChanged{Ticks: ticks}})
	c.mu.Unlock()

	c.broadcast()
	c.logger.Info("reaction lag changed", "ticks", ticks)
	return nil
}

// Reset reinitializes the session from a seed instrument list. The journal
// keeps growing; sequence numbers never restart.
func (c *Channel) Reset(seed []model.Instrument) {
	c.mu.Lock()
	c.appendLocked(Entry{Kind: EntryReset, Reset: &SessionReset{Instruments: cloneInstruments(seed)}})
	c.mu.Unlock()

	c.broadcast()
	c.logger.Info("session reset", "instruments", len(seed))
}

// appendLocked stamps, stores, and applies one entry. Caller holds mu.
func (c *Channel) appendLocked(e Entry) {
	c.seq++
	e.Seq = c.seq
	e.Walltime = time.Now()
	c.entries = append(c.entries, e)
	apply(&c.state, e)
}

// broadcast delivers the current snapshot to all subscribers without
// blocking. A full subscriber loses its oldest pending snapshot.
func (c *Channel) broadcast() {
	snap := c.Snapshot()

	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, sub := range c.subs {
		select {
		case sub <- snap:
		default:
			select {
			case <-sub:
				sub <- snap
			default:
			}
		}
	}
}

func clampSentiment(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

func cloneInstruments(in []model.Instrument) []model.Instrument {
	out := make([]model.Instrument, len(in))
	for i, inst := range in {
		cp := inst
		cp.History = append([]model.PricePoint(nil), inst.History...)
		out[i] = cp
	}
	return out
}
