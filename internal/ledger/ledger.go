package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradinglab/marketsim/internal/model"
)

// PriceSource provides the current published market state. The feed channel
// satisfies this.
type PriceSource interface {
	Snapshot() model.Snapshot
}

// Sink receives accepted transactions for archival. The archive writer
// satisfies this; a nil sink keeps records in memory only.
type Sink interface {
	Archive(tx model.Transaction)
}

// Ledger holds all participant accounts and the session's transaction log.
type Ledger struct {
	prices      PriceSource
	sink        Sink
	initialCash decimal.Decimal
	logger      *slog.Logger

	mu           sync.RWMutex
	accounts     map[string]*model.Account
	order        []string // Account IDs in registration order
	transactions []model.Transaction
}

// New creates a ledger. initialCash is granted to every account on
// registration.
func New(prices PriceSource, sink Sink, initialCash decimal.Decimal, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		prices:      prices,
		sink:        sink,
		initialCash: initialCash,
		logger:      logger,
		accounts:    make(map[string]*model.Account),
	}
}

// InitialCash returns the starting cash per account.
func (l *Ledger) InitialCash() decimal.Decimal {
	return l.initialCash
}

// Register creates an account on first login and returns it. A repeat login
// with a known ID returns the existing account unchanged.
func (l *Ledger) Register(id, displayName, registrationID string) model.Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	if acct, ok := l.accounts[id]; ok {
		return acct.Clone()
	}

	acct := &model.Account{
		ID:             id,
		DisplayName:    displayName,
		RegistrationID: registrationID,
		Cash:           l.initialCash,
		Positions:      make(map[string]model.Position),
	}
	l.accounts[id] = acct
	l.order = append(l.order, id)

	l.logger.Info("participant registered", "participant", id, "display_name", displayName)
	return acct.Clone()
}

// Account returns one account by participant ID.
func (l *Ledger) Account(id string) (model.Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[id]
	if !ok {
		return model.Account{}, false
	}
	return acct.Clone(), true
}

// Accounts returns all accounts in registration order. Ranking relies on
// this ordering for stable tie-breaks.
func (l *Ledger) Accounts() []model.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Account, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.accounts[id].Clone())
	}
	return out
}

// Transactions returns the transaction log, optionally filtered by
// participant ("" = all).
func (l *Ledger) Transactions(participantID string) []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if participantID == "" {
		return append([]model.Transaction(nil), l.transactions...)
	}
	var out []model.Transaction
	for _, tx := range l.transactions {
		if tx.ParticipantID == participantID {
			out = append(out, tx)
		}
	}
	return out
}

// Reset clears all accounts and the transaction log (admin session reset).
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = make(map[string]*model.Account)
	l.order = nil
	l.transactions = nil
	l.logger.Info("ledger reset")
}

// ExecuteOrder validates and executes one order at the current published
// price. The price is read before validation; it is not held atomic with
// the live feed, which is acceptable for the lab's pacing.
func (l *Ledger) ExecuteOrder(ctx context.Context, participantID, symbol string, kind model.OrderKind, quantity int64) (model.Transaction, error) {
	if quantity <= 0 {
		return model.Transaction{}, ErrInvalidQuantity
	}

	snap := l.prices.Snapshot()
	if snap.Status != model.StatusLive {
		return model.Transaction{}, ErrMarketClosed
	}
	in, ok := snap.Instruments[symbol]
	if !ok {
		return model.Transaction{}, ErrUnknownSymbol
	}

	price := decimal.NewFromFloat(in.Price)
	qty := decimal.NewFromInt(quantity)
	total := price.Mul(qty)

	l.mu.Lock()
	acct, ok := l.accounts[participantID]
	if !ok {
		l.mu.Unlock()
		return model.Transaction{}, ErrUnknownParticipant
	}

	var err error
	switch kind {
	case model.OrderBuy:
		err = l.applyBuy(acct, symbol, qty, price, total)
	case model.OrderSell:
		err = l.applySell(acct, symbol, quantity, qty, total)
	default:
		err = ErrInvalidKind
	}
	if err != nil {
		l.mu.Unlock()
		return model.Transaction{}, err
	}

	acct.LastActiveTick = snap.Tick

	tx := model.Transaction{
		ID:            uuid.New(),
		ParticipantID: participantID,
		Kind:          kind,
		Symbol:        symbol,
		Quantity:      quantity,
		Price:         price,
		Total:         total,
		Walltime:      time.Now(),
		Tick:          snap.Tick,
		News:          model.NewsSnapshot{},
		ReactionDelay: model.NoNewsDelay,
	}
	if e, ok := snap.LatestEvent(); ok {
		tx.News = model.SnapshotOf(e)
		tx.ReactionDelay = snap.Tick - e.InjectedAt
	}
	l.transactions = append(l.transactions, tx)
	l.mu.Unlock()

	if l.sink != nil {
		l.sink.Archive(tx)
	}

	l.logger.Info("order executed",
		"participant", participantID,
		"kind", kind,
		"symbol", symbol,
		"quantity", quantity,
		"price", price,
		"tick", tx.Tick,
	)
	return tx, nil
}

// applyBuy debits cash and accumulates the position's cost basis.
func (l *Ledger) applyBuy(acct *model.Account, symbol string, qty, price, total decimal.Decimal) error {
	if acct.Cash.LessThan(total) {
		return ErrInsufficientFunds
	}

	acct.Cash = acct.Cash.Sub(total)

	pos := acct.Positions[symbol]
	pos.Quantity += qty.IntPart()
	pos.TotalCost = pos.TotalCost.Add(total)
	pos.AvgCost = pos.TotalCost.Div(decimal.NewFromInt(pos.Quantity))
	acct.Positions[symbol] = pos
	return nil
}

// applySell credits cash and reduces the cost basis proportionally. A
// position sold down to zero is removed entirely.
func (l *Ledger) applySell(acct *model.Account, symbol string, quantity int64, qty, total decimal.Decimal) error {
	pos, ok := acct.Positions[symbol]
	if !ok || pos.Quantity < quantity {
		return ErrInsufficientHoldings
	}

	acct.Cash = acct.Cash.Add(total)

	pos.Quantity -= quantity
	if pos.Quantity == 0 {
		delete(acct.Positions, symbol)
		return nil
	}
	pos.TotalCost = pos.TotalCost.Sub(pos.AvgCost.Mul(qty))
	acct.Positions[symbol] = pos
	return nil
}
