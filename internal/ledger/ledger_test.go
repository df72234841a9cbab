package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tradinglab/marketsim/internal/model"
)

// fakeMarket is a PriceSource with a settable snapshot.
type fakeMarket struct {
	snap model.Snapshot
}

func (f *fakeMarket) Snapshot() model.Snapshot {
	return f.snap.Clone()
}

// captureSink records archived transactions.
type captureSink struct {
	archived []model.Transaction
}

func (s *captureSink) Archive(tx model.Transaction) {
	s.archived = append(s.archived, tx)
}

func liveMarket(prices map[string]float64) *fakeMarket {
	instruments := make(map[string]model.Instrument, len(prices))
	for sym, p := range prices {
		instruments[sym] = model.Instrument{Symbol: sym, Price: p}
	}
	return &fakeMarket{snap: model.Snapshot{
		Tick:        10,
		Status:      model.StatusLive,
		Instruments: instruments,
	}}
}

func cash(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestRegister(t *testing.T) {
	l := New(liveMarket(nil), nil, cash(100000), nil)

	a := l.Register("p1", "Alice", "reg-1")
	if !a.Cash.Equal(cash(100000)) {
		t.Errorf("cash = %s, want 100000", a.Cash)
	}
	if a.DisplayName != "Alice" {
		t.Errorf("display name = %q", a.DisplayName)
	}

	// Repeat login returns the existing account unchanged.
	again := l.Register("p1", "Someone Else", "reg-2")
	if again.DisplayName != "Alice" {
		t.Errorf("repeat registration changed display name to %q", again.DisplayName)
	}
	if got := len(l.Accounts()); got != 1 {
		t.Errorf("accounts = %d, want 1", got)
	}
}

func TestAccountsRegistrationOrder(t *testing.T) {
	l := New(liveMarket(nil), nil, cash(1000), nil)
	for _, id := range []string{"zeta", "alpha", "mid"} {
		l.Register(id, id, "")
	}

	got := l.Accounts()
	want := []string{"zeta", "alpha", "mid"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("accounts[%d] = %s, want %s (registration order)", i, got[i].ID, id)
		}
	}
}

func TestExecuteOrderBuy(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	l := New(m, nil, cash(100000), nil)
	l.Register("p1", "Alice", "")

	tx, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderBuy, 10)
	if err != nil {
		t.Fatalf("ExecuteOrder: %v", err)
	}

	if !tx.Total.Equal(cash(1000)) {
		t.Errorf("total = %s, want 1000", tx.Total)
	}
	if tx.Tick != 10 {
		t.Errorf("tick = %d, want 10", tx.Tick)
	}
	if tx.News.Present || tx.ReactionDelay != model.NoNewsDelay {
		t.Errorf("no-news order got news context %+v delay %d", tx.News, tx.ReactionDelay)
	}

	a, _ := l.Account("p1")
	if !a.Cash.Equal(cash(99000)) {
		t.Errorf("cash = %s, want 99000", a.Cash)
	}
	pos := a.Positions["NOVA"]
	if pos.Quantity != 10 || !pos.AvgCost.Equal(cash(100)) {
		t.Errorf("position = %+v, want 10 @ 100", pos)
	}
}

func TestAverageCostAcrossBuys(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	l := New(m, nil, cash(100000), nil)
	l.Register("p1", "Alice", "")

	if _, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderBuy, 10); err != nil {
		t.Fatal(err)
	}
	m.snap.Instruments["NOVA"] = model.Instrument{Symbol: "NOVA", Price: 120}
	if _, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderBuy, 10); err != nil {
		t.Fatal(err)
	}

	a, _ := l.Account("p1")
	pos := a.Positions["NOVA"]
	if pos.Quantity != 20 {
		t.Fatalf("quantity = %d, want 20", pos.Quantity)
	}
	// 10 @ 100 + 10 @ 120 = 2200 total over 20 shares.
	if !pos.AvgCost.Equal(cash(110)) {
		t.Errorf("avg cost = %s, want 110", pos.AvgCost)
	}
}

func TestSellRoundTripRestoresCash(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	l := New(m, nil, cash(100000), nil)
	l.Register("p1", "Alice", "")

	if _, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderBuy, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderSell, 10); err != nil {
		t.Fatal(err)
	}

	a, _ := l.Account("p1")
	if !a.Cash.Equal(cash(100000)) {
		t.Errorf("cash = %s, want initial 100000 after round trip at the same price", a.Cash)
	}
	if _, ok := a.Positions["NOVA"]; ok {
		t.Error("position sold to zero must be removed")
	}
}

func TestPartialSellKeepsAvgCost(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	l := New(m, nil, cash(100000), nil)
	l.Register("p1", "Alice", "")

	if _, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderBuy, 10); err != nil {
		t.Fatal(err)
	}
	m.snap.Instruments["NOVA"] = model.Instrument{Symbol: "NOVA", Price: 150}
	if _, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderSell, 4); err != nil {
		t.Fatal(err)
	}

	a, _ := l.Account("p1")
	pos := a.Positions["NOVA"]
	if pos.Quantity != 6 {
		t.Fatalf("quantity = %d, want 6", pos.Quantity)
	}
	if !pos.AvgCost.Equal(cash(100)) {
		t.Errorf("avg cost = %s, selling must not move the cost basis per share", pos.AvgCost)
	}
	if !pos.TotalCost.Equal(cash(600)) {
		t.Errorf("total cost = %s, want 600", pos.TotalCost)
	}
}

func TestExecuteOrderRejections(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	l := New(m, nil, cash(500), nil)
	l.Register("p1", "Alice", "")

	ctx := context.Background()

	tests := []struct {
		name     string
		pid      string
		symbol   string
		kind     model.OrderKind
		quantity int64
		want     error
	}{
		{"zero quantity", "p1", "NOVA", model.OrderBuy, 0, ErrInvalidQuantity},
		{"negative quantity", "p1", "NOVA", model.OrderBuy, -3, ErrInvalidQuantity},
		{"unknown participant", "ghost", "NOVA", model.OrderBuy, 1, ErrUnknownParticipant},
		{"unknown symbol", "p1", "NOPE", model.OrderBuy, 1, ErrUnknownSymbol},
		{"insufficient funds", "p1", "NOVA", model.OrderBuy, 6, ErrInsufficientFunds},
		{"insufficient holdings", "p1", "NOVA", model.OrderSell, 1, ErrInsufficientHoldings},
		{"invalid kind", "p1", "NOVA", model.OrderKind("SHORT"), 1, ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.ExecuteOrder(ctx, tt.pid, tt.symbol, tt.kind, tt.quantity)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	// Rejected orders leave the account untouched.
	a, _ := l.Account("p1")
	if !a.Cash.Equal(cash(500)) {
		t.Errorf("cash = %s, rejected orders must not change it", a.Cash)
	}
	if len(l.Transactions("")) != 0 {
		t.Error("rejected orders must not be recorded")
	}
}

func TestExecuteOrderMarketClosed(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	l := New(m, nil, cash(1000), nil)
	l.Register("p1", "Alice", "")

	for _, status := range []model.SessionStatus{model.StatusWaiting, model.StatusPaused, model.StatusEnded} {
		m.snap.Status = status
		_, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderBuy, 1)
		if !errors.Is(err, ErrMarketClosed) {
			t.Errorf("status %s: err = %v, want ErrMarketClosed", status, err)
		}
	}
}

func TestExecuteOrderNewsContext(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	m.snap.Events = []model.NewsEvent{
		{ID: 1, Headline: "old news", InjectedAt: 2},
		{ID: 2, Headline: "fresh news", Sentiment: -0.4, InjectedAt: 7},
	}
	l := New(m, nil, cash(1000), nil)
	l.Register("p1", "Alice", "")

	tx, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderBuy, 1)
	if err != nil {
		t.Fatal(err)
	}

	if !tx.News.Present || tx.News.Headline != "fresh news" {
		t.Errorf("news = %+v, want the most recent event", tx.News)
	}
	if tx.ReactionDelay != 3 {
		t.Errorf("reaction delay = %d, want tick 10 - injected 7 = 3", tx.ReactionDelay)
	}
}

func TestExecuteOrderArchives(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	sink := &captureSink{}
	l := New(m, sink, cash(1000), nil)
	l.Register("p1", "Alice", "")

	tx, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderBuy, 2)
	if err != nil {
		t.Fatal(err)
	}

	if len(sink.archived) != 1 {
		t.Fatalf("archived = %d, want 1", len(sink.archived))
	}
	if sink.archived[0].ID != tx.ID {
		t.Error("archived transaction does not match the returned one")
	}
}

func TestTransactionsFilter(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	l := New(m, nil, cash(10000), nil)
	l.Register("p1", "Alice", "")
	l.Register("p2", "Bob", "")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := l.ExecuteOrder(ctx, "p1", "NOVA", model.OrderBuy, 1); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := l.ExecuteOrder(ctx, "p2", "NOVA", model.OrderBuy, 1); err != nil {
		t.Fatal(err)
	}

	if got := len(l.Transactions("")); got != 4 {
		t.Errorf("all transactions = %d, want 4", got)
	}
	if got := len(l.Transactions("p1")); got != 3 {
		t.Errorf("p1 transactions = %d, want 3", got)
	}
	if got := len(l.Transactions("ghost")); got != 0 {
		t.Errorf("ghost transactions = %d, want 0", got)
	}
}

func TestReset(t *testing.T) {
	m := liveMarket(map[string]float64{"NOVA": 100})
	l := New(m, nil, cash(1000), nil)
	l.Register("p1", "Alice", "")
	if _, err := l.ExecuteOrder(context.Background(), "p1", "NOVA", model.OrderBuy, 1); err != nil {
		t.Fatal(err)
	}

	l.Reset()

	if len(l.Accounts()) != 0 {
		t.Error("accounts must be cleared on reset")
	}
	if len(l.Transactions("")) != 0 {
		t.Error("transactions must be cleared on reset")
	}
}
