package ranking

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tradinglab/marketsim/internal/model"
)

func account(id string, cashf float64, positions map[string]int64) model.Account {
	a := model.Account{
		ID:          id,
		DisplayName: id,
		Cash:        decimal.NewFromFloat(cashf),
		Positions:   make(map[string]model.Position),
	}
	for sym, qty := range positions {
		a.Positions[sym] = model.Position{Quantity: qty}
	}
	return a
}

func marketSnap(prices map[string]float64) model.Snapshot {
	instruments := make(map[string]model.Instrument, len(prices))
	for sym, p := range prices {
		instruments[sym] = model.Instrument{Symbol: sym, Price: p}
	}
	return model.Snapshot{Status: model.StatusLive, Instruments: instruments}
}

func TestComputeOrdering(t *testing.T) {
	initial := decimal.NewFromInt(100000)
	snap := marketSnap(map[string]float64{"NOVA": 100})

	accounts := []model.Account{
		account("flat", 100000, nil),
		account("winner", 20000, map[string]int64{"NOVA": 1000}), // 120000 equity
		account("loser", 30000, map[string]int64{"NOVA": 500}),   // 80000 equity
	}

	rows := Compute(accounts, snap, initial)

	wantOrder := []string{"winner", "flat", "loser"}
	for i, id := range wantOrder {
		if rows[i].ParticipantID != id {
			t.Errorf("rows[%d] = %s, want %s", i, rows[i].ParticipantID, id)
		}
		if rows[i].Rank != i+1 {
			t.Errorf("rows[%d].Rank = %d, want %d", i, rows[i].Rank, i+1)
		}
	}

	if !rows[0].ReturnPct.Equal(decimal.NewFromInt(20)) {
		t.Errorf("winner return = %s, want 20", rows[0].ReturnPct)
	}
	if !rows[2].ReturnPct.Equal(decimal.NewFromInt(-20)) {
		t.Errorf("loser return = %s, want -20", rows[2].ReturnPct)
	}
}

func TestComputeTiesKeepRegistrationOrder(t *testing.T) {
	initial := decimal.NewFromInt(1000)
	snap := marketSnap(nil)

	accounts := []model.Account{
		account("first", 1000, nil),
		account("second", 1000, nil),
		account("third", 1000, nil),
	}

	rows := Compute(accounts, snap, initial)
	for i, id := range []string{"first", "second", "third"} {
		if rows[i].ParticipantID != id {
			t.Errorf("tied rows reordered: rows[%d] = %s, want %s", i, rows[i].ParticipantID, id)
		}
	}
}

func TestComputeMarksToCurrentPrice(t *testing.T) {
	initial := decimal.NewFromInt(1000)
	accounts := []model.Account{account("p1", 0, map[string]int64{"NOVA": 10})}

	low := Compute(accounts, marketSnap(map[string]float64{"NOVA": 50}), initial)
	high := Compute(accounts, marketSnap(map[string]float64{"NOVA": 150}), initial)

	if !low[0].Equity.Equal(decimal.NewFromInt(500)) {
		t.Errorf("equity at 50 = %s, want 500", low[0].Equity)
	}
	if !high[0].Equity.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("equity at 150 = %s, want 1500", high[0].Equity)
	}
}

func TestComputeIgnoresUnknownSymbols(t *testing.T) {
	initial := decimal.NewFromInt(1000)
	accounts := []model.Account{account("p1", 200, map[string]int64{"GONE": 10})}

	rows := Compute(accounts, marketSnap(map[string]float64{"NOVA": 100}), initial)
	if !rows[0].Equity.Equal(decimal.NewFromInt(200)) {
		t.Errorf("equity = %s, positions in unknown symbols must not count", rows[0].Equity)
	}
}

func TestComputeEmpty(t *testing.T) {
	rows := Compute(nil, marketSnap(nil), decimal.NewFromInt(1000))
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}
