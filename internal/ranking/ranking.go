package ranking

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tradinglab/marketsim/internal/model"
)

// Row is one leaderboard entry.
type Row struct {
	Rank          int             `json:"rank"`
	ParticipantID string          `json:"participant_id"`
	DisplayName   string          `json:"display_name"`
	Equity        decimal.Decimal `json:"equity"`     // Cash + marked-to-market positions
	ReturnPct     decimal.Decimal `json:"return_pct"` // (Equity - initial) / initial * 100
}

var hundred = decimal.NewFromInt(100)

// Compute builds the leaderboard from accounts and the current snapshot.
// Sorted descending by return; ties keep the input (registration) order.
func Compute(accounts []model.Account, snap model.Snapshot, initialCash decimal.Decimal) []Row {
	rows := make([]Row, 0, len(accounts))

	for _, acct := range accounts {
		equity := acct.Cash
		for sym, pos := range acct.Positions {
			in, ok := snap.Instruments[sym]
			if !ok {
				continue
			}
			price := decimal.NewFromFloat(in.Price)
			equity = equity.Add(price.Mul(decimal.NewFromInt(pos.Quantity)))
		}

		var ret decimal.Decimal
		if initialCash.IsPositive() {
			ret = equity.Sub(initialCash).Div(initialCash).Mul(hundred)
		}

		rows = append(rows, Row{
			ParticipantID: acct.ID,
			DisplayName:   acct.DisplayName,
			Equity:        equity,
			ReturnPct:     ret,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ReturnPct.GreaterThan(rows[j].ReturnPct)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
