package model

import "fmt"

// TargetKind discriminates the news target variant.
type TargetKind string

const (
	TargetKindMarket   TargetKind = "market"
	TargetKindIndustry TargetKind = "industry"
	TargetKindSymbol   TargetKind = "symbol"
)

// Target is the resolved scope of a news event: the whole market, one
// industry, or one symbol. Resolution happens once at injection time, never
// by string matching per tick.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id,omitempty"` // Industry or symbol; empty for market-wide
}

// MarketTarget returns a market-wide target.
func MarketTarget() Target {
	return Target{Kind: TargetKindMarket}
}

// IndustryTarget returns a target scoped to one industry.
func IndustryTarget(ind Industry) Target {
	return Target{Kind: TargetKindIndustry, ID: string(ind)}
}

// SymbolTarget returns a target scoped to one instrument.
func SymbolTarget(symbol string) Target {
	return Target{Kind: TargetKindSymbol, ID: symbol}
}

// Matches reports whether the target applies to the given instrument.
func (t Target) Matches(in Instrument) bool {
	switch t.Kind {
	case TargetKindMarket:
		return true
	case TargetKindIndustry:
		return t.ID == string(in.Industry)
	case TargetKindSymbol:
		return t.ID == in.Symbol
	default:
		return false
	}
}

func (t Target) String() string {
	if t.Kind == TargetKindMarket {
		return "market"
	}
	return fmt.Sprintf("%s:%s", t.Kind, t.ID)
}
