// Package decision turns advisory model output into an executable
// trade plan: parse the untrusted response, sanitize it against known
// prices, then pick one authoritative plan across advisors.
package decision

// BuyLeg sizes a buy in quote currency. FullBudget marks a legacy
// single-action BUY whose amount is resolved from the remaining
// budget and position caps at execution time.
type BuyLeg struct {
	Symbol      string  `json:"symbol"`
	QuoteAmount float64 `json:"quote_usdt"`
	FullBudget  bool    `json:"-"`
}

// SellLeg sizes a sell in base asset quantity. AllAvailable marks a
// legacy single-action SELL that liquidates the free balance.
type SellLeg struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	AllAvailable bool    `json:"-"`
}

// TradePlan is the canonical sanitized decision. An empty plan is a
// valid HOLD.
type TradePlan struct {
	Buys       []BuyLeg  `json:"buys"`
	Sells      []SellLeg `json:"sells"`
	Rationale  string    `json:"rationale"`
	Confidence float64   `json:"confidence"`
}

func (p TradePlan) IsNoop() bool {
	return len(p.Buys) == 0 && len(p.Sells) == 0
}

// BuySymbols returns the buy-side symbol set in leg order.
func (p TradePlan) BuySymbols() []string {
	out := make([]string, 0, len(p.Buys))
	for _, b := range p.Buys {
		out = append(out, b.Symbol)
	}
	return out
}

func (p TradePlan) SellSymbols() []string {
	out := make([]string, 0, len(p.Sells))
	for _, s := range p.Sells {
		out = append(out, s.Symbol)
	}
	return out
}

// AdviceKind tags what shape an advisory response decoded into.
type AdviceKind string

const (
	AdvicePlan        AdviceKind = "plan"
	AdviceLegacy      AdviceKind = "legacy"
	AdviceUnparseable AdviceKind = "unparseable"
)

// LegacyAction is the single symbol/action shape older prompts used.
type LegacyAction struct {
	Symbol     string
	Action     string
	Confidence float64
	Rationale  string
}

// Advice is the tagged decode result for one advisor response. Only
// the field matching Kind is meaningful.
type Advice struct {
	Kind   AdviceKind
	Plan   TradePlan
	Legacy LegacyAction
	Raw    string
}
