package decision

import (
	"strings"

	"arena/internal/logger"
)

// Sanitize reduces untrusted advice to a plan that only references
// symbols with a known positive price, with positive amounts, no
// duplicates and no symbol on both sides. On any internal panic it
// returns the conservative empty plan rather than a partial one.
func Sanitize(advice Advice, prices map[string]float64) (plan TradePlan) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("decision: sanitize panic, falling back to hold: %v", r)
			plan = TradePlan{Rationale: plan.Rationale}
		}
	}()

	switch advice.Kind {
	case AdvicePlan:
		return sanitizePlan(advice.Plan, prices)
	case AdviceLegacy:
		return normalizeLegacy(advice.Legacy, prices)
	default:
		return TradePlan{}
	}
}

func sanitizePlan(in TradePlan, prices map[string]float64) TradePlan {
	out := TradePlan{
		Rationale:  in.Rationale,
		Confidence: in.Confidence,
	}

	seenBuy := make(map[string]struct{})
	for _, leg := range in.Buys {
		sym := strings.ToUpper(strings.TrimSpace(leg.Symbol))
		if !validSymbol(sym, prices) {
			logger.Debugf("decision: dropping buy %q, unknown symbol or no price", leg.Symbol)
			continue
		}
		if leg.QuoteAmount <= 0 && !leg.FullBudget {
			logger.Debugf("decision: dropping buy %s, non-positive amount %v", sym, leg.QuoteAmount)
			continue
		}
		if _, dup := seenBuy[sym]; dup {
			continue
		}
		seenBuy[sym] = struct{}{}
		leg.Symbol = sym
		out.Buys = append(out.Buys, leg)
	}

	seenSell := make(map[string]struct{})
	for _, leg := range in.Sells {
		sym := strings.ToUpper(strings.TrimSpace(leg.Symbol))
		if !validSymbol(sym, prices) {
			logger.Debugf("decision: dropping sell %q, unknown symbol or no price", leg.Symbol)
			continue
		}
		if leg.Quantity <= 0 && !leg.AllAvailable {
			logger.Debugf("decision: dropping sell %s, non-positive quantity %v", sym, leg.Quantity)
			continue
		}
		if _, dup := seenSell[sym]; dup {
			continue
		}
		seenSell[sym] = struct{}{}
		leg.Symbol = sym
		out.Sells = append(out.Sells, leg)
	}

	// a symbol on both sides is a contradiction: drop both, never
	// guess which side was meant
	conflicts := make(map[string]struct{})
	for sym := range seenBuy {
		if _, both := seenSell[sym]; both {
			conflicts[sym] = struct{}{}
			logger.Warnf("decision: %s appears in buys and sells, dropping both legs", sym)
		}
	}
	if len(conflicts) > 0 {
		out.Buys = filterBuys(out.Buys, conflicts)
		out.Sells = filterSells(out.Sells, conflicts)
	}
	return out
}

// normalizeLegacy maps the single symbol/action shape onto a plan.
// BUY sizes from the remaining budget, SELL liquidates the free
// balance; HOLD and anything unrecognizable become the empty plan.
func normalizeLegacy(in LegacyAction, prices map[string]float64) TradePlan {
	out := TradePlan{
		Rationale:  in.Rationale,
		Confidence: in.Confidence,
	}

	action := strings.ToUpper(strings.TrimSpace(in.Action))
	sym := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if !validSymbol(sym, prices) {
		sym = ""
	}
	if sym == "" {
		return out
	}

	switch action {
	case "BUY":
		out.Buys = []BuyLeg{{Symbol: sym, FullBudget: true}}
	case "SELL":
		out.Sells = []SellLeg{{Symbol: sym, AllAvailable: true}}
	}
	return out
}

func validSymbol(sym string, prices map[string]float64) bool {
	return sym != "" && prices[sym] > 0
}

func filterBuys(legs []BuyLeg, drop map[string]struct{}) []BuyLeg {
	out := legs[:0]
	for _, leg := range legs {
		if _, bad := drop[leg.Symbol]; !bad {
			out = append(out, leg)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func filterSells(legs []SellLeg, drop map[string]struct{}) []SellLeg {
	out := legs[:0]
	for _, leg := range legs {
		if _, bad := drop[leg.Symbol]; !bad {
			out = append(out, leg)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
