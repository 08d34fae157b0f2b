package decision

import (
	"fmt"
	"sort"
	"strings"

	"arena/internal/logger"
)

type SelectorConfig struct {
	// Source is the advisor whose plan is authoritative.
	Source        string
	BuyThreshold  float64
	SellThreshold float64
}

// SelectFinal applies the single-source policy: only the configured
// advisor's plan is ever executed, and only when its confidence
// clears the side-specific threshold. ok=false means hold this cycle.
func SelectFinal(plans map[string]TradePlan, cfg SelectorConfig) (TradePlan, bool) {
	plan, found := plans[cfg.Source]
	if !found {
		logger.Warnf("decision: no plan from authoritative source %q", cfg.Source)
		return TradePlan{}, false
	}
	if plan.IsNoop() {
		logger.Infof("decision: %s holds (rationale: %s)", cfg.Source, plan.Rationale)
		return TradePlan{}, false
	}

	threshold := requiredConfidence(plan, cfg)
	if plan.Confidence < threshold {
		logger.Infof("decision: %s plan confidence %.2f below threshold %.2f, holding",
			cfg.Source, plan.Confidence, threshold)
		return TradePlan{}, false
	}
	return plan, true
}

func requiredConfidence(plan TradePlan, cfg SelectorConfig) float64 {
	hasBuys := len(plan.Buys) > 0
	hasSells := len(plan.Sells) > 0
	switch {
	case hasBuys && hasSells:
		return max(cfg.BuyThreshold, cfg.SellThreshold)
	case hasSells:
		return cfg.SellThreshold
	default:
		return cfg.BuyThreshold
	}
}

// Agreement classifies how two advisors' plans relate.
type Agreement string

const (
	AgreementFull      Agreement = "full"
	AgreementPartial   Agreement = "partial"
	AgreementDivergent Agreement = "divergent"
)

// ConsensusReport compares two plans by symbol set. It is purely an
// observability signal: execution follows the single-source policy
// regardless of what this reports.
type ConsensusReport struct {
	Agreement   Agreement
	SharedBuys  []string
	SharedSells []string
}

func Compare(a, b TradePlan) ConsensusReport {
	buysA, buysB := symbolSet(a.BuySymbols()), symbolSet(b.BuySymbols())
	sellsA, sellsB := symbolSet(a.SellSymbols()), symbolSet(b.SellSymbols())

	report := ConsensusReport{
		SharedBuys:  intersect(buysA, buysB),
		SharedSells: intersect(sellsA, sellsB),
	}
	switch {
	case setsEqual(buysA, buysB) && setsEqual(sellsA, sellsB):
		report.Agreement = AgreementFull
	case len(report.SharedBuys) > 0 || len(report.SharedSells) > 0:
		report.Agreement = AgreementPartial
	default:
		report.Agreement = AgreementDivergent
	}
	return report
}

func (r ConsensusReport) String() string {
	switch r.Agreement {
	case AgreementFull:
		return "advisors agree on the full symbol set"
	case AgreementPartial:
		parts := []string{}
		if len(r.SharedSells) > 0 {
			parts = append(parts, fmt.Sprintf("shared sells: %s", strings.Join(r.SharedSells, ",")))
		}
		if len(r.SharedBuys) > 0 {
			parts = append(parts, fmt.Sprintf("shared buys: %s", strings.Join(r.SharedBuys, ",")))
		}
		return "partial agreement (" + strings.Join(parts, "; ") + ")"
	default:
		return "advisors diverge"
	}
}

func symbolSet(symbols []string) map[string]struct{} {
	out := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		out[s] = struct{}{}
	}
	return out
}

func intersect(a, b map[string]struct{}) []string {
	var out []string
	for s := range a {
		if _, ok := b[s]; ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for s := range a {
		if _, ok := b[s]; !ok {
			return false
		}
	}
	return true
}
