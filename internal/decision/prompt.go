package decision

import (
	"fmt"
	"sort"
	"strings"
)

const systemPrompt = "You are a cryptocurrency spot trading advisor. " +
	"Given current prices, recent history and account holdings, propose an " +
	"executable portfolio adjustment that improves risk-adjusted return."

// PromptInput carries everything the advisory prompt renders. Recent
// activity lines are pre-formatted by the caller so this package
// stays independent of the log storage.
type PromptInput struct {
	Prices           map[string]float64
	History          map[string][]float64
	Balances         map[string]float64
	QuoteFree        float64
	MaxTradeQuote    float64
	MaxPositionQuote float64
	MinNotional      float64
	MinConfidence    float64
	RecentActivity   []string
}

// BuildPrompt renders the system and user halves of the advisory
// request. The user half pins down the exact JSON contract so the
// parser has a fighting chance.
func BuildPrompt(in PromptInput) (string, string) {
	var b strings.Builder

	minNotional := in.MinNotional
	if minNotional <= 0 {
		minNotional = 5
	}

	b.WriteString("Input data:\n")
	b.WriteString("- Current prices (USDT):\n")
	for _, sym := range sortedSymbols(in.Prices) {
		fmt.Fprintf(&b, "  - %s: $%.4f\n", sym, in.Prices[sym])
	}

	if len(in.History) > 0 {
		b.WriteString("- Recent close history (oldest first):\n")
		syms := make([]string, 0, len(in.History))
		for s := range in.History {
			syms = append(syms, s)
		}
		sort.Strings(syms)
		for _, sym := range syms {
			series := in.History[sym]
			if len(series) == 0 {
				fmt.Fprintf(&b, "  - %s: history unavailable\n", sym)
				continue
			}
			fmt.Fprintf(&b, "  - %s: [%s] (%d points)%s\n",
				sym, previewSeries(series, 8), len(series), seriesChange(series))
		}
	}

	b.WriteString("- Account holdings:\n")
	for _, asset := range sortedSymbols(in.Balances) {
		fmt.Fprintf(&b, "  - %s: %g\n", asset, in.Balances[asset])
	}
	fmt.Fprintf(&b, "- USDT available for buys: %.4f\n", in.QuoteFree)
	fmt.Fprintf(&b, "- Risk limits: per-buy <= %.2f USDT, per-symbol position <= %.2f USDT\n",
		in.MaxTradeQuote, in.MaxPositionQuote)
	fmt.Fprintf(&b, "- Typical exchange minimum notional: %.2f USDT\n", minNotional)

	if len(in.RecentActivity) > 0 {
		b.WriteString("\nRecent activity:\n")
		for _, line := range in.RecentActivity {
			b.WriteString("- " + line + "\n")
		}
	}

	b.WriteString("\nRespond with exactly this JSON, no other text or code fences:\n")
	b.WriteString(`{
  "buys": [ { "symbol": "<BASE>USDT", "quote_usdt": <number> } ],
  "sells": [ { "symbol": "<BASE>USDT", "quantity": <number> } ],
  "rationale": "<short reason>",
  "confidence": <0.0-1.0>
}` + "\n")

	b.WriteString("\nRules:\n")
	b.WriteString("- Only use USDT pairs listed under current prices.\n")
	b.WriteString("- Use empty arrays when no buys or sells are warranted.\n")
	fmt.Fprintf(&b, "- Each quote_usdt must be at least %.2f and never exceed the available USDT plus estimated sell proceeds.\n", minNotional)
	b.WriteString("- Account for ~0.1%% trading fees: pad buy amounts up and trim sell quantities down so filters still pass after fees.\n")
	b.WriteString("- Never put the same symbol in both buys and sells.\n")
	fmt.Fprintf(&b, "- If confidence is below %.2f or signals conflict, return empty buys and sells.\n", in.MinConfidence)
	b.WriteString("- The rationale must reference the supplied data, not generic market commentary.\n")

	return systemPrompt, b.String()
}

func sortedSymbols(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func previewSeries(series []float64, n int) string {
	if len(series) < n {
		n = len(series)
	}
	parts := make([]string, 0, n)
	for _, p := range series[:n] {
		parts = append(parts, fmt.Sprintf("%.2f", p))
	}
	return strings.Join(parts, ", ")
}

func seriesChange(series []float64) string {
	if len(series) < 2 || series[0] == 0 {
		return ""
	}
	change := (series[len(series)-1] - series[0]) / series[0]
	return fmt.Sprintf(" | change %.2f%%", change*100)
}
