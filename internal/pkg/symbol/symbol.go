// Package symbol normalizes trading pair identifiers into the
// concatenated exchange form (BTCUSDT) and splits them back into
// base and quote assets.
package symbol

import "strings"

// Pair is a parsed trading pair.
type Pair struct {
	Base  string
	Quote string
}

// Exchange returns the concatenated exchange form, e.g. BTCUSDT.
func (p Pair) Exchange() string {
	if p.Base == "" || p.Quote == "" {
		return ""
	}
	return p.Base + p.Quote
}

// quoteAssets lists recognized quote currencies, longest-match first.
var quoteAssets = []string{"USDT", "BUSD", "USDC", "TUSD", "FDUSD", "BTC", "ETH", "BNB"}

// Parse accepts BTCUSDT, BTC/USDT, btc-usdt and similar spellings.
// It returns a zero Pair when the base or quote cannot be determined.
func Parse(s string) Pair {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Pair{}
	}

	for _, sep := range []string{"/", "-", "_"} {
		if parts := strings.SplitN(s, sep, 2); len(parts) == 2 {
			return Pair{
				Base:  strings.TrimSpace(parts[0]),
				Quote: strings.TrimSpace(parts[1]),
			}
		}
	}

	for _, quote := range quoteAssets {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return Pair{
				Base:  s[:len(s)-len(quote)],
				Quote: quote,
			}
		}
	}

	return Pair{}
}

// Normalize returns the canonical exchange form, or "" when s is not
// a recognizable pair.
func Normalize(s string) string {
	return Parse(s).Exchange()
}

// Base returns the base asset of a pair, e.g. BTC for BTCUSDT.
// Unparseable input comes back trimmed and uppercased as-is so
// callers can still render it in logs.
func Base(s string) string {
	if p := Parse(s); p.Base != "" {
		return p.Base
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

func IsValid(s string) bool {
	p := Parse(s)
	return p.Base != "" && p.Quote != ""
}
