package decision

import (
	"encoding/json"
	"strings"

	"arena/internal/logger"
	"arena/internal/pkg/jsonutil"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// textFallbackConfidence applies when a response carries no JSON but
// mentions an action keyword.
const textFallbackConfidence = 0.5

// Parse decodes one advisory response into a tagged Advice. It never
// fails: anything that does not match a known shape comes back as
// AdviceUnparseable, which downstream treats as a HOLD.
func Parse(raw string) Advice {
	out := Advice{Kind: AdviceUnparseable, Raw: raw}

	doc, ok := jsonutil.ExtractJSON(raw)
	if !ok {
		return textFallback(raw)
	}

	var v interface{}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return textFallback(raw)
	}

	if err := planSchema.Validate(v); err == nil {
		out.Kind = AdvicePlan
		out.Plan = decodePlan(doc)
		return out
	} else if verr, isValidation := err.(*jsonschema.ValidationError); isValidation {
		logger.Debugf("decision: response is not a plan shape: %v", verr)
	}

	if err := legacySchema.Validate(v); err == nil {
		out.Kind = AdviceLegacy
		out.Legacy = decodeLegacy(doc)
		return out
	}

	return textFallback(raw)
}

func decodePlan(doc string) TradePlan {
	root := gjson.Parse(doc)
	plan := TradePlan{
		Rationale:  root.Get("rationale").String(),
		Confidence: root.Get("confidence").Float(),
	}
	root.Get("buys").ForEach(func(_, leg gjson.Result) bool {
		plan.Buys = append(plan.Buys, BuyLeg{
			Symbol:      strings.ToUpper(strings.TrimSpace(leg.Get("symbol").String())),
			QuoteAmount: leg.Get("quote_usdt").Float(),
		})
		return true
	})
	root.Get("sells").ForEach(func(_, leg gjson.Result) bool {
		plan.Sells = append(plan.Sells, SellLeg{
			Symbol:   strings.ToUpper(strings.TrimSpace(leg.Get("symbol").String())),
			Quantity: leg.Get("quantity").Float(),
		})
		return true
	})
	return plan
}

func decodeLegacy(doc string) LegacyAction {
	root := gjson.Parse(doc)
	symbol := strings.ToUpper(strings.TrimSpace(root.Get("symbol").String()))
	// models sometimes spell the null symbol out
	if symbol == "NULL" || symbol == "NONE" {
		symbol = ""
	}
	return LegacyAction{
		Symbol:     symbol,
		Action:     strings.ToUpper(strings.TrimSpace(root.Get("action").String())),
		Confidence: root.Get("confidence").Float(),
		Rationale:  root.Get("rationale").String(),
	}
}

func textFallback(raw string) Advice {
	txt := strings.ToUpper(raw)
	action := ""
	switch {
	case strings.Contains(txt, "BUY"):
		action = "BUY"
	case strings.Contains(txt, "SELL"):
		action = "SELL"
	case strings.Contains(txt, "HOLD"):
		action = "HOLD"
	}
	if action == "" {
		return Advice{Kind: AdviceUnparseable, Raw: raw}
	}
	return Advice{
		Kind: AdviceLegacy,
		Legacy: LegacyAction{
			Action:     action,
			Confidence: textFallbackConfidence,
		},
		Raw: raw,
	}
}
