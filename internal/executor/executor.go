// Package executor turns an admitted trade plan into exchange orders.
// Execution is two-phase: every sell runs before any buy, and the
// estimated sell proceeds extend the quote budget available to buys
// within the same cycle.
package executor

import (
	"context"
	"fmt"
	"strings"

	"arena/internal/decision"
	"arena/internal/gateway/exchange"
	"arena/internal/logger"
	"arena/internal/market"
	"arena/internal/memory"
	"arena/internal/pkg/symbol"
	"arena/internal/pkg/trading"
	"arena/internal/risk"
)

// minNotionalFallback applies when the venue's filters cannot be
// fetched; 5 USDT matches the common spot floor.
const minNotionalFallback = 5.0

type Config struct {
	// MaxTradeQuote caps a single buy, in quote currency.
	MaxTradeQuote float64
	// MaxPositionQuote caps the per-symbol position value.
	MaxPositionQuote float64
	// MaxAttempts bounds order submissions per intent.
	MaxAttempts int
	// MonitorOnly evaluates and logs intents without submitting.
	MonitorOnly bool
	QuoteAsset  string
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.MaxTradeQuote <= 0 {
		out.MaxTradeQuote = 20
	}
	if out.MaxPositionQuote <= 0 {
		out.MaxPositionQuote = 50
	}
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = 2
	}
	out.QuoteAsset = strings.ToUpper(strings.TrimSpace(out.QuoteAsset))
	if out.QuoteAsset == "" {
		out.QuoteAsset = "USDT"
	}
	return out
}

// Gate is the admission check run per intent before any sizing.
type Gate interface {
	AdmitBuy(symbol string, ind market.Indicators) risk.Verdict
	AdmitSell(symbol string, ind market.Indicators) risk.Verdict
}

type Engine struct {
	cfg  Config
	ex   exchange.Exchange
	gate Gate
}

func New(cfg Config, ex exchange.Exchange, gate Gate) *Engine {
	return &Engine{cfg: cfg.withDefaults(), ex: ex, gate: gate}
}

// ExecutePlan runs all sells, then all buys. Each intent's outcome is
// independent: one failure never aborts its siblings. The returned
// results preserve intent order, sells first.
func (e *Engine) ExecutePlan(ctx context.Context, plan decision.TradePlan, snap *market.Snapshot) []memory.OperationResult {
	results := make([]memory.OperationResult, 0, len(plan.Buys)+len(plan.Sells))

	budget := snap.QuoteFree
	for _, leg := range plan.Sells {
		res, proceeds := e.executeSell(ctx, leg, snap)
		results = append(results, res)
		budget += proceeds
	}
	for _, leg := range plan.Buys {
		res, spent := e.executeBuy(ctx, leg, snap, budget)
		results = append(results, res)
		budget -= spent
	}
	return results
}

func (e *Engine) executeSell(ctx context.Context, leg decision.SellLeg, snap *market.Snapshot) (memory.OperationResult, float64) {
	res := memory.OperationResult{Op: "SELL", Symbol: leg.Symbol, Amount: leg.Quantity}
	skip := func(reason string) (memory.OperationResult, float64) {
		logger.Infof("executor: skip SELL %s: %s", leg.Symbol, reason)
		res.OK = true
		res.Skipped = true
		res.Reason = reason
		return res, 0
	}

	state, priced := snap.Symbols[leg.Symbol]
	if v := e.gate.AdmitSell(leg.Symbol, state.Indicators); !v.Admit {
		return skip(v.Reason)
	}
	if !priced || state.Price <= 0 {
		return skip("no current price")
	}

	filters := e.symbolFilters(ctx, leg.Symbol)

	base := symbol.Base(leg.Symbol)
	free, err := e.ex.GetAvailableBalance(ctx, base)
	if err != nil {
		res.Reason = fmt.Sprintf("available balance lookup failed: %v", err)
		logger.Errorf("executor: SELL %s: %s", leg.Symbol, res.Reason)
		return res, 0
	}
	if free <= 0 {
		return skip(fmt.Sprintf("no free %s balance, holdings may be locked", base))
	}

	requested := leg.Quantity
	if leg.AllAvailable || requested <= 0 {
		requested = free
	}
	qty := trading.RoundToStep(trading.CapAt(requested, free), filters.StepSize)
	switch {
	case qty <= 0:
		return skip("quantity rounds to zero")
	case filters.MinQty > 0 && qty < filters.MinQty:
		return skip(fmt.Sprintf("quantity %g below minQty %g", qty, filters.MinQty))
	case qty*state.Price < filters.MinNotional:
		return skip(fmt.Sprintf("notional %.4f below minNotional %.2f", qty*state.Price, filters.MinNotional))
	}
	res.Amount = qty

	if e.cfg.MonitorOnly {
		logger.Infof("executor: monitor mode, would SELL %s quantity=%g (~%.4f %s)",
			leg.Symbol, qty, qty*state.Price, e.cfg.QuoteAsset)
		res.OK = true
		res.MonitorOnly = true
		return res, 0
	}

	logger.Infof("executor: SELL %s quantity=%g", leg.Symbol, qty)
	err = e.submitWithRetry(ctx, fmt.Sprintf("SELL %s", leg.Symbol), func() error {
		_, serr := e.ex.PlaceMarketSellByQuantity(ctx, leg.Symbol, qty)
		return serr
	})
	if err != nil {
		res.Reason = err.Error()
		logger.Errorf("executor: SELL %s failed: %v", leg.Symbol, err)
		return res, 0
	}

	proceeds := qty * state.Price
	logger.Infof("executor: SELL %s filled, estimated proceeds %.4f %s", leg.Symbol, proceeds, e.cfg.QuoteAsset)
	res.OK = true
	return res, proceeds
}

func (e *Engine) executeBuy(ctx context.Context, leg decision.BuyLeg, snap *market.Snapshot, budget float64) (memory.OperationResult, float64) {
	res := memory.OperationResult{Op: "BUY", Symbol: leg.Symbol, Amount: leg.QuoteAmount}
	skip := func(reason string) (memory.OperationResult, float64) {
		logger.Infof("executor: skip BUY %s: %s", leg.Symbol, reason)
		res.OK = true
		res.Skipped = true
		res.Reason = reason
		return res, 0
	}

	state, priced := snap.Symbols[leg.Symbol]
	if v := e.gate.AdmitBuy(leg.Symbol, state.Indicators); !v.Admit {
		return skip(v.Reason)
	}

	price := state.Price
	if !priced || price <= 0 {
		live, err := e.ex.GetPrice(ctx, leg.Symbol)
		if err != nil || live <= 0 {
			return skip("no current price")
		}
		logger.Infof("executor: BUY %s using live price fallback $%.6f", leg.Symbol, live)
		price = live
	}

	filters := e.symbolFilters(ctx, leg.Symbol)

	base := symbol.Base(leg.Symbol)
	positionValue := snap.Balances[base].Total() * price
	capacity := e.cfg.MaxPositionQuote - positionValue
	if capacity < 0 {
		capacity = 0
	}

	requested := leg.QuoteAmount
	if leg.FullBudget || requested <= 0 {
		requested = budget
	}
	amount := requested
	for _, bound := range []float64{e.cfg.MaxTradeQuote, capacity, budget} {
		if bound < amount {
			amount = bound
		}
	}
	amount = trading.RoundQuote(amount, filters.QuotePrecision)

	logger.Debugf("executor: BUY %s sizing: requested=%.4f capped=%.4f budget=%.4f position=%.4f/%.4f",
		leg.Symbol, requested, amount, budget, positionValue, e.cfg.MaxPositionQuote)
	minNotional := filters.MinNotional
	if minNotional <= 0 {
		minNotional = 1e-6
	}
	if amount < minNotional {
		return skip(fmt.Sprintf("amount %.4f below minNotional %.2f or budget exhausted", amount, filters.MinNotional))
	}
	res.Amount = amount

	if e.cfg.MonitorOnly {
		logger.Infof("executor: monitor mode, would BUY %s for %.4f %s", leg.Symbol, amount, e.cfg.QuoteAsset)
		res.OK = true
		res.MonitorOnly = true
		return res, 0
	}

	logger.Infof("executor: BUY %s for %.4f %s", leg.Symbol, amount, e.cfg.QuoteAsset)
	err := e.submitWithRetry(ctx, fmt.Sprintf("BUY %s", leg.Symbol), func() error {
		_, berr := e.ex.PlaceMarketBuyByQuote(ctx, leg.Symbol, amount)
		return berr
	})
	if err != nil {
		res.Reason = err.Error()
		logger.Errorf("executor: BUY %s failed: %v", leg.Symbol, err)
		return res, 0
	}
	res.OK = true
	return res, amount
}

// symbolFilters fetches venue trading rules, falling back to the
// stock minimum notional when the lookup fails.
func (e *Engine) symbolFilters(ctx context.Context, sym string) exchange.SymbolFilters {
	filters, err := e.ex.GetSymbolFilters(ctx, sym)
	if err != nil {
		logger.Warnf("executor: filters for %s unavailable, using defaults: %v", sym, err)
		return exchange.SymbolFilters{Symbol: sym, MinNotional: minNotionalFallback}
	}
	if filters.MinNotional <= 0 {
		filters.MinNotional = minNotionalFallback
	}
	return filters
}

// submitWithRetry attempts an order up to the configured budget.
// Clock skew triggers a time resync before the next attempt, other
// transient failures retry as-is, deterministic rejections stop.
func (e *Engine) submitWithRetry(ctx context.Context, op string, submit func() error) error {
	var lastErr error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		lastErr = submit()
		if lastErr == nil {
			return nil
		}
		if !exchange.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == e.cfg.MaxAttempts {
			break
		}
		if exchange.NeedsTimeSync(lastErr) {
			logger.Warnf("executor: %s hit clock skew, resyncing server time", op)
			if serr := e.ex.SyncTime(ctx); serr != nil {
				logger.Errorf("executor: time resync failed: %v", serr)
			}
		} else {
			logger.Warnf("executor: %s attempt %d/%d failed, retrying: %v", op, attempt, e.cfg.MaxAttempts, lastErr)
		}
	}
	return fmt.Errorf("%s: attempts exhausted: %w", op, lastErr)
}
