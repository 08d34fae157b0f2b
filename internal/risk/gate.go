// Package risk admits or rejects candidate trades using technical
// indicators and a per-symbol cooldown sourced from the memory log.
package risk

import (
	"fmt"
	"time"

	"arena/internal/logger"
	"arena/internal/market"
	"arena/internal/memory"
)

type Config struct {
	// RSIBuyMax blocks buys into overbought symbols.
	RSIBuyMax float64
	// RSISellMin blocks sells out of oversold symbols.
	RSISellMin float64
	// MaxVolatility blocks both sides in turbulent markets.
	MaxVolatility float64
	// Cooldown is the minimum gap between successful trades on the
	// same symbol.
	Cooldown time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.RSIBuyMax <= 0 {
		out.RSIBuyMax = 65
	}
	if out.RSISellMin <= 0 {
		out.RSISellMin = 35
	}
	if out.MaxVolatility <= 0 {
		out.MaxVolatility = 0.12
	}
	if out.Cooldown <= 0 {
		out.Cooldown = 5 * time.Minute
	}
	return out
}

// Verdict is one admission decision with the rule and measured value
// that produced it, so logs alone explain every skipped trade.
type Verdict struct {
	Admit  bool
	Reason string
}

var admitted = Verdict{Admit: true}

type Gate struct {
	cfg Config
	log *memory.Log
	now func() time.Time
}

func NewGate(cfg Config, log *memory.Log) *Gate {
	return &Gate{cfg: cfg.withDefaults(), log: log, now: time.Now}
}

// AdmitBuy checks the buy-side rules for one symbol. Absent
// indicators never veto; only measured breaches do.
func (g *Gate) AdmitBuy(symbol string, ind market.Indicators) Verdict {
	if ind.RSI != nil && *ind.RSI > g.cfg.RSIBuyMax {
		return g.reject(symbol, "BUY", fmt.Sprintf("rsi %.2f above buy limit %.2f", *ind.RSI, g.cfg.RSIBuyMax))
	}
	return g.admitShared(symbol, "BUY", ind)
}

// AdmitSell checks the sell-side rules for one symbol.
func (g *Gate) AdmitSell(symbol string, ind market.Indicators) Verdict {
	if ind.RSI != nil && *ind.RSI < g.cfg.RSISellMin {
		return g.reject(symbol, "SELL", fmt.Sprintf("rsi %.2f below sell floor %.2f", *ind.RSI, g.cfg.RSISellMin))
	}
	return g.admitShared(symbol, "SELL", ind)
}

func (g *Gate) admitShared(symbol, side string, ind market.Indicators) Verdict {
	if ind.Volatility != nil && *ind.Volatility > g.cfg.MaxVolatility {
		return g.reject(symbol, side, fmt.Sprintf("volatility %.2f%% above limit %.2f%%",
			*ind.Volatility*100, g.cfg.MaxVolatility*100))
	}
	if last, found := g.lastTrade(symbol); found {
		if elapsed := g.now().Sub(last); elapsed < g.cfg.Cooldown {
			return g.reject(symbol, side, fmt.Sprintf("cooldown, last trade %s ago", elapsed.Round(time.Second)))
		}
	}
	return admitted
}

func (g *Gate) reject(symbol, side, reason string) Verdict {
	logger.Infof("risk: rejecting %s %s: %s", side, symbol, reason)
	return Verdict{Reason: reason}
}

// lastTrade finds the most recent successful, non-monitor trade on a
// symbol. Skipped intents and dry-run entries do not arm a cooldown.
func (g *Gate) lastTrade(symbol string) (time.Time, bool) {
	if g.log == nil {
		return time.Time{}, false
	}
	records := g.log.ReadAll()
	for i := len(records) - 1; i >= 0; i-- {
		for _, op := range records[i].Results {
			if op.Symbol == symbol && op.OK && !op.Skipped && !op.MonitorOnly {
				return records[i].Timestamp, true
			}
		}
	}
	return time.Time{}, false
}
