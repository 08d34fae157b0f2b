package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if len(c.Market.Symbols) == 0 {
		return fmt.Errorf("market.symbols must list at least one trading pair")
	}
	for i, s := range c.Market.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("market.symbols[%d] is empty", i)
		}
	}
	if c.Decision.BuyThreshold < 0 || c.Decision.BuyThreshold > 1 {
		return fmt.Errorf("decision.buy_threshold %.2f out of range [0,1]", c.Decision.BuyThreshold)
	}
	if c.Decision.SellThreshold < 0 || c.Decision.SellThreshold > 1 {
		return fmt.Errorf("decision.sell_threshold %.2f out of range [0,1]", c.Decision.SellThreshold)
	}

	enabled := 0
	ids := make(map[string]struct{}, len(c.Advisors.Models))
	for i, m := range c.Advisors.Models {
		if !m.Enabled {
			continue
		}
		enabled++
		if strings.TrimSpace(m.Model) == "" {
			return fmt.Errorf("advisors.models[%d]: model name required", i)
		}
		if strings.TrimSpace(m.APIURL) == "" {
			return fmt.Errorf("advisors.models[%d] (%s): api_url required", i, m.Model)
		}
		id := m.ID
		if id == "" {
			id = m.Provider + ":" + m.Model
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("advisors.models: duplicate id %q", id)
		}
		ids[id] = struct{}{}
	}
	if enabled == 0 {
		return fmt.Errorf("advisors.models: at least one enabled model required")
	}

	if strings.TrimSpace(c.Decision.Source) == "" {
		return fmt.Errorf("decision.source must name an advisor model id")
	}
	if _, ok := ids[c.Decision.Source]; !ok {
		return fmt.Errorf("decision.source %q does not match any enabled advisor", c.Decision.Source)
	}

	switch p := strings.ToLower(c.Trading.Policy); p {
	case "live", "monitor":
	default:
		return fmt.Errorf("trading.policy %q must be live or monitor", c.Trading.Policy)
	}
	switch m := strings.ToLower(c.Trading.Mode); m {
	case "live", "test":
	default:
		return fmt.Errorf("trading.mode %q must be live or test", c.Trading.Mode)
	}
	if c.Trading.MaxTradeQuote <= 0 {
		return fmt.Errorf("trading.max_trade_usdt must be positive")
	}
	if c.Trading.MaxPositionQuote <= 0 {
		return fmt.Errorf("trading.max_position_usdt must be positive")
	}
	if c.Trading.MaxTradeQuote > c.Trading.MaxPositionQuote {
		return fmt.Errorf("trading.max_trade_usdt %.2f exceeds max_position_usdt %.2f",
			c.Trading.MaxTradeQuote, c.Trading.MaxPositionQuote)
	}
	if c.Trading.MaxAttempts < 1 {
		return fmt.Errorf("trading.max_attempts must be at least 1")
	}

	if c.Risk.RSIBuyMax < 0 || c.Risk.RSIBuyMax > 100 {
		return fmt.Errorf("risk.rsi_buy_max %.1f out of range [0,100]", c.Risk.RSIBuyMax)
	}
	if c.Risk.RSISellMin < 0 || c.Risk.RSISellMin > 100 {
		return fmt.Errorf("risk.rsi_sell_min %.1f out of range [0,100]", c.Risk.RSISellMin)
	}
	if c.Memory.Enabled && strings.TrimSpace(c.Memory.Path) == "" {
		return fmt.Errorf("memory.path required when memory is enabled")
	}
	if c.Store.Enabled && strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path required when the cycle store is enabled")
	}
	return nil
}
