package config

import "strings"

const (
	defaultAppEnv           = "dev"
	defaultAppLogLevel      = "info"
	defaultAppHTTPAddr      = ":9980"
	defaultRecvWindowMS     = 60_000
	defaultExchangeTimeout  = 15
	defaultCandleInterval   = "3m"
	defaultHistoryLimit     = 20
	defaultQuoteAsset       = "USDT"
	defaultAdvisorTimeout   = 120
	defaultAdvisorRetries   = 2
	defaultBuyThreshold     = 0.65
	defaultSellThreshold    = 0.65
	defaultMemoryLines      = 5
	defaultRSIBuyMax        = 65.0
	defaultRSISellMin       = 35.0
	defaultMaxVolatility    = 0.12
	defaultCooldownSeconds  = 300
	defaultTradingPolicy    = "live"
	defaultTradingMode      = "test"
	defaultMaxTradeQuote    = 20.0
	defaultMaxPositionQuote = 50.0
	defaultMaxAttempts      = 2
	defaultMemoryPath       = "data/memory.json"
	defaultMemoryMaxItems   = 10
	defaultStorePath        = "data/cycles.db"
	defaultIntervalSeconds  = 300
)

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Exchange.applyDefaults(keys)
	c.Market.applyDefaults(keys)
	c.Advisors.applyDefaults(keys)
	c.Decision.applyDefaults(keys)
	c.Risk.applyDefaults(keys)
	c.Trading.applyDefaults(keys)
	c.Memory.applyDefaults(keys)
	c.Store.applyDefaults(keys)
	c.Scheduler.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	defaultString(keys, "app.env", &a.Env, defaultAppEnv)
	defaultString(keys, "app.log_level", &a.LogLevel, defaultAppLogLevel)
	defaultString(keys, "app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr)
}

func (e *ExchangeConfig) applyDefaults(keys keySet) {
	if !keys.isSet("exchange.recv_window_ms") && e.RecvWindowMS <= 0 {
		e.RecvWindowMS = defaultRecvWindowMS
	}
	if !keys.isSet("exchange.timeout_seconds") && e.TimeoutSeconds <= 0 {
		e.TimeoutSeconds = defaultExchangeTimeout
	}
}

func (m *MarketConfig) applyDefaults(keys keySet) {
	defaultString(keys, "market.candle_interval", &m.CandleInterval, defaultCandleInterval)
	defaultString(keys, "market.quote_asset", &m.QuoteAsset, defaultQuoteAsset)
	if !keys.isSet("market.history_limit") && m.HistoryLimit <= 0 {
		m.HistoryLimit = defaultHistoryLimit
	}
}

func (a *AdvisorsConfig) applyDefaults(keys keySet) {
	if !keys.isSet("advisors.timeout_seconds") && a.TimeoutSeconds <= 0 {
		a.TimeoutSeconds = defaultAdvisorTimeout
	}
	if !keys.isSet("advisors.max_retries") && a.MaxRetries <= 0 {
		a.MaxRetries = defaultAdvisorRetries
	}
}

func (d *DecisionConfig) applyDefaults(keys keySet) {
	if !keys.isSet("decision.buy_threshold") && d.BuyThreshold <= 0 {
		d.BuyThreshold = defaultBuyThreshold
	}
	if !keys.isSet("decision.sell_threshold") && d.SellThreshold <= 0 {
		d.SellThreshold = defaultSellThreshold
	}
	if !keys.isSet("decision.memory_lines") && d.MemoryLines <= 0 {
		d.MemoryLines = defaultMemoryLines
	}
}

func (r *RiskConfig) applyDefaults(keys keySet) {
	if !keys.isSet("risk.rsi_buy_max") && r.RSIBuyMax <= 0 {
		r.RSIBuyMax = defaultRSIBuyMax
	}
	if !keys.isSet("risk.rsi_sell_min") && r.RSISellMin <= 0 {
		r.RSISellMin = defaultRSISellMin
	}
	if !keys.isSet("risk.max_volatility") && r.MaxVolatility <= 0 {
		r.MaxVolatility = defaultMaxVolatility
	}
	if !keys.isSet("risk.cooldown_seconds") && r.CooldownSeconds <= 0 {
		r.CooldownSeconds = defaultCooldownSeconds
	}
}

func (t *TradingConfig) applyDefaults(keys keySet) {
	defaultString(keys, "trading.policy", &t.Policy, defaultTradingPolicy)
	defaultString(keys, "trading.mode", &t.Mode, defaultTradingMode)
	if !keys.isSet("trading.max_trade_usdt") && t.MaxTradeQuote <= 0 {
		t.MaxTradeQuote = defaultMaxTradeQuote
	}
	if !keys.isSet("trading.max_position_usdt") && t.MaxPositionQuote <= 0 {
		t.MaxPositionQuote = defaultMaxPositionQuote
	}
	if !keys.isSet("trading.max_attempts") && t.MaxAttempts <= 0 {
		t.MaxAttempts = defaultMaxAttempts
	}
}

func (m *MemoryConfig) applyDefaults(keys keySet) {
	defaultString(keys, "memory.path", &m.Path, defaultMemoryPath)
	if !keys.isSet("memory.max_items") && m.MaxItems <= 0 {
		m.MaxItems = defaultMemoryMaxItems
	}
}

func (s *StoreConfig) applyDefaults(keys keySet) {
	defaultString(keys, "store.path", &s.Path, defaultStorePath)
}

func (s *SchedulerConfig) applyDefaults(keys keySet) {
	if !keys.isSet("scheduler.interval_seconds") && s.IntervalSeconds <= 0 {
		s.IntervalSeconds = defaultIntervalSeconds
	}
}

func defaultString(keys keySet, key string, target *string, def string) {
	if keys.isSet(key) {
		return
	}
	if strings.TrimSpace(*target) == "" {
		*target = def
	}
}
