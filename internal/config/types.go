package config

import "strings"

// Config is the top-level configuration carrier.
type Config struct {
	App       AppConfig       `toml:"app"`
	Exchange  ExchangeConfig  `toml:"exchange"`
	Market    MarketConfig    `toml:"market"`
	Advisors  AdvisorsConfig  `toml:"advisors"`
	Decision  DecisionConfig  `toml:"decision"`
	Risk      RiskConfig      `toml:"risk"`
	Trading   TradingConfig   `toml:"trading"`
	Memory    MemoryConfig    `toml:"memory"`
	Store     StoreConfig     `toml:"store"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
	HTTPAddr string `toml:"http_addr"`
}

type ExchangeConfig struct {
	APIKey         string `toml:"api_key"`
	APISecret      string `toml:"api_secret"`
	RESTBaseURL    string `toml:"rest_base_url"`
	Testnet        bool   `toml:"testnet"`
	RecvWindowMS   int64  `toml:"recv_window_ms"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type MarketConfig struct {
	Symbols        []string `toml:"symbols"`
	CandleInterval string   `toml:"candle_interval"`
	HistoryLimit   int      `toml:"history_limit"`
	QuoteAsset     string   `toml:"quote_asset"`
}

type AdvisorsConfig struct {
	Models         []ModelConfig `toml:"models"`
	TimeoutSeconds int           `toml:"timeout_seconds"`
	MaxRetries     int           `toml:"max_retries"`
}

type ModelConfig struct {
	ID         string            `toml:"id"`
	Provider   string            `toml:"provider"`
	APIURL     string            `toml:"api_url"`
	APIKey     string            `toml:"api_key"`
	Model      string            `toml:"model"`
	Enabled    bool              `toml:"enabled"`
	ExpectJSON bool              `toml:"expect_json"`
	Headers    map[string]string `toml:"headers"`
}

type DecisionConfig struct {
	// Source is the advisor ID whose plan is authoritative.
	Source        string  `toml:"source"`
	BuyThreshold  float64 `toml:"buy_threshold"`
	SellThreshold float64 `toml:"sell_threshold"`
	MemoryLines   int     `toml:"memory_lines"`
}

type RiskConfig struct {
	RSIBuyMax       float64 `toml:"rsi_buy_max"`
	RSISellMin      float64 `toml:"rsi_sell_min"`
	MaxVolatility   float64 `toml:"max_volatility"`
	CooldownSeconds int     `toml:"cooldown_seconds"`
}

type TradingConfig struct {
	// Policy is "live" or "monitor"; monitor evaluates without
	// submitting orders.
	Policy string `toml:"policy"`
	// Mode is "live" or "test"; test routes through the venue's
	// validation endpoint.
	Mode             string  `toml:"mode"`
	MaxTradeQuote    float64 `toml:"max_trade_usdt"`
	MaxPositionQuote float64 `toml:"max_position_usdt"`
	MaxAttempts      int     `toml:"max_attempts"`
}

func (t TradingConfig) MonitorOnly() bool { return strings.EqualFold(t.Policy, "monitor") }
func (t TradingConfig) TestOrders() bool  { return !strings.EqualFold(t.Mode, "live") }

type MemoryConfig struct {
	Enabled  bool   `toml:"enabled"`
	Path     string `toml:"path"`
	MaxItems int    `toml:"max_items"`
}

type StoreConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type SchedulerConfig struct {
	IntervalSeconds int  `toml:"interval_seconds"`
	RunOnce         bool `toml:"run_once"`
}

// keySet tracks field paths the config file set explicitly, so
// defaults never clobber an intentional zero value.
type keySet map[string]struct{}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	_, ok := k[strings.ToLower(strings.TrimSpace(path))]
	return ok
}
