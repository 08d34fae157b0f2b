package binance

import (
	"strings"
	"time"
)

const maxRecvWindow = 60_000

type Config struct {
	APIKey    string
	APISecret string

	RESTBaseURL string
	HTTPTimeout time.Duration

	// RecvWindow in milliseconds for signed requests, capped at 60000.
	RecvWindow int64

	// Testnet switches the base URL to the spot testnet unless
	// RESTBaseURL is set explicitly.
	Testnet bool

	// DryRun routes orders through the validation-only endpoint.
	DryRun bool
}

func (c *Config) withDefaults() Config {
	out := *c
	out.RESTBaseURL = strings.TrimSpace(out.RESTBaseURL)
	if out.RESTBaseURL == "" {
		if out.Testnet {
			out.RESTBaseURL = "https://testnet.binance.vision"
		} else {
			out.RESTBaseURL = "https://api.binance.com"
		}
	}
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = 15 * time.Second
	}
	if out.RecvWindow <= 0 || out.RecvWindow > maxRecvWindow {
		out.RecvWindow = maxRecvWindow
	}
	return out
}
