package provider

import (
	"fmt"
	"strings"
	"time"

	"arena/internal/logger"
)

type ModelCfg struct {
	ID         string
	Provider   string
	APIURL     string
	APIKey     string
	Model      string
	Enabled    bool
	ExpectJSON bool
	Headers    map[string]string
}

// BuildProviders turns model configs into callable providers,
// skipping disabled entries and generating IDs when missing.
func BuildProviders(models []ModelCfg, timeout time.Duration, maxRetries int) []ModelProvider {
	out := make([]ModelProvider, 0, len(models))
	for _, m := range models {
		if !m.Enabled {
			continue
		}
		id := strings.TrimSpace(m.ID)
		if id == "" {
			base := strings.TrimSpace(m.Provider)
			if base == "" {
				base = "provider"
			}
			if model := strings.TrimSpace(m.Model); model != "" {
				id = fmt.Sprintf("%s:%s", base, model)
			} else {
				id = base
			}
			logger.Warnf("advisors: model id missing for %q, generated %s", m.Provider, id)
		}
		client := &OpenAIChatClient{
			BaseURL:      m.APIURL,
			APIKey:       m.APIKey,
			Model:        m.Model,
			MaxRetries:   maxRetries,
			ExtraHeaders: m.Headers,
		}
		if timeout > 0 {
			client.Timeout = timeout
		}
		out = append(out, NewOpenAIModelProvider(id, true, m.ExpectJSON, client))
	}
	return out
}
