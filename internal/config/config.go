// Package config loads and validates the YAML configuration. Secrets
// may be written as ${ENV_NAME} references and are expanded from the
// environment at load time.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}

	setKeys := make(keySet)
	flattenConfigKeys("", v.AllSettings(), setKeys)
	cfg.applyDefaults(setKeys)
	cfg.expandSecrets()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func flattenConfigKeys(prefix string, node any, dest keySet) {
	switch val := node.(type) {
	case map[string]any:
		for k, v := range val {
			next := strings.ToLower(strings.TrimSpace(k))
			if next == "" {
				continue
			}
			if prefix != "" {
				next = prefix + "." + next
			}
			dest[next] = struct{}{}
			flattenConfigKeys(next, v, dest)
		}
	}
}

// expandSecrets resolves ${ENV} references in credential fields so
// keys never have to live in the config file itself.
func (c *Config) expandSecrets() {
	c.Exchange.APIKey = expandEnv(c.Exchange.APIKey)
	c.Exchange.APISecret = expandEnv(c.Exchange.APISecret)
	for i := range c.Advisors.Models {
		c.Advisors.Models[i].APIKey = expandEnv(c.Advisors.Models[i].APIKey)
	}
}

func expandEnv(val string) string {
	val = strings.TrimSpace(val)
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}"))
	}
	return val
}
