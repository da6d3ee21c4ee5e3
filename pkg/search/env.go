package search

import (
	"os"
	"strings"

	"github.com/beeper/web-retrieval/pkg/shared/stringutil"
)

// ConfigFromEnv builds a search config using environment variables.
func ConfigFromEnv() *Config {
	cfg := &Config{}

	if provider := strings.TrimSpace(os.Getenv("SEARCH_PROVIDER")); provider != "" {
		cfg.Provider = provider
	}
	if fallbacks := strings.TrimSpace(os.Getenv("SEARCH_FALLBACKS")); fallbacks != "" {
		cfg.Fallbacks = stringutil.SplitCSV(fallbacks)
	}

	cfg.Valyu.APIKey = stringutil.EnvOr(cfg.Valyu.APIKey, os.Getenv("VALYU_API_KEY"))
	cfg.Valyu.BaseURL = stringutil.EnvOr(cfg.Valyu.BaseURL, os.Getenv("VALYU_BASE_URL"))
	cfg.Valyu.SearchType = stringutil.EnvOr(cfg.Valyu.SearchType, os.Getenv("VALYU_SEARCH_TYPE"))

	cfg.Exa.APIKey = stringutil.EnvOr(cfg.Exa.APIKey, os.Getenv("EXA_API_KEY"))
	cfg.Exa.BaseURL = stringutil.EnvOr(cfg.Exa.BaseURL, os.Getenv("EXA_BASE_URL"))

	return cfg.WithDefaults()
}

// ApplyEnvDefaults fills empty config fields from environment variables.
func ApplyEnvDefaults(cfg *Config) *Config {
	if cfg == nil {
		return ConfigFromEnv()
	}
	providerSet := strings.TrimSpace(cfg.Provider) != ""
	current := cfg.WithDefaults()
	envCfg := ConfigFromEnv()

	if len(current.Fallbacks) == 0 {
		current.Fallbacks = envCfg.Fallbacks
	}
	if current.Valyu.APIKey == "" {
		current.Valyu.APIKey = envCfg.Valyu.APIKey
	}
	if current.Valyu.BaseURL == "" {
		current.Valyu.BaseURL = envCfg.Valyu.BaseURL
	}
	if current.Exa.APIKey == "" {
		current.Exa.APIKey = envCfg.Exa.APIKey
	}
	if current.Exa.BaseURL == "" {
		current.Exa.BaseURL = envCfg.Exa.BaseURL
	}

	if !providerSet && strings.TrimSpace(current.Valyu.APIKey) != "" {
		current.Provider = ProviderValyu
	}

	return current
}
