package search

import (
	"slices"
	"strings"
)

const (
	ProviderValyu      = "valyu"
	ProviderExa        = "exa"
	ProviderDuckDuckGo = "ddg"
	DefaultSearchCount = 10
	MaxSearchCount     = 50
	DefaultTimeoutSecs = 30
)

var DefaultFallbackOrder = []string{
	ProviderValyu,
	ProviderExa,
	ProviderDuckDuckGo,
}

// Config controls search provider selection and credentials.
type Config struct {
	Provider  string   `yaml:"provider"`
	Fallbacks []string `yaml:"fallbacks"`

	Valyu ValyuConfig `yaml:"valyu"`
	Exa   ExaConfig   `yaml:"exa"`
	DDG   DDGConfig   `yaml:"ddg"`
}

type ValyuConfig struct {
	Enabled            *bool   `yaml:"enabled"`
	BaseURL            string  `yaml:"base_url"`
	APIKey             string  `yaml:"api_key"`
	SearchType         string  `yaml:"search_type"`
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	TimeoutSecs        int     `yaml:"timeout_seconds"`
}

type ExaConfig struct {
	Enabled           *bool  `yaml:"enabled"`
	BaseURL           string `yaml:"base_url"`
	APIKey            string `yaml:"api_key"`
	Type              string `yaml:"type"`
	TextMaxCharacters int    `yaml:"text_max_chars"`
	TimeoutSecs       int    `yaml:"timeout_seconds"`
}

type DDGConfig struct {
	Enabled     *bool `yaml:"enabled"`
	TimeoutSecs int   `yaml:"timeout_seconds"`
}

func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if strings.TrimSpace(c.Provider) == "" {
		c.Provider = ProviderValyu
	}
	if len(c.Fallbacks) == 0 {
		c.Fallbacks = slices.Clone(DefaultFallbackOrder)
	}
	c.Valyu = c.Valyu.withDefaults()
	c.Exa = c.Exa.withDefaults()
	c.DDG = c.DDG.withDefaults()
	return c
}

func (c ValyuConfig) withDefaults() ValyuConfig {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.valyu.network/v1"
	}
	if c.SearchType == "" {
		c.SearchType = "all"
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	return c
}

func (c ExaConfig) withDefaults() ExaConfig {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.exa.ai"
	}
	if c.Type == "" {
		c.Type = "auto"
	}
	if c.TextMaxCharacters <= 0 {
		c.TextMaxCharacters = 5_000
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	return c
}

func (c DDGConfig) withDefaults() DDGConfig {
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 10
	}
	return c
}

func isEnabled(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}
