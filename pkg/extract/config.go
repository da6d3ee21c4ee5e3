package extract

import (
	"slices"
	"strings"
)

const (
	ProviderValyu      = "valyu"
	ProviderExa        = "exa"
	ProviderDirect     = "direct"
	BatchSize          = 10
	DefaultTimeoutSecs = 60
)

var DefaultFallbackOrder = []string{
	ProviderValyu,
	ProviderExa,
	ProviderDirect,
}

// ResponseLength selects how much content the provider returns per URL.
type ResponseLength string

const (
	LengthShort  ResponseLength = "short"  // ~25k characters
	LengthMedium ResponseLength = "medium" // ~50k characters
	LengthLarge  ResponseLength = "large"  // ~100k characters
	LengthMax    ResponseLength = "max"
)

// CharBudget returns the approximate character budget for the length, or 0
// for unlimited.
func (l ResponseLength) CharBudget() int {
	switch l {
	case LengthShort:
		return 25_000
	case LengthMedium:
		return 50_000
	case LengthLarge:
		return 100_000
	default:
		return 0
	}
}

// ExtractEffort selects the provider's processing effort level.
type ExtractEffort string

const (
	EffortAuto   ExtractEffort = "auto"
	EffortNormal ExtractEffort = "normal"
	EffortHigh   ExtractEffort = "high"
)

// FailurePolicy decides what happens when a whole batch fails. The zero
// value continues with the next batch.
type FailurePolicy int

const (
	ContinueOnFailure FailurePolicy = iota
	PropagateFailure
)

// Config controls extraction provider selection, credentials, and tuning.
type Config struct {
	Provider  string   `yaml:"provider"`
	Fallbacks []string `yaml:"fallbacks"`

	ResponseLength    ResponseLength `yaml:"response_length"`
	ExtractEffort     ExtractEffort  `yaml:"extract_effort"`
	ContinueOnFailure *bool          `yaml:"continue_on_failure"`
	MaxDocTokens      int            `yaml:"max_doc_tokens"`
	TokenizerModel    string         `yaml:"tokenizer_model"`

	Valyu  ValyuConfig  `yaml:"valyu"`
	Exa    ExaConfig    `yaml:"exa"`
	Direct DirectConfig `yaml:"direct"`
}

type ValyuConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

type ExaConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

type DirectConfig struct {
	Enabled      *bool  `yaml:"enabled"`
	TimeoutSecs  int    `yaml:"timeout_seconds"`
	UserAgent    string `yaml:"user_agent"`
	MaxChars     int    `yaml:"max_chars"`
	MaxRedirects int    `yaml:"max_redirects"`
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
	if c.ResponseLength == "" {
		c.ResponseLength = LengthMax
	}
	if c.ExtractEffort == "" {
		c.ExtractEffort = EffortAuto
	}
	if strings.TrimSpace(c.TokenizerModel) == "" {
		c.TokenizerModel = "gpt-4o"
	}
	c.Valyu = c.Valyu.withDefaults()
	c.Exa = c.Exa.withDefaults()
	c.Direct = c.Direct.withDefaults()
	return c
}

func (c ValyuConfig) withDefaults() ValyuConfig {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.valyu.network/v1"
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
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	return c
}

func (c DirectConfig) withDefaults() DirectConfig {
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 30
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	}
	if c.MaxChars <= 0 {
		c.MaxChars = 50_000
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 3
	}
	return c
}

func isEnabled(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}
