// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Defaults applied by ClientConfig.WithDefaults.
const (
	DefaultBaseURL           = "https://alphafold.ebi.ac.uk/api"
	DefaultTimeout           = 60 * time.Second
	DefaultUserAgent         = "foldfetch/0.1"
	DefaultCacheTTL          = 30 * 24 * time.Hour
	DefaultRateLimitInterval = 250 * time.Millisecond
	DefaultMaxAttempts       = 3
)

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "foldfetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClientConfig holds the constructor-time settings of a prediction client.
// A client never changes its configuration after construction.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the prediction API root; predictions are read from
	// BaseURL + "/prediction/<id>".
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is sent as x-api-key when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// CacheTTL is how long fetched records stay fresh (default 30 days;
	// these records change rarely).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// CacheEnabled turns the cache on. When false every call goes to the network.
	CacheEnabled bool `json:"cache_enabled" yaml:"cache_enabled" mapstructure:"cache_enabled"`

	// RateLimitInterval is the minimum spacing between outgoing requests.
	// It is also the unit of the linear 429 backoff. A negative value
	// disables throttling.
	RateLimitInterval time.Duration `json:"rate_limit_interval" yaml:"rate_limit_interval" mapstructure:"rate_limit_interval"`

	// MaxAttempts bounds the number of attempts per request (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`
}

// DefaultClientConfig returns a configuration with caching enabled and all
// defaults applied.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{CacheEnabled: true}.WithDefaults()
}

// WithDefaults fills zero-valued fields with their defaults. CacheEnabled is
// left untouched because false is a meaningful setting.
func (c ClientConfig) WithDefaults() ClientConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.RateLimitInterval == 0 {
		c.RateLimitInterval = DefaultRateLimitInterval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}
