package signalbridge

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds client settings read from environment variables with the
// SIGNALBRIDGE_ prefix, e.g. SIGNALBRIDGE_TOKEN, SIGNALBRIDGE_BATCH_TIMEOUT=90s.
type Config struct {
	Token        string        `envconfig:"TOKEN"`
	BaseURL      string        `envconfig:"BASE_URL"      default:"https://signal-bridge.nugsoftstagging.com/api"`
	Timeout      time.Duration `envconfig:"TIMEOUT"       default:"30s"`
	BatchTimeout time.Duration `envconfig:"BATCH_TIMEOUT" default:"60s"`
	Logging      bool          `envconfig:"LOGGING"       default:"true"`
	Debug        bool          `envconfig:"DEBUG"         default:"false"`
}

// LoadConfig populates Config from environment variables (prefix SIGNALBRIDGE_).
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("SIGNALBRIDGE", &c); err != nil {
		return Config{}, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return c, nil
}

// Options converts cfg into client options. Zero durations and an empty
// base URL keep the client defaults.
func (cfg Config) Options() []Option {
	opts := []Option{WithLogging(cfg.Logging), WithDebugLogging(cfg.Debug)}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if cfg.BatchTimeout > 0 {
		opts = append(opts, WithBatchTimeout(cfg.BatchTimeout))
	}
	return opts
}

// NewFromConfig constructs a Client from cfg. Extra options are applied
// after the ones derived from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg.Token, append(cfg.Options(), opts...)...)
}

// NewFromEnv is LoadConfig followed by NewFromConfig.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}
