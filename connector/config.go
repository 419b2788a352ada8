package connector

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment variable LoadConfig reads.
	EnvPrefix = "PGCONNECT_"
	// EnvDatabaseURL supplies the address when PGCONNECT_ADDRESS is unset.
	EnvDatabaseURL = "DB_URL"
)

// Config represents database connection configuration. User, Password,
// Database and SSLMode complete a bare host Address.
type Config struct {
	Address            string        `koanf:"address"              json:"address"              yaml:"address"              validate:"required"`
	ApplicationName    string        `koanf:"application_name"     json:"application_name"     yaml:"application_name"`
	User               string        `koanf:"user"                 json:"user"                 yaml:"user"`
	Password           string        `koanf:"password"             json:"-"                    yaml:"password"`
	Database           string        `koanf:"database"             json:"database"             yaml:"database"`
	SSLMode            string        `koanf:"ssl_mode"             json:"ssl_mode"             yaml:"ssl_mode"             validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	ConnectTimeout     time.Duration `koanf:"connect_timeout"      json:"connect_timeout"      yaml:"connect_timeout"      validate:"gte=0"`
	StatementCacheSize int           `koanf:"statement_cache_size" json:"statement_cache_size" yaml:"statement_cache_size" validate:"min=1,max=65536"`
	Retry              RetryConfig   `koanf:"retry"                json:"retry"                yaml:"retry"`
}

// RetryConfig defines connection retry behavior for OpenWithRetry.
type RetryConfig struct {
	MaxRetries int           `koanf:"max_retries" json:"max_retries" yaml:"max_retries" validate:"gte=0"`
	BaseDelay  time.Duration `koanf:"base_delay"  json:"base_delay"  yaml:"base_delay"  validate:"gte=0"`
	MaxDelay   time.Duration `koanf:"max_delay"   json:"max_delay"   yaml:"max_delay"   validate:"gte=0"`
}

// Default returns the configuration used for everything the environment
// leaves unset. Address has no default.
func Default() *Config {
	return &Config{
		ApplicationName:    "pgconnect",
		ConnectTimeout:     10 * time.Second,
		StatementCacheSize: 256,
		Retry: RetryConfig{
			MaxRetries: 0,
			BaseDelay:  200 * time.Millisecond,
			MaxDelay:   5 * time.Second,
		},
	}
}

// envPaths maps PGCONNECT_ variables onto config keys.
var envPaths = map[string]string{
	"ADDRESS":              "address",
	"APPLICATION_NAME":     "application_name",
	"USER":                 "user",
	"PASSWORD":             "password",
	"DATABASE":             "database",
	"SSL_MODE":             "ssl_mode",
	"CONNECT_TIMEOUT":      "connect_timeout",
	"STATEMENT_CACHE_SIZE": "statement_cache_size",
	"RETRY_MAX_RETRIES":    "retry.max_retries",
	"RETRY_BASE_DELAY":     "retry.base_delay",
	"RETRY_MAX_DELAY":      "retry.max_delay",
}

// LoadConfig layers defaults, DB_URL and PGCONNECT_* variables, in that
// order, and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvDatabaseURL,
		TransformFunc: func(key, value string) (string, any) {
			if key != EnvDatabaseURL || value == "" {
				return "", nil
			}
			return "address", value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", EnvDatabaseURL, err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envPaths[strings.TrimPrefix(key, EnvPrefix)]
			if !ok || value == "" {
				return "", nil
			}
			return path, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Options converts the configuration into Open options.
func (c *Config) Options() []Option {
	return []Option{
		WithApplicationName(c.ApplicationName),
		WithConnectTimeout(c.ConnectTimeout),
		WithStatementCacheSize(c.StatementCacheSize),
		WithCredentials(c.User, c.Password),
		WithDatabase(c.Database),
		WithSSLMode(c.SSLMode),
	}
}
