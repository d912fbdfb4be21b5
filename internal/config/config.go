package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type Config struct {
	// Target settings
	URL         string `mapstructure:"url" validate:"required,url"`
	OpenAPIFile string `mapstructure:"openapiFile"`

	// Scenario settings
	Seed         int64 `mapstructure:"seed"`
	SkipLongName bool  `mapstructure:"skipLongName"`

	// HTTP client settings
	TLSVerify       bool          `mapstructure:"tlsVerify"`
	Proxy           string        `mapstructure:"proxy" validate:"omitempty,url"`
	AddHeader       string        `mapstructure:"addHeader"`
	RequestTimeout  time.Duration `mapstructure:"requestTimeout" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns" validate:"min=0"`
	IdleConnTimeout int           `mapstructure:"idleConnTimeout" validate:"min=0"`

	// Analysis settings
	MaxLatency      time.Duration `mapstructure:"maxLatency" validate:"gt=0"`
	SettleDelay     time.Duration `mapstructure:"settleDelay" validate:"min=0"`
	SkipFailure     bool          `mapstructure:"skipFailure"`
	SkipSchemaCheck bool          `mapstructure:"skipSchemaCheck"`

	// Report settings
	ReportPath   string   `mapstructure:"reportPath" validate:"required"`
	ReportName   string   `mapstructure:"reportName" validate:"required"`
	ReportFormat []string `mapstructure:"reportFormat"`

	// config.yaml
	HTTPHeaders map[string]string `mapstructure:"headers"`

	// Other settings
	LogLevel string `mapstructure:"logLevel"`

	Args []string
}

// Validate checks the config values that the flag parser can't check on its own.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}
