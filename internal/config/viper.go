package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize the API key
	} `mapstructure:"ai" yaml:"ai"`

	Data struct {
		DatabaseFile   string `mapstructure:"database_file" yaml:"database_file"`
		CategoriesFile string `mapstructure:"categories_file" yaml:"categories_file"`
	} `mapstructure:"data" yaml:"data"`

	Owner struct {
		ID string `mapstructure:"id" yaml:"id"`
	} `mapstructure:"owner" yaml:"owner"`

	Gold struct {
		URL            string  `mapstructure:"url" yaml:"url"`
		TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		USDToVND       float64 `mapstructure:"usd_to_vnd" yaml:"usd_to_vnd"`
	} `mapstructure:"gold" yaml:"gold"`
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional YAML config file, then environment
// variables with the FINANCE prefix. GEMINI_API_KEY is bound unprefixed.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.finance-assistant")
	v.AddConfigPath(".finance-assistant")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FINANCE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A malformed file should not kill the process; fall back to
			// defaults and environment variables.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The Gemini credential is always read from the conventional variable.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("data.database_file", "finance.db")
	v.SetDefault("data.categories_file", "")

	v.SetDefault("owner.id", "local")

	v.SetDefault("gold.url", "https://api.metals.live/v1/spot/gold")
	v.SetDefault("gold.timeout_seconds", 5)
	v.SetDefault("gold.usd_to_vnd", 24500)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
		return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
	}

	if config.Data.DatabaseFile == "" {
		return fmt.Errorf("data.database_file must not be empty")
	}

	if config.Owner.ID == "" {
		return fmt.Errorf("owner.id must not be empty")
	}

	if config.Gold.USDToVND <= 0 {
		return fmt.Errorf("gold.usd_to_vnd must be positive, got: %f", config.Gold.USDToVND)
	}

	return nil
}
