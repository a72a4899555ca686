package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Weather   WeatherConfig   `yaml:"weather" mapstructure:"weather"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Advisor   AdvisorConfig   `yaml:"advisor" mapstructure:"advisor"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the farming-record store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// WeatherConfig holds OpenWeatherMap API settings.
type WeatherConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DataConfig configures the agricultural dataset file store.
type DataConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	TopCropsFile string `yaml:"top_crops_file" mapstructure:"top_crops_file"`
	ManifestFile string `yaml:"manifest_file" mapstructure:"manifest_file"`
}

// AdvisorConfig configures context gathering and prompt composition.
type AdvisorConfig struct {
	RecordLimit     int    `yaml:"record_limit" mapstructure:"record_limit"`
	DefaultLanguage string `yaml:"default_language" mapstructure:"default_language"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("KRISHI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "krishi.db")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.rate_limit", 10)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.top_crops_file", "top10_crops_kerala.xlsx")
	v.SetDefault("data.manifest_file", "crops.yaml")
	v.SetDefault("advisor.record_limit", 10)
	v.SetDefault("advisor.default_language", "en")
	v.SetDefault("server.port", 5000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration required for a given run mode.
// Modes: "serve", "ask", "market", "records".
func (c *Config) Validate(mode string) error {
	var missing []string

	storeOK := func() {
		switch c.Store.Driver {
		case "postgres":
			if c.Store.DatabaseURL == "" {
				missing = append(missing, "store.database_url is required for the postgres driver")
			}
		case "sqlite":
			if c.Store.SQLitePath == "" {
				missing = append(missing, "store.sqlite_path is required for the sqlite driver")
			}
		default:
			missing = append(missing, "store.driver must be postgres or sqlite")
		}
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required")
		}
		storeOK()
	case "ask":
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required")
		}
		storeOK()
	case "market":
		if c.Data.Dir == "" {
			missing = append(missing, "data.dir is required")
		}
	case "records":
		storeOK()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Advisor.RecordLimit < 1 || c.Advisor.RecordLimit > 100 {
		missing = append(missing, "advisor.record_limit must be between 1 and 100")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
