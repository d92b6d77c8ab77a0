package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	CacheEntries   int      `yaml:"cache_entries" mapstructure:"cache_entries"`
	CacheTTLSecs   int      `yaml:"cache_ttl_secs" mapstructure:"cache_ttl_secs"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	OpenBrowser    bool     `yaml:"open_browser" mapstructure:"open_browser"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DataConfig locates the input datasets. Locations may be local paths or
// http(s)/ftp URLs.
type DataConfig struct {
	Boundaries  string `yaml:"boundaries" mapstructure:"boundaries"`
	Statistics  string `yaml:"statistics" mapstructure:"statistics"`
	TempDir     string `yaml:"temp_dir" mapstructure:"temp_dir"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DashboardConfig configures the initial dashboard state.
type DashboardConfig struct {
	InitialMetric string `yaml:"initial_metric" mapstructure:"initial_metric"`
	ThemeFile     string `yaml:"theme_file" mapstructure:"theme_file"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// .env (optional)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HEALTHMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cache_entries", 64)
	v.SetDefault("server.cache_ttl_secs", 300)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.open_browser", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("data.boundaries", "data/counties-10m.json")
	v.SetDefault("data.statistics", "data/national_health_data_2024.csv")
	v.SetDefault("data.temp_dir", "/tmp/healthmap")
	v.SetDefault("data.timeout_secs", 60)
	v.SetDefault("dashboard.initial_metric", "percent_high_cholesterol")
	v.SetDefault("dashboard.theme_file", "")

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

// Validate checks the fields a command needs. Mode is "serve" or "check".
func (c *Config) Validate(mode string) error {
	var problems []string
	if c.Data.Boundaries == "" {
		problems = append(problems, "data.boundaries is required")
	}
	if c.Data.Statistics == "" {
		problems = append(problems, "data.statistics is required")
	}
	if c.Data.TimeoutSecs < 0 {
		problems = append(problems, "data.timeout_secs must be >= 0")
	}

	switch mode {
	case "check":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
		if c.Server.CacheEntries < 1 {
			problems = append(problems, "server.cache_entries must be >= 1")
		}
		if c.Server.CacheTTLSecs < 0 {
			problems = append(problems, "server.cache_ttl_secs must be >= 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
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
