package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"macromood/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Data     DataConfig     `mapstructure:"data"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Server   ServerConfig   `mapstructure:"server"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// CalendarConfig governs the economic-calendar feed window.
type CalendarConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	From           time.Time     `mapstructure:"from"`
	To             time.Time     `mapstructure:"to"`
	Cutoff         time.Time     `mapstructure:"cutoff"`
	Countries      string        `mapstructure:"countries"`
	MinImportance  int           `mapstructure:"min_importance"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DataConfig locates per-(symbol, year) minute-bar files.
type DataConfig struct {
	Dir          string `mapstructure:"dir"`
	PathTemplate string `mapstructure:"path_template"`
	Symbol       string `mapstructure:"symbol"`
	Timezone     string `mapstructure:"timezone"`
}

// CacheConfig controls the local feed cache. An empty path disables it.
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// ChartConfig sets rendered chart dimensions.
type ChartConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// ServerConfig covers the dashboard HTTP server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MACROMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "macromood")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("calendar.base_url", "https://economic-calendar.tradingview.com")
	v.SetDefault("calendar.from", "2010-01-01T12:00:00Z")
	v.SetDefault("calendar.to", "2023-01-28T14:00:00Z")
	v.SetDefault("calendar.cutoff", "2023-02-01T00:00:00Z")
	v.SetDefault("calendar.countries", "US")
	v.SetDefault("calendar.min_importance", 1)
	v.SetDefault("calendar.user_agent", "Mozilla/5.0 (X11; Linux x86_64; rv:108.0) Gecko/20100101 Firefox/108.0")
	v.SetDefault("calendar.request_timeout", "30s")

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.path_template", "DAT_ASCII_%s_M1_%d.csv")
	v.SetDefault("data.symbol", "NSXUSD")
	v.SetDefault("data.timezone", "America/New_York")

	v.SetDefault("cache.path", "")

	v.SetDefault("chart.width", 1280)
	v.SetDefault("chart.height", 720)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "5s")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Calendar.BaseURL == "" {
		return fmt.Errorf("calendar.base_url is required")
	}
	if !c.Calendar.From.Before(c.Calendar.To) {
		return fmt.Errorf("calendar.from must be before calendar.to")
	}
	if c.Calendar.Cutoff.IsZero() {
		return fmt.Errorf("calendar.cutoff is required")
	}
	if c.Data.PathTemplate == "" {
		return fmt.Errorf("data.path_template is required")
	}
	if c.Data.Timezone == "" {
		return fmt.Errorf("data.timezone is required")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart dimensions must be greater than zero")
	}
	return nil
}
