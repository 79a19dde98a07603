package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"PixelTrader/internal/collector"
	"PixelTrader/internal/model"
)

// EnvPrefix namespaces the environment overrides, e.g. PIXEL_SOURCE_KIND.
const EnvPrefix = "PIXEL"

// Config holds all application configuration.
// Environment keys are PIXEL_<SECTION>_<FIELD>, e.g. PIXEL_STORAGE_REDIS_ADDR.
type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins" split_words:"true"`
	} `yaml:"server"`
	Source struct {
		Kind    string        `yaml:"kind"` // backend, yahoo or demo
		BaseURL string        `yaml:"base_url" split_words:"true"`
		Proxy   string        `yaml:"proxy"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"source"`
	Defaults struct {
		Symbol   string `yaml:"symbol"`
		Period   string `yaml:"period"`
		Interval string `yaml:"interval"`
		ShowMA   bool   `yaml:"show_ma" split_words:"true"`
		MAType   string `yaml:"ma_type" split_words:"true"`
		MAPeriod int    `yaml:"ma_period" split_words:"true"`
	} `yaml:"defaults"`
	Storage struct {
		Kind          string `yaml:"kind"` // file, sqlite, redis or memory
		Path          string `yaml:"path"`
		RedisAddr     string `yaml:"redis_addr" split_words:"true"`
		RedisPassword string `yaml:"redis_password" split_words:"true"`
		RedisDB       int    `yaml:"redis_db" split_words:"true"`
	} `yaml:"storage"`
	Notify struct {
		BannerTTL time.Duration `yaml:"banner_ttl" split_words:"true"`
		NoticeTTL time.Duration `yaml:"notice_ttl" split_words:"true"`
		Telegram  struct {
			BotToken string `yaml:"bot_token" split_words:"true"`
			ChatID   string `yaml:"chat_id" split_words:"true"`
		} `yaml:"telegram"`
	} `yaml:"notify"`
	Refresh struct {
		Cron string `yaml:"cron"` // empty disables auto refresh
	} `yaml:"refresh"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then the .env files, then applies
// PIXEL_* environment variable overrides and fills defaults.
// A missing YAML or .env file is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	// Conventional variables shared with other tools
	if cfg.Source.Proxy == "" {
		cfg.Source.Proxy = os.Getenv("HTTPS_PROXY")
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" && cfg.Notify.Telegram.BotToken == "" {
		cfg.Notify.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" && cfg.Notify.Telegram.ChatID == "" {
		cfg.Notify.Telegram.ChatID = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Source.Kind == "" {
		c.Source.Kind = "backend"
	}
	c.Source.Kind = strings.ToLower(c.Source.Kind)
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = collector.DefaultBaseURL
	}
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = 30 * time.Second
	}
	if c.Defaults.Symbol == "" {
		c.Defaults.Symbol = "AAPL"
	}
	c.Defaults.Symbol = strings.ToUpper(strings.TrimSpace(c.Defaults.Symbol))
	if c.Defaults.Period == "" {
		c.Defaults.Period = "1mo"
	}
	if c.Defaults.Interval == "" {
		c.Defaults.Interval = "1d"
	}
	c.Defaults.MAType = string(model.ParseMAType(c.Defaults.MAType))
	if c.Defaults.MAPeriod <= 0 {
		c.Defaults.MAPeriod = model.DefaultMAPeriod
	}
	if c.Storage.Kind == "" {
		c.Storage.Kind = "file"
	}
	c.Storage.Kind = strings.ToLower(c.Storage.Kind)
	if c.Storage.Path == "" {
		switch c.Storage.Kind {
		case "sqlite":
			c.Storage.Path = "data/pixel_trader.db"
		default:
			c.Storage.Path = "data/prefs.json"
		}
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = "localhost:6379"
	}
	if c.Notify.BannerTTL <= 0 {
		c.Notify.BannerTTL = 5 * time.Second
	}
	if c.Notify.NoticeTTL <= 0 {
		c.Notify.NoticeTTL = 3 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks enumerations and the default chart parameters.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case "backend", "yahoo", "demo":
	default:
		return fmt.Errorf("source.kind must be backend, yahoo or demo, got %q", c.Source.Kind)
	}
	switch c.Storage.Kind {
	case "file", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("storage.kind must be file, sqlite, redis or memory, got %q", c.Storage.Kind)
	}
	if _, err := collector.NormalizeSymbol(c.Defaults.Symbol); err != nil {
		return fmt.Errorf("defaults.symbol: %w", err)
	}
	if err := collector.ValidatePeriod(c.Defaults.Period); err != nil {
		return fmt.Errorf("defaults.period: %w", err)
	}
	if err := collector.ValidateInterval(c.Defaults.Interval); err != nil {
		return fmt.Errorf("defaults.interval: %w", err)
	}
	if (c.Notify.Telegram.BotToken == "") != (c.Notify.Telegram.ChatID == "") {
		return fmt.Errorf("notify.telegram needs both bot_token and chat_id")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// DisplayOptions returns the chart options configured as defaults.
func (c *Config) DisplayOptions() model.DisplayOptions {
	return model.DisplayOptions{
		ShowMA:   c.Defaults.ShowMA,
		MAType:   model.ParseMAType(c.Defaults.MAType),
		MAPeriod: c.Defaults.MAPeriod,
		Theme:    model.ThemeDark,
	}.Normalize()
}
