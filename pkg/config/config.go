package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"SwingPull/pkg/util"
)

// IndexFuture names one macro index symbol tracked alongside the watchlist.
type IndexFuture struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Provider struct {
		BaseURL      string        `yaml:"base_url"`
		APIKey       string        `yaml:"api_key"`
		Timeout      time.Duration `yaml:"timeout"`
		QuoteTTL     time.Duration `yaml:"quote_ttl"`
		RatePerSec   float64       `yaml:"rate_per_sec"`
		Burst        float64       `yaml:"burst"`
	} `yaml:"provider"`
	Watchlist struct {
		Symbols []string          `yaml:"symbols"`
		Sectors map[string]string `yaml:"sectors"`
	} `yaml:"watchlist"`
	Macro struct {
		Futures      []IndexFuture `yaml:"futures"`
		VIXSymbol    string        `yaml:"vix_symbol"`
		YieldSymbol  string        `yaml:"yield_symbol"`
		DollarSymbol string        `yaml:"dollar_symbol"`
	} `yaml:"macro"`
	Schedule struct {
		Timezone string   `yaml:"timezone"`
		Triggers []string `yaml:"triggers"`
	} `yaml:"schedule"`
	Email struct {
		Enabled      bool   `yaml:"enabled"`
		To           string `yaml:"to"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
	} `yaml:"email"`
	Export struct {
		OutputDir string `yaml:"output_dir"`
	} `yaml:"export"`
	Events struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		Compression  string        `yaml:"compression"`
		RequiredAcks int           `yaml:"required_acks"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"events"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("QUOTE_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Watchlist.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.Email.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Email.SMTPPassword = v
	}
	if v := os.Getenv("EMAIL_TO"); v != "" {
		c.Email.To = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Events.Topic = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.Export.OutputDir = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Provider.QuoteTTL == 0 {
		c.Provider.QuoteTTL = time.Minute
	}
	if c.Provider.RatePerSec == 0 {
		c.Provider.RatePerSec = 5
	}
	if c.Provider.Burst == 0 {
		c.Provider.Burst = 10
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "America/Chicago"
	}
	if len(c.Schedule.Triggers) == 0 {
		// 7:00, 9:30, 12:00 and 14:45 local time, weekdays
		c.Schedule.Triggers = []string{
			"0 7 * * MON-FRI",
			"30 9 * * MON-FRI",
			"0 12 * * MON-FRI",
			"45 14 * * MON-FRI",
		}
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "output"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "swingpull.snapshots"
	}
	if c.Events.MaxAttempts == 0 {
		c.Events.MaxAttempts = 3
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if len(c.Watchlist.Symbols) == 0 {
		return fmt.Errorf("watchlist.symbols cannot be empty")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone %q: %w", c.Schedule.Timezone, err)
	}
	if c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("email.smtp_host is required when email is enabled")
		}
		if c.Email.To == "" {
			return fmt.Errorf("email.to is required when email is enabled")
		}
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	return nil
}

// Location resolves the configured scheduler timezone. Validate guarantees
// it parses, so errors here are ignored in favour of UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
