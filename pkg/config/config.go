package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Pair is one instrument in the scan universe: a display name plus the
// provider ticker ("EUR/USD" / "EURUSD=X").
type Pair struct {
	Pair   string `yaml:"pair"`
	Symbol string `yaml:"symbol"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Providers struct {
		Yahoo struct {
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"yahoo"`
		TwelveData struct {
			APIKey  string        `yaml:"api_key"`
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"twelvedata"`
		RetryMax      int           `yaml:"retry_max"`
		RetryInterval time.Duration `yaml:"retry_interval"`
	} `yaml:"providers"`
	Scan struct {
		Concurrency   int           `yaml:"concurrency"`
		SymbolTimeout time.Duration `yaml:"symbol_timeout"`
		SeriesTTL     time.Duration `yaml:"series_ttl"`
		ResponseTTL   time.Duration `yaml:"response_ttl"`
		RefreshCron   string        `yaml:"refresh_cron"`
	} `yaml:"scan"`
	Cache struct {
		Backend string `yaml:"backend"` // memory, redis, or layered
		MaxSize int    `yaml:"max_size"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Publish struct {
		Enabled bool `yaml:"enabled"`
		Kafka   struct {
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			MaxAttempts  int           `yaml:"max_attempts"`
		} `yaml:"kafka"`
	} `yaml:"publish"`
	Pairs []Pair `yaml:"pairs"`
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
	if v := os.Getenv("TD_API_KEY"); v != "" {
		c.Providers.TwelveData.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Publish.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Providers.Yahoo.BaseURL == "" {
		c.Providers.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Providers.TwelveData.BaseURL == "" {
		c.Providers.TwelveData.BaseURL = "https://api.twelvedata.com"
	}
	if c.Providers.Yahoo.Timeout == 0 {
		c.Providers.Yahoo.Timeout = 10 * time.Second
	}
	if c.Providers.TwelveData.Timeout == 0 {
		c.Providers.TwelveData.Timeout = 10 * time.Second
	}
	if c.Providers.RetryMax == 0 {
		c.Providers.RetryMax = 2
	}
	if c.Providers.RetryInterval == 0 {
		c.Providers.RetryInterval = 500 * time.Millisecond
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = 5
	}
	if c.Scan.SymbolTimeout == 0 {
		c.Scan.SymbolTimeout = 45 * time.Second
	}
	if c.Scan.SeriesTTL == 0 {
		c.Scan.SeriesTTL = 5 * time.Minute
	}
	if c.Scan.ResponseTTL == 0 {
		c.Scan.ResponseTTL = time.Minute
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.MaxSize == 0 {
		c.Cache.MaxSize = 1000
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "confluence"
	}
}

// Validate checks if the configuration is valid. Malformed or missing
// symbol configuration is fatal before serving.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Pairs) == 0 {
		return fmt.Errorf("pairs cannot be empty")
	}
	for i, p := range c.Pairs {
		if p.Pair == "" || p.Symbol == "" {
			return fmt.Errorf("pairs[%d]: pair and symbol are required", i)
		}
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Publish.Enabled {
		if len(c.Publish.Kafka.Brokers) == 0 {
			return fmt.Errorf("publish.kafka.brokers cannot be empty when publish is enabled")
		}
		if c.Publish.Kafka.Topic == "" {
			return fmt.Errorf("publish.kafka.topic is required when publish is enabled")
		}
	}
	return nil
}
