package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the full application configuration, loaded from YAML with
// defaults applied and environment overrides on top.
type Config struct {
	Environment string `yaml:"environment" default:"development"`

	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	MarketData struct {
		// Provider selects where price history comes from:
		// "alphavantage" for the upstream HTTP API, "clickhouse" for a
		// locally ingested daily-bars table.
		Provider     string        `yaml:"provider" default:"alphavantage" validate:"oneof=alphavantage clickhouse"`
		BaseURL      string        `yaml:"base_url" default:"https://www.alphavantage.co/query"`
		APIKey       string        `yaml:"api_key"`
		LookbackDays int           `yaml:"lookback_days" default:"90" validate:"min=30"`
		Timeout      time.Duration `yaml:"timeout" default:"15s"`
		RequestsPer  int           `yaml:"requests_per_sec" default:"5"`
		MaxElapsed   time.Duration `yaml:"retry_max_elapsed" default:"30s"`
	} `yaml:"market_data"`

	News struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Window  int           `yaml:"window" default:"20" validate:"min=1"`
		Timeout time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"news"`

	OpenAI struct {
		BaseURL     string        `yaml:"base_url" default:"https://api.openai.com/v1"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"gpt-4"`
		Temperature float64       `yaml:"temperature" default:"0.7"`
		MaxTokens   int           `yaml:"max_tokens" default:"500"`
		Timeout     time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"openai"`

	Prediction struct {
		TTL             time.Duration `yaml:"ttl" default:"6h"`
		AccessLevel     string        `yaml:"access_level" default:"basic" validate:"oneof=free basic pro elite"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		Symbols         []string      `yaml:"symbols"`
	} `yaml:"prediction"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"stockpulse"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		BarsTable    string        `yaml:"bars_table" default:"stockpulse.daily_bars"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"clickhouse"`

	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"predictions.generated"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file, fills defaults and
// validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. Secrets are expected to arrive through the environment.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("STOCK_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("STOCK_API_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Prediction.Symbols = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.MarketData.Provider == "alphavantage" && c.MarketData.BaseURL == "" {
		return fmt.Errorf("market_data.base_url is required for the alphavantage provider")
	}
	if c.MarketData.Provider == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse provider")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
