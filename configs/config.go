package configs

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Quote    QuoteConfig
	Session  SessionConfig
	Trading  TradingConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `env:"PORT" env-default:"8080"`
	Env  string `env:"APP_ENV" env-default:"development"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string `env:"STORE_DRIVER" env-default:"postgres"`
	URL        string `env:"DATABASE_URL"`
	SQLitePath string `env:"SQLITE_PATH" env-default:"finance.db"`
}

// RedisConfig holds Redis configuration. An empty address disables Redis.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
}

// QuoteConfig holds quote API configuration
type QuoteConfig struct {
	URL      string        `env:"QUOTE_API_URL" env-default:"https://cloud.iexapis.com/stable"`
	APIKey   string        `env:"API_KEY" env-required:"true"`
	Timeout  time.Duration `env:"QUOTE_TIMEOUT" env-default:"10s"`
	CacheTTL time.Duration `env:"QUOTE_CACHE_TTL" env-default:"1m"`
	WarmSpec string        `env:"QUOTE_WARM_SPEC" env-default:"@every 1m"`
}

// SessionConfig holds session token configuration
type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET" env-default:"default-secret-change-in-production"`
	TTL    time.Duration `env:"SESSION_TTL" env-default:"0s"` // 0 keeps sessions until logout
}

// TradingConfig holds ledger configuration
type TradingConfig struct {
	StartingBalance string `env:"STARTING_BALANCE" env-default:"10000"`
}

// KafkaConfig holds trade event configuration. No brokers disables publishing.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `env:"TRADES_TOPIC" env-default:"finance.trades"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// Load loads configuration from a .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, reading from environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// StoreConfig is the subset of Config used by offline tooling, which never calls the quote API
type StoreConfig struct {
	Database DatabaseConfig
	Trading  TradingConfig
	Log      LogConfig
}

// LoadStore loads only the store settings from a .env file and environment variables
func LoadStore() (*StoreConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, reading from environment variables")
	}

	var cfg StoreConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	full := Config{Database: cfg.Database, Trading: cfg.Trading}
	if err := full.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints cleanenv cannot express
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (must be %s or %s)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}

	balance, err := c.Trading.Balance()
	if err != nil {
		return err
	}
	if !balance.IsPositive() {
		return fmt.Errorf("STARTING_BALANCE must be positive, got %s", balance)
	}

	return nil
}

// Balance parses the configured starting balance
func (t TradingConfig) Balance() (decimal.Decimal, error) {
	balance, err := decimal.NewFromString(t.StartingBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid STARTING_BALANCE %q: %w", t.StartingBalance, err)
	}
	return balance, nil
}

// IsProduction reports whether the server runs in production mode
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}
