package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/saldo/internal/backend"
	"github.com/MrJamesThe3rd/saldo/internal/log"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Saldo"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Data struct {
		Backend    string `envconfig:"DATA_BACKEND" default:"postgres"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"data/saldo.db"`
		File       string `envconfig:"DATA_FILE" default:"data/ledger.json"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"saldo"`
	}

	Ledger struct {
		PersistTimeout time.Duration `envconfig:"PERSIST_TIMEOUT" default:"10s"`
		CacheSize      int           `envconfig:"LEDGER_CACHE_SIZE" default:"256"`
		CacheTTL       time.Duration `envconfig:"LEDGER_CACHE_TTL" default:"30m"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"saldo.ledger"`
	}

	Auth struct {
		Secret string `envconfig:"AUTH_SECRET"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	}

	TUI struct {
		Owner   string `envconfig:"TUI_OWNER" default:"local"`
		LogFile string `envconfig:"TUI_LOG_FILE"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Backend() backend.Config {
	return backend.Config{
		Type:        backend.Type(c.Data.Backend),
		PostgresURL: c.ConnectionString(),
		SQLitePath:  c.Data.SQLitePath,
		DataFile:    c.Data.File,
	}
}

func (c *Config) Logger() log.Config {
	return log.Config{Level: c.Log.Level, Format: log.Format(c.Log.Format)}
}

// Validate reports every problem at once. The auth secret is only required
// when requireAuth is set, which the terminal client does not need.
func (c *Config) Validate(requireAuth bool) error {
	var errs []error

	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.App.Port))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if f := log.Format(c.Log.Format); f != log.FormatText && f != log.FormatJSON {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}

	if err := c.Backend().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("DATA_BACKEND: %w", err))
	}

	if c.Ledger.PersistTimeout < 0 {
		errs = append(errs, errors.New("PERSIST_TIMEOUT must not be negative"))
	}

	if c.Ledger.CacheSize <= 0 {
		errs = append(errs, errors.New("LEDGER_CACHE_SIZE must be positive"))
	}

	if c.AMQP.URL != "" && c.AMQP.Exchange == "" {
		errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
	}

	if requireAuth && c.Auth.Secret == "" {
		errs = append(errs, errors.New("AUTH_SECRET is required"))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
