package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string  `mapstructure:"env"`       // current application environment (local, dev, prod etc)
	BanksDir string  `mapstructure:"banks_dir"` // optional override directory for question bank JSON files
	HTTP     HTTP    `mapstructure:"http"`      // HTTP server section
	DB       DB      `mapstructure:"database"`  // database configuration section
	Bible    Bible   `mapstructure:"bible"`     // verse lookup service section
	Credits  Credits `mapstructure:"credits"`   // credit gate section
	Auth     Auth    `mapstructure:"-"`         // token verification, loaded from environment
	Quiz     Quiz    `mapstructure:"quiz"`      // session tuning section
}

// HTTP contains server listen and CORS parameters.
type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Bible contains verse lookup client parameters.
type Bible struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Credits contains credit gate client parameters. An empty endpoint leaves
// the gate open.
type Credits struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Auth contains bearer token verification parameters.
type Auth struct {
	JWTSecret string
}

// Quiz contains session tuning parameters.
type Quiz struct {
	SessionSize   int           `mapstructure:"session_size"`   // questions drawn per session
	SessionTTL    time.Duration `mapstructure:"session_ttl"`    // idle lifetime of an abandoned session
	EffectTimeout time.Duration `mapstructure:"effect_timeout"` // timeout for best-effort remote side effects
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Local development reads secrets from a .env file when present.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("bible.base_url", "https://bible-api.com")
	v.SetDefault("bible.timeout", "8s")
	v.SetDefault("credits.timeout", "5s")
	v.SetDefault("quiz.session_size", 10)
	v.SetDefault("quiz.session_ttl", "1h")
	v.SetDefault("quiz.effect_timeout", "10s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("credits.endpoint", "CREDITS_ENDPOINT")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	// An empty secret disables token verification; every request is then
	// treated as anonymous.
	cfg.Auth.JWTSecret = v.GetString("jwt_secret")

	return &cfg, nil
}
