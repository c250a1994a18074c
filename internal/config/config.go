// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration.  Nested groups share a variable
// prefix: DB_HOST, REDIS_ADDR, CACHE_TTL and so on.
type Config struct {
	Env        string `envconfig:"APP_ENV" default:"dev"`
	Port       string `envconfig:"APP_PORT" default:"8080"`
	Timezone   string `envconfig:"VENUE_TIMEZONE" default:"America/Bogota"`
	BcryptCost int    `envconfig:"BCRYPT_COST" default:"12"`
	Migrate    bool   `envconfig:"DB_MIGRATE" default:"false"`

	DB        DBConfig        `envconfig:"DB"`
	JWT       JWTConfig       `envconfig:"JWT"`
	Redis     RedisConfig     `envconfig:"REDIS"`
	Cache     CacheConfig     `envconfig:"CACHE"`
	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT"`
	Broker    BrokerConfig    `envconfig:"RABBIT"`
	Telemetry TelemetryConfig `envconfig:"OTEL"`
	Log       LogConfig       `envconfig:"LOG"`
}

type DBConfig struct {
	User string `envconfig:"USER" required:"true"`
	Pass string `envconfig:"PASS"`
	Host string `envconfig:"HOST" required:"true"`
	Port string `envconfig:"PORT" default:"3306"`
	Name string `envconfig:"NAME" required:"true"`
}

type JWTConfig struct {
	Secret    string        `envconfig:"SECRET" required:"true"`
	AccessTTL time.Duration `envconfig:"ACCESS_TTL" default:"24h"`
}

// BrokerConfig points at RabbitMQ.  An empty URL disables event publishing.
type BrokerConfig struct {
	URL      string `envconfig:"URL"`
	Exchange string `envconfig:"EXCHANGE" default:"catalog.events"`
	Queue    string `envconfig:"QUEUE" default:"catalog.audit"`
	LogPath  string `envconfig:"LOG_PATH" default:"logs/catalog.log"`
}

type TelemetryConfig struct {
	ServiceName     string `envconfig:"SERVICE_NAME" default:"canchas-api"`
	Endpoint        string `envconfig:"ENDPOINT"`
	Insecure        bool   `envconfig:"INSECURE" default:"true"`
	MetricsEnabled  bool   `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsEndpoint string `envconfig:"METRICS_ENDPOINT"` // OTLP push, in addition to /metrics
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// Load reads .env when present, then the process environment.  Missing
// required variables are reported together in the returned error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("config: VENUE_TIMEZONE: %w", err)
	}
	cfg.Cache.normalize()
	cfg.RateLimit.normalize()
	return cfg, nil
}

// Location returns the zone used to turn instants into a weekday and a
// time of day.  Load has already validated the name.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
