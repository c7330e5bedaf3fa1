package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port      int `env:"PORT" envDefault:"8080"`
	AdminPort int `env:"ADMIN_PORT" envDefault:"9090"`

	DB        DB
	Workflow  Workflow
	Auth      Auth
	RateLimit RateLimit
	Kafka     Kafka
	Pprof     Pprof
	Log       Log
}

// DB stores PostgreSQL connection settings.
type DB struct {
	Host           string `env:"POSTGRES_HOST" envDefault:"127.0.0.1"`
	Port           string `env:"POSTGRES_PORT" envDefault:"5432"`
	User           string `env:"POSTGRES_USER" envDefault:"deligo"`
	Pass           string `env:"POSTGRES_PASSWORD" envDefault:"deligo"`
	Name           string `env:"POSTGRES_DB" envDefault:"deligo"`
	SSLMode        string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	ConnectRetries int    `env:"POSTGRES_CONNECT_RETRIES" envDefault:"10"`
	Migrate        bool   `env:"POSTGRES_MIGRATE" envDefault:"true"`
}

// DSN returns the pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Pass),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Workflow stores order fulfillment settings.
type Workflow struct {
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" envDefault:"3s"`
	TxIsolation      string        `env:"TX_ISOLATION" envDefault:"serializable"`
	TxMaxAttempts    int           `env:"TX_MAX_ATTEMPTS" envDefault:"3"`
	OfferPolicy      string        `env:"OFFER_POLICY" envDefault:"replace"`
	CandidateLimit   int           `env:"CANDIDATE_LIMIT" envDefault:"5"`
}

// Auth stores bearer token settings. An empty secret disables the gate.
type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

// RateLimit stores per-client rate limiting settings.
type RateLimit struct {
	Enabled    bool          `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	Rate       float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst      int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	TTL        time.Duration `env:"RATE_LIMIT_TTL" envDefault:"10m"`
	MaxBuckets int           `env:"RATE_LIMIT_MAX_BUCKETS" envDefault:"10000"`
}

// Kafka stores order event publishing settings. No brokers means publishing is off.
type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_ORDER_EVENTS_TOPIC" envDefault:"order-status-events"`
}

// Pprof stores admin listener credentials for non-loopback clients.
type Pprof struct {
	User string `env:"PPROF_USER"`
	Pass string `env:"PPROF_PASSWORD"`
}

// Log stores logger settings.
type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.IntVar(&cfg.AdminPort, "admin-port", cfg.AdminPort, "port of the metrics/pprof listener")
	fs.StringVar(&cfg.Workflow.OfferPolicy, "offer-policy", cfg.Workflow.OfferPolicy, "offer policy: replace or append")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
