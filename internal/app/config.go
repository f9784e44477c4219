package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingAPIBase is returned when the aggregation API location is absent or unusable.
var ErrMissingAPIBase = errors.New("API_BASE is not configured")

const apiBaseHint = "set API_BASE to the aggregation API root, e.g. API_BASE=http://localhost:8000"

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development" validate:"oneof=development test staging production"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080" validate:"required"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s" validate:"gt=0"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s" validate:"gt=0"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s" validate:"gt=0"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty" validate:"oneof=pretty json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	APIBase          string        `envconfig:"API_BASE"`
	APITimeout       time.Duration `envconfig:"API_TIMEOUT" default:"10s" validate:"gt=0"`
	FetchConcurrency int           `envconfig:"FETCH_CONCURRENCY" default:"0" validate:"gte=0,lte=64"`

	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"0s" validate:"gte=0"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" validate:"omitempty,url"`

	CorrelationFeature string `envconfig:"CORRELATION_FEATURE" default:"monthly_income" validate:"required"`
	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120" validate:"gt=0"`
	WarmupCron         string `envconfig:"WARMUP_CRON" default:"*/15 * * * *"`
	WorkerMetricsAddr  string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads an optional .env file, then the environment. A missing or
// malformed API_BASE fails before any client is constructed.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validateAPIBase(); err != nil {
		return nil, err
	}
	if err := configValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validateAPIBase() error {
	c.APIBase = strings.TrimSpace(c.APIBase)
	if c.APIBase == "" {
		return fmt.Errorf("%w: %s", ErrMissingAPIBase, apiBaseHint)
	}
	u, err := url.Parse(c.APIBase)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an absolute http(s) URL; %s", ErrMissingAPIBase, c.APIBase, apiBaseHint)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// CacheEnabled reports whether upstream responses are cached in Redis.
func (c *Config) CacheEnabled() bool {
	return c != nil && c.RedisAddr != "" && c.CacheTTL > 0
}
