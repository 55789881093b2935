package config

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8000"`

	ServerPort string `env:"SERVER_PORT" envDefault:"8000"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`

	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty means the socket address is the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	MongoURI      string `env:"MONGO_URI,required,notEmpty"`
	MongoDatabase string `env:"MONGO_DATABASE,required,notEmpty"`
	RedisURI      string `env:"REDIS_URI" envDefault:"localhost:6379"`

	JWTSecret        string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiry        time.Duration `env:"JWT_EXPIRY" envDefault:"2160h"`
	PasswordResetTTL time.Duration `env:"PASSWORD_RESET_EXPIRY" envDefault:"10m"`
	UserCacheTTL     time.Duration `env:"USER_CACHE_TTL" envDefault:"15m"`

	RateLimit RateLimitConfig
	SMTP      SMTPConfig
	S3        S3Config
	Email     EmailConfig
	Telemetry TelemetryConfig

	BodyLimitBytes int64 `env:"BODY_LIMIT_BYTES" envDefault:"10240"`
}

// RateLimitConfig caps requests per client IP on the API prefix.
type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`
}

// SMTPConfig configures outgoing mail. With an empty host, mail is logged in
// development and refused in production.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"Tours <hello@tours.local>"`
}

// S3Config configures presigned uploads for user photos and tour images.
type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Bucket    string `env:"S3_BUCKET" envDefault:"tours"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	UseSSL    bool   `env:"S3_USE_SSL" envDefault:"false"`
}

// EmailConfig sizes the background email queue.
type EmailConfig struct {
	Workers   int `env:"EMAIL_WORKERS" envDefault:"2"`
	QueueSize int `env:"EMAIL_QUEUE_SIZE" envDefault:"100"`
}

// TelemetryConfig enables OTLP trace export.
type TelemetryConfig struct {
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4317"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"tours-api"`
	SampleRate  float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
	Insecure    bool    `env:"OTEL_INSECURE" envDefault:"true"`
}

// Load reads configuration from .env file and environment variables
func Load() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// Parse is Load without the fatal exit.
func Parse() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist - env vars may be set directly)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		return nil, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env)
	}
	if cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("rate limit must be positive")
	}
	for _, p := range cfg.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p)
			}
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether errors should be rendered with details.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// SMTPEnabled reports whether a real mail server is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.Host != ""
}

// S3Enabled reports whether object storage is configured.
func (c *Config) S3Enabled() bool {
	return c.S3.Endpoint != "" && c.S3.AccessKey != ""
}
