package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devJWTSecret = "dev_secret"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
}

// DatabaseConfig describes the PostgreSQL pool. URL, when set, wins over the
// individual connection fields.
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectRetries  int
	AutoMigrate     bool
}

// DSN renders a postgres:// URL understood by lib/pq.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// CacheConfig toggles the Redis read cache in front of the resource services.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthConfig decides whether mutating routes require a bearer token.
type AuthConfig struct {
	Required bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var problems []string
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		problems = append(problems, "API_PREFIX must start with /")
	}
	if c.JWT.Secret == "" {
		problems = append(problems, "JWT_SECRET is empty")
	}
	if c.Env == EnvProduction && c.JWT.Secret == devJWTSecret {
		problems = append(problems, "JWT_SECRET must be changed in production")
	}
	if c.Database.URL == "" && c.Database.Host == "" {
		problems = append(problems, "DB_HOST or DATABASE_URL is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Env:       strings.ToLower(v.GetString("ENV")),
		Port:      v.GetInt("PORT"),
		APIPrefix: "/" + strings.Trim(v.GetString("API_PREFIX"), "/"),
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: duration(v, "DB_CONN_MAX_LIFETIME"),
			ConnectRetries:  v.GetInt("DB_CONNECT_RETRIES"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			URL:      v.GetString("REDIS_URL"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("ENABLE_CACHE"),
			TTL:     duration(v, "CACHE_TTL"),
			Prefix:  v.GetString("CACHE_PREFIX"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: duration(v, "JWT_EXPIRATION"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		Auth: AuthConfig{Required: v.GetBool("AUTH_REQUIRED")},
		CORS: CORSConfig{AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS"))},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

var durationDefaults = map[string]time.Duration{
	"DB_CONN_MAX_LIFETIME": time.Hour,
	"CACHE_TTL":            5 * time.Minute,
	"JWT_EXPIRATION":       24 * time.Hour,
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"ENV":        EnvDevelopment,
		"PORT":       8080,
		"API_PREFIX": "/api",

		"DB_HOST":            "localhost",
		"DB_PORT":            5432,
		"DB_USER":            "postgres",
		"DB_PASSWORD":        "postgres",
		"DB_NAME":            "school",
		"DB_SSL_MODE":        "disable",
		"DB_MAX_OPEN_CONNS":  10,
		"DB_MAX_IDLE_CONNS":  5,
		"DB_CONNECT_RETRIES": 5,
		"DB_AUTO_MIGRATE":    true,

		"REDIS_HOST": "localhost",
		"REDIS_PORT": 6379,
		"REDIS_DB":   0,

		"ENABLE_CACHE": false,
		"CACHE_PREFIX": "school",

		"JWT_SECRET":    devJWTSecret,
		"JWT_ISSUER":    "school-api",
		"AUTH_REQUIRED": false,

		"LOG_LEVEL":  "info",
		"LOG_FORMAT": "json",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, value := range durationDefaults {
		v.SetDefault(key, value.String())
	}
}

// duration parses key, falling back to its default on malformed input.
func duration(v *viper.Viper, key string) time.Duration {
	if d, err := time.ParseDuration(v.GetString(key)); err == nil && d > 0 {
		return d
	}
	return durationDefaults[key]
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
