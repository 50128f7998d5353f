package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Data-access backends.
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// Session store kinds.
const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	Backend   string

	Upstream    UpstreamConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Forms       FormsConfig
	Exports     ExportsConfig
	AutoRefresh AutoRefreshConfig
}

// UpstreamConfig points at the external guarding REST API.
type UpstreamConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig selects where the operator session (token + user) is persisted.
type SessionConfig struct {
	Store    string
	File     string
	RedisKey string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// FormsConfig tunes typeahead lookups.
type FormsConfig struct {
	SearchDebounce     time.Duration
	LookupPageSize     int
	LookupOpenPageSize int
}

// ExportsConfig controls list exports.
type ExportsConfig struct {
	Enabled    bool
	StorageDir string
	TTL        time.Duration
}

// AutoRefreshConfig drives periodic reloads of live boards.
type AutoRefreshConfig struct {
	Enabled  bool
	Schedule string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.Backend = strings.ToLower(strings.TrimSpace(v.GetString("BACKEND")))

	cfg.Upstream = UpstreamConfig{
		BaseURL:   strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout:   parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 15*time.Second),
		RateLimit: v.GetFloat64("UPSTREAM_RATE_LIMIT"),
		Burst:     v.GetInt("UPSTREAM_BURST"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Store:    strings.ToLower(strings.TrimSpace(v.GetString("SESSION_STORE"))),
		File:     v.GetString("SESSION_FILE"),
		RedisKey: v.GetString("SESSION_REDIS_KEY"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Forms = FormsConfig{
		SearchDebounce:     parseDuration(v.GetString("FORM_SEARCH_DEBOUNCE"), 300*time.Millisecond),
		LookupPageSize:     v.GetInt("FORM_LOOKUP_PAGE_SIZE"),
		LookupOpenPageSize: v.GetInt("FORM_LOOKUP_OPEN_PAGE_SIZE"),
	}

	cfg.Exports = ExportsConfig{
		Enabled:    v.GetBool("ENABLE_EXPORTS"),
		StorageDir: v.GetString("EXPORTS_STORAGE_DIR"),
		TTL:        parseDuration(v.GetString("EXPORTS_TTL"), 24*time.Hour),
	}

	cfg.AutoRefresh = AutoRefreshConfig{
		Enabled:  v.GetBool("ENABLE_AUTO_REFRESH"),
		Schedule: v.GetString("AUTO_REFRESH_SCHEDULE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendREST:
		if c.Upstream.BaseURL == "" {
			return fmt.Errorf("UPSTREAM_BASE_URL is required when BACKEND=%s", BackendREST)
		}
	case BackendPostgres:
	default:
		return fmt.Errorf("unknown BACKEND %q", c.Backend)
	}
	switch c.Session.Store {
	case SessionStoreFile, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("BACKEND", BackendREST)

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:8000/api")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")
	v.SetDefault("UPSTREAM_RATE_LIMIT", 20)
	v.SetDefault("UPSTREAM_BURST", 40)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "guardforce")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_STORE", SessionStoreFile)
	v.SetDefault("SESSION_FILE", "./.guard-console/session.json")
	v.SetDefault("SESSION_REDIS_KEY", "guard-console:session")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("FORM_SEARCH_DEBOUNCE", "300ms")
	v.SetDefault("FORM_LOOKUP_PAGE_SIZE", 20)
	v.SetDefault("FORM_LOOKUP_OPEN_PAGE_SIZE", 100)

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_TTL", "24h")

	v.SetDefault("ENABLE_AUTO_REFRESH", false)
	v.SetDefault("AUTO_REFRESH_SCHEDULE", "@every 1m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
