package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort         = 3000
	defaultEnv          = "development"
	defaultDatabaseURL  = "mongodb://localhost:27017"
	defaultDatabaseName = "apidb"
	defaultRedisURL     = "redis://localhost:6379/0"
	defaultAccessLife   = 15 * time.Minute
	defaultRefreshLife  = 24 * time.Hour
	defaultAccessSecret = "your-secret-whatever"
	defaultRefreshSec   = "your-refresh-whatever"
)

// AppConfig holds runtime startup configuration. Values come from an
// optional YAML file overlaid by environment variables; the environment
// always wins.
type AppConfig struct {
	Port           int              `yaml:"port"`
	Env            string           `yaml:"env"`
	DatabaseURL    string           `yaml:"database_url"`
	DatabaseName   string           `yaml:"database_name"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	JWT            JWTConfig        `yaml:"jwt"`
	Revocation     RevocationConfig `yaml:"revocation"`
}

// JWTConfig carries the two signing secrets and token lifetimes. The access
// and refresh secrets must stay distinct; a token signed for one purpose
// must never verify for the other.
type JWTConfig struct {
	AccessSecret  string        `yaml:"access_secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessLife    time.Duration `yaml:"-"`
	RefreshLife   time.Duration `yaml:"-"`

	AccessLifeRaw  string `yaml:"access_life"`
	RefreshLifeRaw string `yaml:"refresh_life"`
}

// RevocationConfig controls the optional server-side token revocation layer.
type RevocationConfig struct {
	Enabled   bool    `yaml:"enabled"`
	RedisURL  string  `yaml:"redis_url"`
	KeyName   string  `yaml:"key_name"`
	DaySize   int     `yaml:"day_size"`
	ErrorRate float64 `yaml:"error_rate"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env != "production"
}

// Load reads the optional YAML file at path and applies environment
// overrides and defaults.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v, ok := envInt("PORT"); ok {
		cfg.Port = v
	}
	setEnvString(&cfg.Env, "ENV")
	setEnvString(&cfg.DatabaseURL, "DATABASE_URL")
	setEnvString(&cfg.DatabaseName, "DATABASE_NAME")
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		cfg.AllowedOrigins = splitCommaList(v)
	}

	setEnvString(&cfg.JWT.AccessSecret, "JWT_ACCESS_TOKEN_SECRET")
	setEnvString(&cfg.JWT.RefreshSecret, "JWT_REFRESH_TOKEN_SECRET")
	setEnvString(&cfg.JWT.AccessLifeRaw, "JWT_ACCESS_TOKEN_LIFE")
	setEnvString(&cfg.JWT.RefreshLifeRaw, "JWT_REFRESH_TOKEN_LIFE")

	if v, ok := envBool("REDIS_BLACKLIST_ENABLED"); ok {
		cfg.Revocation.Enabled = v
	}
	setEnvString(&cfg.Revocation.RedisURL, "REDIS_URL")
	setEnvString(&cfg.Revocation.KeyName, "REDIS_BLACKLIST_KEYNAME")
	if v, ok := envInt("REDIS_BLACKLIST_DAY_SIZE"); ok {
		cfg.Revocation.DaySize = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_BLACKLIST_ERROR_RATE")); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Revocation.ErrorRate = rate
		}
	}
}

func normalize(cfg *AppConfig) error {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	if strings.TrimSpace(cfg.DatabaseName) == "" {
		cfg.DatabaseName = defaultDatabaseName
	}

	if strings.TrimSpace(cfg.JWT.AccessSecret) == "" {
		cfg.JWT.AccessSecret = defaultAccessSecret
	}
	if strings.TrimSpace(cfg.JWT.RefreshSecret) == "" {
		cfg.JWT.RefreshSecret = defaultRefreshSec
	}

	var err error
	if cfg.JWT.AccessLife, err = parseLife(cfg.JWT.AccessLifeRaw, defaultAccessLife); err != nil {
		return fmt.Errorf("access token life: %w", err)
	}
	if cfg.JWT.RefreshLife, err = parseLife(cfg.JWT.RefreshLifeRaw, defaultRefreshLife); err != nil {
		return fmt.Errorf("refresh token life: %w", err)
	}

	if strings.TrimSpace(cfg.Revocation.RedisURL) == "" {
		cfg.Revocation.RedisURL = defaultRedisURL
	}
	return nil
}

func parseLife(raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	return d, nil
}

func setEnvString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return false, false
	}
	switch v {
	case "1", "true", "yes", "on":
		return true, true
	default:
		return false, true
	}
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
