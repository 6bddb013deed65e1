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

// EnvPrefix prefixes every environment override, e.g. ROLLCALL_DATABASE_DSN.
const EnvPrefix = "ROLLCALL"

// Config is the full process configuration.
type Config struct {
	Addr             string          `mapstructure:"addr"`
	Database         DatabaseConfig  `mapstructure:"database"`
	Index            IndexConfig     `mapstructure:"index"`
	Match            MatchConfig     `mapstructure:"match"`
	JWT              JWTConfig       `mapstructure:"jwt"`
	Admin            AdminConfig     `mapstructure:"admin"`
	Redis            RedisConfig     `mapstructure:"redis"`
	Analytics        AnalyticsConfig `mapstructure:"analytics"`
	Log              LogConfig       `mapstructure:"log"`
	ReconcileOnStart bool            `mapstructure:"reconcile_on_start"`
	Timezone         string          `mapstructure:"timezone"`
}

// DatabaseConfig selects the ledger backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// IndexConfig locates the embedding index file pair.
type IndexConfig struct {
	Dir string `mapstructure:"dir"`
}

// MatchConfig holds the identity resolver policy.
type MatchConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// JWTConfig configures bearer-token validation.
type JWTConfig struct {
	SigningKey string `mapstructure:"signing_key"`
	Issuer     string `mapstructure:"issuer"`
}

// AdminConfig guards the admin endpoints. An empty token disables them.
type AdminConfig struct {
	Token string `mapstructure:"token"`
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AnalyticsConfig controls the rollup cache.
type AnalyticsConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key so env overrides resolve through Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "file:data/attendance.db")
	v.SetDefault("index.dir", "data/index")
	v.SetDefault("match.threshold", 0.6)
	v.SetDefault("jwt.signing_key", "dev-secret-key-change-in-production")
	v.SetDefault("jwt.issuer", "rollcall")
	v.SetDefault("admin.token", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("analytics.cache_ttl", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("reconcile_on_start", true)
	v.SetDefault("timezone", "Local")
}

// SetupEnv maps nested keys to ROLLCALL_ prefixed variables.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads a .env file into the process environment. A missing file
// is not an error; variables already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the optional config file, then unmarshals and validates.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validating config: %w", errors.Join(errs...))
	}
	return &cfg, nil
}

// Validate collects every configuration error rather than stopping at the first.
func (c *Config) Validate() []error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("config: addr must not be empty"))
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		errs = append(errs, fmt.Errorf("config: database.driver must be one of [sqlite3, postgres], got %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("config: database.dsn must not be empty"))
	}
	if c.Index.Dir == "" {
		errs = append(errs, errors.New("config: index.dir must not be empty"))
	}
	if !(c.Match.Threshold >= 0) {
		errs = append(errs, fmt.Errorf("config: match.threshold must be zero or positive, got %v", c.Match.Threshold))
	}
	if c.JWT.SigningKey == "" {
		errs = append(errs, errors.New("config: jwt.signing_key must not be empty"))
	}
	if c.Analytics.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("config: analytics.cache_ttl must not be negative, got %s", c.Analytics.CacheTTL))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("config: timezone: %w", err))
	}
	return errs
}

// Location resolves Timezone. "Local" and empty mean the process local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
