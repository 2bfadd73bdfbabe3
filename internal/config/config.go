// Package config loads runtime settings from defaults, an optional
// config.yaml, a .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/momna763/Target-Lock/internal/insights"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config aggregates all runtime settings required by the API.
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Insights  InsightsConfig  `mapstructure:"insights"`
	Log       LogConfig       `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type MongoConfig struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type PostgresConfig struct {
	URL     string `mapstructure:"url"`
	Migrate bool   `mapstructure:"migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	RPS         float64       `mapstructure:"rps"`
	Burst       int           `mapstructure:"burst"`
	MaxStrikes  int           `mapstructure:"max_strikes"`
	BanDuration time.Duration `mapstructure:"ban_duration"`
}

type CatalogConfig struct {
	DemoFallback bool `mapstructure:"demo_fallback"`
}

type InsightsConfig struct {
	TrendingThreshold   float64 `mapstructure:"trending_threshold"`
	RecommendationLimit int     `mapstructure:"recommendation_limit"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Load reads the configuration. A missing .env or config.yaml is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// PORT only carries the port number; HTTP_ADDR wins when both are set.
	if _, explicit := os.LookupEnv("HTTP_ADDR"); !explicit && v.GetString("port") != "" {
		port := v.GetString("port")
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(port, ":")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":5001")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.cors_origin", "*")

	v.SetDefault("storage.driver", StorageMongo)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "targetlock")
	v.SetDefault("mongo.timeout", 5*time.Second)

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", true)

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.ttl", 15*time.Minute)

	v.SetDefault("ratelimit.rps", 5.0)
	v.SetDefault("ratelimit.burst", 10)
	v.SetDefault("ratelimit.max_strikes", 5)
	v.SetDefault("ratelimit.ban_duration", 15*time.Minute)

	v.SetDefault("catalog.demo_fallback", false)

	v.SetDefault("insights.trending_threshold", 10.0)
	v.SetDefault("insights.recommendation_limit", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
}

// bindLegacyEnv maps the variable names used by the original deployment.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("http.addr", "HTTP_ADDR")
	_ = v.BindEnv("http.cors_origin", "CLIENT_ORIGIN")
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("mongo.uri", "MONGO_URI")
	_ = v.BindEnv("mongo.database", "MONGO_DATABASE")
	_ = v.BindEnv("postgres.url", "DATABASE_URL")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("catalog.demo_fallback", "DEMO_FALLBACK")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.encoding", "LOG_ENCODING")
	_ = v.BindEnv("port", "PORT")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMongo, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be %q or %q, got %q", StorageMongo, StorageMemory, c.Storage.Driver))
	}
	if c.Storage.Driver == StorageMongo && c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongo.uri is required for the mongo storage driver"))
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("jwt.secret must not be empty"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt.ttl must be positive"))
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("ratelimit.rps and ratelimit.burst must be positive"))
	}
	if c.Insights.RecommendationLimit < 1 || c.Insights.RecommendationLimit > insights.MaxRecommendationLimit {
		errs = append(errs, fmt.Errorf("insights.recommendation_limit must be between 1 and %d", insights.MaxRecommendationLimit))
	}
	return errors.Join(errs...)
}
