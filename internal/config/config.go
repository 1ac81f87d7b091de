package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppPort string

	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	RabbitMQURL      string // empty disables event publishing
	RabbitMQExchange string

	LogLevel  string
	LogFormat string

	ImageStore  string // "local" or "s3"
	MediaDir    string
	MediaURL    string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	CORSOrigins string

	PageSize     int
	MaxPageSize  int
	RecipesLimit int

	CatalogCacheSize int
	CatalogCacheTTL  time.Duration
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=foodgram port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "foodgram.events")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("IMAGE_STORE", "local")
	v.SetDefault("MEDIA_DIR", "./media")
	v.SetDefault("MEDIA_URL", "/media")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_PUBLIC_URL", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("PAGE_SIZE", 6)
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("RECIPES_LIMIT", 3)
	v.SetDefault("CATALOG_CACHE_SIZE", 256)
	v.SetDefault("CATALOG_CACHE_TTL", 5*time.Minute)
}

// Load reads configuration into the global viper instance: defaults first,
// then an optional config file from the working directory, then the environment.
func Load() (*Config, error) {
	v := viper.GetViper()
	SetDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config out of an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:          v.GetString("APP_PORT"),
		DatabaseDriver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTTTL:           v.GetDuration("JWT_TTL"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		ImageStore:       strings.ToLower(v.GetString("IMAGE_STORE")),
		MediaDir:         v.GetString("MEDIA_DIR"),
		MediaURL:         v.GetString("MEDIA_URL"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3Region:         v.GetString("S3_REGION"),
		S3Endpoint:       v.GetString("S3_ENDPOINT"),
		S3AccessKey:      v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:      v.GetString("S3_SECRET_KEY"),
		S3PublicURL:      v.GetString("S3_PUBLIC_URL"),
		CORSOrigins:      v.GetString("CORS_ORIGINS"),
		PageSize:         v.GetInt("PAGE_SIZE"),
		MaxPageSize:      v.GetInt("MAX_PAGE_SIZE"),
		RecipesLimit:     v.GetInt("RECIPES_LIMIT"),
		CatalogCacheSize: v.GetInt("CATALOG_CACHE_SIZE"),
		CatalogCacheTTL:  v.GetDuration("CATALOG_CACHE_TTL"),
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.ImageStore {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when IMAGE_STORE is s3")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", c.ImageStore)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.PageSize < 1 || c.MaxPageSize < c.PageSize {
		return fmt.Errorf("invalid page sizes: PAGE_SIZE=%d MAX_PAGE_SIZE=%d", c.PageSize, c.MaxPageSize)
	}
	if c.CatalogCacheSize < 1 {
		return fmt.Errorf("CATALOG_CACHE_SIZE must be positive")
	}
	return nil
}
