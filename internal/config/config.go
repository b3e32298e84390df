package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Storage       StorageConfig
	Tracing       TracingConfig `mapstructure:"tracing"`
	Redis         RedisConfig
	CORS          CORSConfig          `mapstructure:"cors"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	PasswordReset PasswordResetConfig `mapstructure:"password_reset"`

	// runtime flags, set from the command line
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port        string
	Mode        string
	Environment string
	Version     string
}

type DatabaseConfig struct {
	Driver       string
	URL          string `mapstructure:"url"`
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string `mapstructure:"sslmode"`
	Charset      string
	ParseTime    bool `mapstructure:"parse_time"`
	MaxOpenConns int  `mapstructure:"max_open_conns"`
	MaxIdleConns int  `mapstructure:"max_idle_conns"`
}

type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	ExpireMinutes     int    `mapstructure:"expire_minutes"`
	RefreshExpireDays int    `mapstructure:"refresh_expire_days"`

	// derived from the fields above by LoadConfig
	ExpireTime        time.Duration `mapstructure:"-"`
	RefreshExpireTime time.Duration `mapstructure:"-"`
}

type StorageConfig struct {
	Type          string   `mapstructure:"type"`
	LocalPath     string   `mapstructure:"local_path"`
	MinioEndpoint string   `mapstructure:"minio_endpoint"`
	MinioAccessID string   `mapstructure:"minio_access_key"`
	MinioSecret   string   `mapstructure:"minio_secret_key"`
	MinioBucket   string   `mapstructure:"minio_bucket"`
	MinioUseSSL   bool     `mapstructure:"minio_use_ssl"`
	OSSEndpoint   string   `mapstructure:"oss_endpoint"`
	OSSAccessKey  string   `mapstructure:"oss_access_key"`
	OSSSecretKey  string   `mapstructure:"oss_secret_key"`
	OSSBucket     string   `mapstructure:"oss_bucket"`
	MaxFileSize   int64    `mapstructure:"max_file_size"`
	AllowedTypes  []string `mapstructure:"allowed_types"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	Exporter          string `mapstructure:"exporter"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
	ServiceName       string `mapstructure:"service_name"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type PasswordResetConfig struct {
	TTLMinutes int           `mapstructure:"ttl_minutes"`
	TTL        time.Duration `mapstructure:"-"`
}

const (
	ModeDebug   = "debug"
	ModeRelease = "release"

	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// LoadConfig reads <path>/config.yaml, overlays the environment and returns a
// fresh Config. Each call uses its own viper instance so a reload never
// touches a Config that is already in use.
func LoadConfig(path string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load(filepath.Join(path, "..", ".env"))

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GREAT_AWARENESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// CORS_ORIGINS may arrive as a JSON array or a comma separated string
	if raw := v.GetString("cors.allowed_origins"); raw != "" {
		cfg.CORS.AllowedOrigins = ParseOrigins(raw)
	}

	if url := os.Getenv("NEON_DATABASE_URL"); url != "" && cfg.Database.URL == "" {
		cfg.Database.URL = url
	}

	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireMinutes) * time.Minute
	cfg.JWT.RefreshExpireTime = time.Duration(cfg.JWT.RefreshExpireDays) * 24 * time.Hour
	cfg.PasswordReset.TTL = time.Duration(cfg.PasswordReset.TTLMinutes) * time.Minute

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", ModeDebug)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.version", "1.0.0")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("jwt.expire_minutes", 30)
	v.SetDefault("jwt.refresh_expire_days", 7)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("storage.max_file_size", 5*1024*1024)
	v.SetDefault("storage.allowed_types", []string{"image/jpeg", "image/png", "image/gif", "image/webp"})

	v.SetDefault("tracing.exporter", "jaeger")
	v.SetDefault("tracing.service_name", "great-awareness-backend")

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)

	v.SetDefault("password_reset.ttl_minutes", 60)
}

func bindEnv(v *viper.Viper) {
	// Database
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET", "SECRET_KEY")
	v.BindEnv("jwt.expire_minutes", "ACCESS_TOKEN_EXPIRE_MINUTES")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENVIRONMENT")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.exporter", "TRACING_EXPORTER")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// CORS
	v.BindEnv("cors.allowed_origins", "CORS_ORIGINS")
}

// Validate checks the values a running server cannot do without.
func (c *Config) Validate() error {
	if c.Server.Mode == ModeRelease && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.JWT.ExpireTime <= 0 {
		return errors.New("jwt.expire_minutes must be positive")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.WindowMinutes <= 0 {
		return errors.New("rate_limit values must be positive")
	}
	return nil
}

// RateLimitWindow returns the limiter window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowMinutes) * time.Minute
}

// ParseOrigins accepts `["a","b"]` or `a,b`.
func ParseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
