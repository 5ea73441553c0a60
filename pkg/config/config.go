package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Auth struct {
		JWTSecret      string   `yaml:"jwt_secret"`
		TokenTTL       time.Duration `yaml:"token_ttl"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"auth"`

	Access struct {
		// LookupTimeout bounds each purchase/subscription/product point
		// lookup. Exceeding it surfaces as 503, never as a deny.
		LookupTimeout time.Duration `yaml:"lookup_timeout"`
	} `yaml:"access"`

	Stream struct {
		// IdleReadTimeout aborts a stream when the storage backend produces
		// no bytes for this long. Zero disables the watchdog.
		IdleReadTimeout time.Duration `yaml:"idle_read_timeout"`
	} `yaml:"stream"`

	Upload struct {
		MaxBytes     int64    `yaml:"max_bytes"`
		AllowedTypes []string `yaml:"allowed_types"`
	} `yaml:"upload"`

	Storage struct {
		Backend string `yaml:"backend"` // fs or s3

		FS struct {
			Root string `yaml:"root"`
		} `yaml:"fs"`

		S3 struct {
			Endpoint  string `yaml:"endpoint"`
			Region    string `yaml:"region"`
			Bucket    string `yaml:"bucket"`
			AccessKey string `yaml:"access_key"`
			SecretKey string `yaml:"secret_key"`
			UseSSL    bool   `yaml:"use_ssl"`
		} `yaml:"s3"`
	} `yaml:"storage"`

	Stores struct {
		Backend string `yaml:"backend"` // memory, redis or postgres

		Redis struct {
			Address  string `yaml:"address"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			PoolSize int    `yaml:"pool_size"`
		} `yaml:"redis"`

		Postgres struct {
			DSN          string `yaml:"dsn"`
			MaxOpenConns int    `yaml:"max_open_conns"`
		} `yaml:"postgres"`
	} `yaml:"stores"`

	RateLimiting struct {
		Enabled           bool    `yaml:"enabled"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		MaxConcurrent     int     `yaml:"max_concurrent"`
	} `yaml:"rate_limiting"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
	} `yaml:"monitoring"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		JaegerURL   string  `yaml:"jaeger_url"`
		SampleRate  float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0")
	}

	if c.Access.LookupTimeout <= 0 {
		return fmt.Errorf("access.lookup_timeout must be > 0")
	}
	if c.Stream.IdleReadTimeout < 0 {
		return fmt.Errorf("stream.idle_read_timeout must be >= 0")
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be > 0")
	}
	if len(c.Upload.AllowedTypes) == 0 {
		return fmt.Errorf("upload.allowed_types must not be empty")
	}

	switch c.Storage.Backend {
	case "fs":
		if c.Storage.FS.Root == "" {
			return fmt.Errorf("storage.fs.root must not be empty when storage.backend=fs")
		}
	case "s3":
		if c.Storage.S3.Endpoint == "" {
			return fmt.Errorf("storage.s3.endpoint must not be empty when storage.backend=s3")
		}
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket must not be empty when storage.backend=s3")
		}
	default:
		return fmt.Errorf("storage.backend must be fs or s3, got %q", c.Storage.Backend)
	}

	switch c.Stores.Backend {
	case "memory":
	case "redis":
		if c.Stores.Redis.Address == "" {
			return fmt.Errorf("stores.redis.address must not be empty when stores.backend=redis")
		}
		if c.Stores.Redis.PoolSize <= 0 {
			return fmt.Errorf("stores.redis.pool_size must be > 0 when stores.backend=redis")
		}
	case "postgres":
		if c.Stores.Postgres.DSN == "" {
			return fmt.Errorf("stores.postgres.dsn must not be empty when stores.backend=postgres")
		}
	default:
		return fmt.Errorf("stores.backend must be memory, redis or postgres, got %q", c.Stores.Backend)
	}

	if c.RateLimiting.Enabled {
		if c.RateLimiting.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.requests_per_second must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.Burst <= 0 {
			return fmt.Errorf("rate_limiting.burst must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.MaxConcurrent < 0 {
			return fmt.Errorf("rate_limiting.max_concurrent must be >= 0")
		}
	}

	if c.Tracing.Enabled {
		if c.Tracing.JaegerURL == "" {
			return fmt.Errorf("tracing.jaeger_url must not be empty when tracing is enabled")
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			return fmt.Errorf("tracing.sample_rate must be within [0, 1]")
		}
	}

	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level must not be empty")
	}

	return nil
}

// Load reads configuration from a YAML file, applies defaults and env
// overrides. A missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns configuration with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = ":8080"
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second

	cfg.Auth.JWTSecret = "change-me-in-production"
	cfg.Auth.TokenTTL = 15 * time.Minute
	cfg.Auth.AllowedOrigins = []string{"*"}

	cfg.Access.LookupTimeout = 2 * time.Second
	cfg.Stream.IdleReadTimeout = 30 * time.Second

	cfg.Upload.MaxBytes = 2 << 30 // 2 GiB
	cfg.Upload.AllowedTypes = []string{
		"video/mp4",
		"video/webm",
		"video/quicktime",
		"application/pdf",
		"application/zip",
	}

	cfg.Storage.Backend = "fs"
	cfg.Storage.FS.Root = "data/blobs"
	cfg.Storage.S3.Region = "us-east-1"
	cfg.Storage.S3.UseSSL = true

	cfg.Stores.Backend = "memory"
	cfg.Stores.Redis.Address = "localhost:6379"
	cfg.Stores.Redis.PoolSize = 10
	cfg.Stores.Postgres.MaxOpenConns = 10

	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.RequestsPerSecond = 50
	cfg.RateLimiting.Burst = 100

	cfg.Monitoring.PrometheusEnabled = true

	cfg.Tracing.Enabled = false
	cfg.Tracing.ServiceName = "mediagate"
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	cfg.Tracing.SampleRate = 1.0

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("MEDIAGATE_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if level := os.Getenv("MEDIAGATE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if secret := os.Getenv("MEDIAGATE_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if root := os.Getenv("MEDIAGATE_STORAGE_ROOT"); root != "" {
		c.Storage.FS.Root = root
	}
	if dsn := os.Getenv("MEDIAGATE_POSTGRES_DSN"); dsn != "" {
		c.Stores.Postgres.DSN = dsn
	}
	if max := os.Getenv("MEDIAGATE_UPLOAD_MAX_BYTES"); max != "" {
		if n, err := strconv.ParseInt(max, 10, 64); err == nil && n > 0 {
			c.Upload.MaxBytes = n
		}
	}
}
