package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/config"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Kafka        KafkaConfig        `yaml:"kafka"`
	JWT          JWTConfig          `yaml:"jwt"`
	Logging      LoggingConfig      `yaml:"logging"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	Housekeeping HousekeepingConfig `yaml:"housekeeping"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig enables event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type JWTConfig struct {
	Secret         string        `yaml:"secret"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
	Issuer         string        `yaml:"issuer"`
}

// LoggingConfig writes to stderr, and also to a rotated file when File is set.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// RateLimitConfig bounds login and registration attempts per client IP.
type RateLimitConfig struct {
	AuthPerMinute int `yaml:"auth_per_minute"`
	AuthBurst     int `yaml:"auth_burst"`
}

// HousekeepingConfig holds cron specs for maintenance jobs. An empty spec
// disables the job.
type HousekeepingConfig struct {
	LimiterCleanup string `yaml:"limiter_cleanup"`
	WALCheckpoint  string `yaml:"wal_checkpoint"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{Path: "chorecore.db"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Kafka:    KafkaConfig{Topic: "chorecore.events"},
		JWT: JWTConfig{
			AccessTokenTTL: 24 * time.Hour,
			Issuer:         "chorecore",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: 5,
			AuthBurst:     5,
		},
		Housekeeping: HousekeepingConfig{
			LimiterCleanup: "@every 10m",
			WALCheckpoint:  "@every 1h",
		},
	}
}

// Load reads the YAML file at path on top of the defaults, expanding
// ${VAR:default} references from the environment, then applies CHORECORE_*
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := cfg.overrideFromEnv(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader is Load for an already-open YAML source.
func LoadReader(r io.Reader) (*Config, error) {
	provider, err := config.NewYAML(
		config.Source(r),
		config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("create config provider: %w", err)
	}

	cfg := Default()
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("populate config: %w", err)
	}
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) overrideFromEnv() error {
	if val := os.Getenv("CHORECORE_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("CHORECORE_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if val := os.Getenv("CHORECORE_DB_PATH"); val != "" {
		c.Database.Path = val
	}
	if val := os.Getenv("CHORECORE_REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("CHORECORE_JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}
	if val := os.Getenv("CHORECORE_LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	if val := os.Getenv("CHORECORE_KAFKA_BROKERS"); val != "" {
		c.Kafka.Brokers = splitList(val)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (set CHORECORE_JWT_SECRET)")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return errors.New("jwt.access_token_ttl must be positive")
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	return nil
}
