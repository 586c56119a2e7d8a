package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Environment string            `mapstructure:"environment"`
	Taxonomy    TaxonomyConfig    `mapstructure:"taxonomy"`
	Assays      []string          `mapstructure:"assays"`
	Input       InputConfig       `mapstructure:"input"`
	Output      OutputConfig      `mapstructure:"output"`
	SQLite      SQLiteConfig      `mapstructure:"sqlite"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Upload      UploadConfig      `mapstructure:"upload"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency"`
}

// TaxonomyConfig locates the category taxonomy document
type TaxonomyConfig struct {
	Path      string `mapstructure:"path"`
	CacheSize int    `mapstructure:"cache_size"`
}

// InputConfig locates the per-assay diff files (<dir>/<assay>.diff)
type InputConfig struct {
	Dir string `mapstructure:"dir"`
}

// OutputConfig selects where result tables go
type OutputConfig struct {
	Dir   string   `mapstructure:"dir"`
	Sinks []string `mapstructure:"sinks"` // "csv", "sqlite", "postgres", "redis"
}

// Sink names accepted in OutputConfig.Sinks
const (
	SinkCSV      = "csv"
	SinkSQLite   = "sqlite"
	SinkPostgres = "postgres"
	SinkRedis    = "redis"
)

// SQLiteConfig represents the local results database
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig represents PostgreSQL connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig represents the Redis publication target
type RedisConfig struct {
	URL       string        `mapstructure:"url"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// UploadConfig throttles and guards remote sinks
type UploadConfig struct {
	RateLimit          float64       `mapstructure:"rate_limit"` // uploads per second
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json", "text"
	Output string `mapstructure:"output"` // "stdout", "stderr" or a file path
}

// ConcurrencyConfig bounds concurrent assay runs
type ConcurrencyConfig struct {
	MaxAssays int `mapstructure:"max_assays"`
}
