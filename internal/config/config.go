package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v      *viper.Viper
	file   string
	config *domain.Config
}

// NewManager creates a new configuration manager that searches the default
// locations for reconciler.yaml
func NewManager() (*Manager, error) {
	return NewManagerWithFile("")
}

// NewManagerWithFile creates a configuration manager reading an explicit
// config file. An empty path falls back to the default search locations.
func NewManagerWithFile(path string) (*Manager, error) {
	m := &Manager{file: path}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	v := viper.New()

	if m.file != "" {
		v.SetConfigFile(m.file)
	} else {
		v.SetConfigName("reconciler")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/clinvar-diff-reconciler/")
	}

	v.SetEnvPrefix("CLINVAR_DIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The file is optional when searching; defaults and env vars still apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if m.file != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.v = v
	m.config = config
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Taxonomy
	v.SetDefault("taxonomy.path", "config/taxonomy.json")
	v.SetDefault("taxonomy.cache_size", 8)

	// Inputs and outputs
	v.SetDefault("assays", []string{"TWE", "TSO500"})
	v.SetDefault("input.dir", "diffs")
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.sinks", []string{domain.SinkCSV})
	v.SetDefault("sqlite.path", "output/reconciler.db")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "clinvar_diff")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "30m")

	// Redis
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("redis.ttl", "168h")
	v.SetDefault("redis.key_prefix", "clinvar-diff")

	// Remote uploads
	v.SetDefault("upload.rate_limit", 5)
	v.SetDefault("upload.breaker_max_failures", 3)
	v.SetDefault("upload.breaker_timeout", "30s")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.max_body_bytes", 32<<20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("concurrency.max_assays", 2)
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetDatabaseConfig returns database configuration
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Taxonomy.Path == "" {
		return domain.NewConfigError("taxonomy.path", "taxonomy path is required")
	}
	if config.Taxonomy.CacheSize <= 0 {
		return domain.NewConfigError("taxonomy.cache_size", fmt.Sprintf("must be positive, got %d", config.Taxonomy.CacheSize))
	}
	if config.Concurrency.MaxAssays <= 0 {
		return domain.NewConfigError("concurrency.max_assays", fmt.Sprintf("must be positive, got %d", config.Concurrency.MaxAssays))
	}

	seen := map[string]bool{}
	for _, assay := range config.Assays {
		if strings.TrimSpace(assay) == "" {
			return domain.NewConfigError("assays", "assay names must not be empty")
		}
		if seen[assay] {
			return domain.NewConfigError("assays", fmt.Sprintf("duplicate assay %s", assay))
		}
		seen[assay] = true
	}

	for _, sink := range config.Output.Sinks {
		switch sink {
		case domain.SinkCSV:
			if config.Output.Dir == "" {
				return domain.NewConfigError("output.dir", "output directory is required for the csv sink")
			}
		case domain.SinkSQLite:
			if config.SQLite.Path == "" {
				return domain.NewConfigError("sqlite.path", "path is required for the sqlite sink")
			}
		case domain.SinkPostgres:
			if config.Database.Host == "" {
				return domain.NewConfigError("database.host", "database host is required")
			}
			if config.Database.Database == "" {
				return domain.NewConfigError("database.database", "database name is required")
			}
			if config.Database.Username == "" {
				return domain.NewConfigError("database.username", "database username is required")
			}
		case domain.SinkRedis:
			if config.Redis.URL == "" {
				return domain.NewConfigError("redis.url", "Redis URL is required")
			}
		default:
			return domain.NewConfigError("output.sinks", fmt.Sprintf("unknown sink %q", sink))
		}
	}

	if config.Upload.RateLimit <= 0 {
		return domain.NewConfigError("upload.rate_limit", "must be positive")
	}

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return domain.NewConfigError("server.port", fmt.Sprintf("invalid server port: %d", config.Server.Port))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return domain.NewConfigError("logging.level", fmt.Sprintf("invalid log level: %s", config.Logging.Level))
	}

	return nil
}

// HasSink reports whether the named sink is enabled
func (m *Manager) HasSink(name string) bool {
	for _, s := range m.config.Output.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// GetDatabaseConnectionString returns a formatted database connection string
func (m *Manager) GetDatabaseConnectionString() string {
	db := m.config.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}

// GetDatabaseURL returns the database configuration as a postgres URL, the
// form golang-migrate expects
func (m *Manager) GetDatabaseURL() string {
	db := m.config.Database
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.Username, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Database,
		RawQuery: "sslmode=" + url.QueryEscape(db.SSLMode),
	}
	return u.String()
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.Environment) == "production"
}

var _ domain.ConfigManager = (*Manager)(nil)
