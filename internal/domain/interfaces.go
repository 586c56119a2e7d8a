package domain

import (
	"context"
)

// TableSink accepts reconciled tables for persistence or upload
type TableSink interface {
	Save(ctx context.Context, result *AssayResult) error
	Close() error
}

// ResultStore is a sink that can return what it stored
type ResultStore interface {
	TableSink
	Latest(ctx context.Context, assay string) (*AssayResult, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetDatabaseURL() string
	IsProduction() bool
}
