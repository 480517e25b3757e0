package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type     DatabaseType   `json:"type"`
	SQLite   SQLiteConfig   `json:"sqlite"`
	Postgres PostgresConfig `json:"postgres"`
}

// SQLiteConfig holds SQLite specific configuration
type SQLiteConfig struct {
	Path string `json:"path"`
}

// PostgresConfig holds PostgreSQL specific configuration
type PostgresConfig struct {
	URL string `json:"url"`
}

// GetDSN returns the data source name for the database
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case DatabaseTypePostgreSQL:
		return c.Postgres.URL
	default:
		return c.SQLite.Path + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}
}

// GetDatabaseConfig builds the database configuration from DATABASE_URL,
// falling back to a sqlite file in the db folder.
func GetDatabaseConfig() (*DatabaseConfig, error) {
	raw := os.Getenv("DATABASE_URL")
	if raw == "" {
		return &DatabaseConfig{
			Type:   DatabaseTypeSQLite,
			SQLite: SQLiteConfig{Path: filepath.Join(GetDBFolderPath(), GetName()+".db")},
		}, nil
	}
	cfg, err := ParseDatabaseURL(raw)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.ValidateConfig()
}

// ParseDatabaseURL accepts postgres://, postgresql:// and sqlite:// URLs.
// A bare path is treated as a sqlite file.
func ParseDatabaseURL(raw string) (*DatabaseConfig, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		if _, err := url.Parse(raw); err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		return &DatabaseConfig{Type: DatabaseTypePostgreSQL, Postgres: PostgresConfig{URL: raw}}, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return &DatabaseConfig{Type: DatabaseTypeSQLite, SQLite: SQLiteConfig{Path: strings.TrimPrefix(raw, "sqlite://")}}, nil
	case strings.Contains(raw, "://"):
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme in %q", raw)
	default:
		return &DatabaseConfig{Type: DatabaseTypeSQLite, SQLite: SQLiteConfig{Path: raw}}, nil
	}
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLite path cannot be empty")
		}
	case DatabaseTypePostgreSQL:
		u, err := url.Parse(c.Postgres.URL)
		if err != nil {
			return fmt.Errorf("invalid PostgreSQL url: %w", err)
		}
		if u.Host == "" {
			return fmt.Errorf("PostgreSQL host cannot be empty")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// IsPostgreSQL returns true if the database type is PostgreSQL
func (c *DatabaseConfig) IsPostgreSQL() bool {
	return c.Type == DatabaseTypePostgreSQL
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.Type == DatabaseTypeSQLite {
		dir := filepath.Dir(c.SQLite.Path)
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
