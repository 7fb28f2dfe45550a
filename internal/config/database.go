package config

import (
	"fmt"
)

// DSN returns the driver connection string for the configured store.
// An explicit URL always wins.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	switch c.Type {
	case "postgres":
		return buildPostgresDSN(c)
	default:
		return c.DatabasePath
	}
}

// buildPostgresDSN builds a key/value PostgreSQL connection string from config
func buildPostgresDSN(cfg DatabaseConfig) string {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.Username == "" {
		cfg.Username = "cinelist"
	}
	if cfg.Database == "" {
		cfg.Database = "cinelist"
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port)
}
