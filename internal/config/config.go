// Package config defines the vaultpad configuration and its loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emirkaya/vaultpad/internal/domain"
)

// Config is the complete vaultpad configuration
type Config struct {
	// Store configures the content root and item layout
	Store StoreConfig `mapstructure:"store"`

	// Security configures credential policy
	Security SecurityConfig `mapstructure:"security"`

	// Journal configures the mutation journal
	Journal JournalConfig `mapstructure:"journal"`

	// Log configures logging
	Log LogConfig `mapstructure:"log"`
}

// StoreConfig locates the content root and index files
type StoreConfig struct {
	// Root is the content root directory. Required.
	Root string `mapstructure:"root"`

	// PayloadExt is the payload extension without the dot. Default "html".
	PayloadExt string `mapstructure:"payload_ext"`

	// HistoryFile is the recency index path. Defaults to a sibling of the
	// root; it must never live inside the root, where Scan would list it
	// as an item.
	HistoryFile string `mapstructure:"history_file"`

	// PinsFile is the pin index path. Defaults to a sibling of the root.
	PinsFile string `mapstructure:"pins_file"`
}

// SecurityConfig is the credential policy
type SecurityConfig struct {
	// MinPasswordLength is the shortest acceptable item password
	MinPasswordLength int `mapstructure:"min_password_length"`

	// RememberPasswords enables storing item passwords in the OS keyring
	RememberPasswords bool `mapstructure:"remember_passwords"`
}

// JournalConfig controls the sqlite mutation journal
type JournalConfig struct {
	// Enabled turns journaling on. Default true.
	Enabled bool `mapstructure:"enabled"`

	// DataDir holds the journal database. Defaults to the user config dir.
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig controls logging output
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`

	// File, when set, adds a rotating log file output
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Validate checks the configuration for completeness
func (c *Config) Validate() error {
	if c.Store.Root == "" {
		return fmt.Errorf("%w: store root cannot be empty", domain.ErrConfigInvalid)
	}
	if c.Security.MinPasswordLength < 0 {
		return fmt.Errorf("%w: min_password_length cannot be negative", domain.ErrConfigInvalid)
	}
	if c.Log.Level != "" {
		switch c.Log.Level {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("%w: unknown log level: %s", domain.ErrConfigInvalid, c.Log.Level)
		}
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: unknown log format: %s", domain.ErrConfigInvalid, c.Log.Format)
	}
	return nil
}

// HistoryPath returns the effective recency index path
func (c *Config) HistoryPath() string {
	if c.Store.HistoryFile != "" {
		return ExpandPath(c.Store.HistoryFile)
	}
	root := ExpandPath(c.Store.Root)
	return filepath.Join(filepath.Dir(root), "history.json")
}

// PinsPath returns the effective pin index path
func (c *Config) PinsPath() string {
	if c.Store.PinsFile != "" {
		return ExpandPath(c.Store.PinsFile)
	}
	root := ExpandPath(c.Store.Root)
	return filepath.Join(filepath.Dir(root), "pinned.json")
}

// JournalDir returns the effective journal data directory
func (c *Config) JournalDir() string {
	if c.Journal.DataDir != "" {
		return ExpandPath(c.Journal.DataDir)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "vaultpad")
	}
	return filepath.Join(ExpandPath(c.Store.Root), ".vaultpad")
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			if len(path) > 1 && (path[1] == '/' || path[1] == filepath.Separator) {
				path = filepath.Join(home, path[2:])
			} else if len(path) == 1 {
				path = home
			}
		}
	}
	path = os.ExpandEnv(path)
	return filepath.Clean(path)
}
