package search

import (
	"fmt"
	"os"
)

// Config locates the index database.
type Config struct {
	Path string `toml:"path"`
}

// Env names the environment variables that override Config fields.
type Env struct {
	Path string
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if c.Path == "" {
		c.Path = ".data/search.db"
	}
	if env != nil && env.Path != "" {
		if v := os.Getenv(env.Path); v != "" {
			c.Path = v
		}
	}
	if c.Path == ":memory:" {
		return fmt.Errorf("path must be a file; in-memory databases are not shared across connections")
	}
	return nil
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}
