package outbox

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config controls retry timing of the relay.
type Config struct {
	PollInterval string `toml:"poll_interval"`
	BatchSize    int    `toml:"batch_size"`
	MaxAttempts  int    `toml:"max_attempts"`
	BaseBackoff  string `toml:"base_backoff"`
	MaxBackoff   string `toml:"max_backoff"`
	Lease        string `toml:"lease"`
}

// Env names the environment variables that override Config fields.
type Env struct {
	PollInterval string
	BatchSize    string
	MaxAttempts  string
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.BatchSize > 0 {
		c.BatchSize = overlay.BatchSize
	}
	if overlay.MaxAttempts > 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.BaseBackoff != "" {
		c.BaseBackoff = overlay.BaseBackoff
	}
	if overlay.MaxBackoff != "" {
		c.MaxBackoff = overlay.MaxBackoff
	}
	if overlay.Lease != "" {
		c.Lease = overlay.Lease
	}
}

func (c *Config) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

func (c *Config) BaseBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.BaseBackoff)
	return d
}

func (c *Config) MaxBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.MaxBackoff)
	return d
}

// LeaseDuration is how long a claimed or freshly enqueued event stays invisible
// to the relay while its owner works on it.
func (c *Config) LeaseDuration() time.Duration {
	d, _ := time.ParseDuration(c.Lease)
	return d
}

// Backoff returns the delay before the attempt following `attempts` failures.
func (c *Config) Backoff(attempts int) time.Duration {
	base, ceiling := c.BaseBackoffDuration(), c.MaxBackoffDuration()
	d := base
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= ceiling {
			return ceiling
		}
	}
	return min(d, ceiling)
}

func (c *Config) loadDefaults() {
	if c.PollInterval == "" {
		c.PollInterval = "5s"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 20
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 8
	}
	if c.BaseBackoff == "" {
		c.BaseBackoff = "2s"
	}
	if c.MaxBackoff == "" {
		c.MaxBackoff = "10m"
	}
	if c.Lease == "" {
		c.Lease = "1m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.PollInterval != "" {
		if v := os.Getenv(env.PollInterval); v != "" {
			c.PollInterval = v
		}
	}
	if env.BatchSize != "" {
		if v := os.Getenv(env.BatchSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.BatchSize = n
			}
		}
	}
	if env.MaxAttempts != "" {
		if v := os.Getenv(env.MaxAttempts); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxAttempts = n
			}
		}
	}
}

func (c *Config) validate() error {
	for name, v := range map[string]string{
		"poll_interval": c.PollInterval,
		"base_backoff":  c.BaseBackoff,
		"max_backoff":   c.MaxBackoff,
		"lease":         c.Lease,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.BaseBackoffDuration() > c.MaxBackoffDuration() {
		return fmt.Errorf("base_backoff exceeds max_backoff")
	}
	return nil
}
