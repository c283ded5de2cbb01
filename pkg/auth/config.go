package auth

import "os"

// Config names the request headers that carry the upstream identity.
type Config struct {
	UserHeader        string `toml:"user_header"`
	AuthoritiesHeader string `toml:"authorities_header"`
}

// Env names the environment variables that override Config fields.
type Env struct {
	UserHeader        string
	AuthoritiesHeader string
}

// Finalize applies defaults and loads environment overrides.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.UserHeader != "" {
		c.UserHeader = overlay.UserHeader
	}
	if overlay.AuthoritiesHeader != "" {
		c.AuthoritiesHeader = overlay.AuthoritiesHeader
	}
}

func (c *Config) loadDefaults() {
	if c.UserHeader == "" {
		c.UserHeader = "X-Auth-User"
	}
	if c.AuthoritiesHeader == "" {
		c.AuthoritiesHeader = "X-Auth-Authorities"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.UserHeader != "" {
		if v := os.Getenv(env.UserHeader); v != "" {
			c.UserHeader = v
		}
	}
	if env.AuthoritiesHeader != "" {
		if v := os.Getenv(env.AuthoritiesHeader); v != "" {
			c.AuthoritiesHeader = v
		}
	}
}
