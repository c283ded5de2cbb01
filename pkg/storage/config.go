package storage

import (
	"fmt"
	"mime"
	"os"
	"strings"

	"github.com/docker/go-units"
)

// Config locates the blob root and bounds what related document uploads may carry.
type Config struct {
	// BasePath is the root directory for filesystem storage.
	// Default: ".data/blobs"
	BasePath string `toml:"base_path"`

	// MaxUploadSize is a human-readable size such as "25MB".
	MaxUploadSize string `toml:"max_upload_size"`

	// AllowedTypes lists media types accepted for uploads. A "type/*" entry
	// accepts any subtype. Empty accepts everything.
	AllowedTypes []string `toml:"allowed_types"`

	maxUploadBytes int64
}

// Env names the environment variables that override Config fields.
// AllowedTypes is read as a comma-separated list.
type Env struct {
	BasePath      string
	MaxUploadSize string
	AllowedTypes  string
}

// MaxUploadSizeBytes is the parsed MaxUploadSize. It is zero until Finalize succeeds.
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadBytes
}

// Accepts reports whether an upload of contentType is permitted.
// Media type parameters such as charset are ignored.
func (c *Config) Accepts(contentType string) bool {
	if len(c.AllowedTypes) == 0 {
		return true
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, allowed := range c.AllowedTypes {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == mt {
			return true
		}
		if prefix, ok := strings.CutSuffix(allowed, "/*"); ok && strings.HasPrefix(mt, prefix+"/") {
			return true
		}
	}
	return false
}

// Finalize applies defaults and environment overrides, then validates.
func (c *Config) Finalize(env *Env) error {
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}

	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero overlay values. AllowedTypes is replaced, not appended.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.AllowedTypes != nil {
		c.AllowedTypes = overlay.AllowedTypes
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := lookup(env.BasePath); v != "" {
		c.BasePath = v
	}
	if v := lookup(env.MaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := lookup(env.AllowedTypes); v != "" {
		c.AllowedTypes = nil
		for t := range strings.SplitSeq(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				c.AllowedTypes = append(c.AllowedTypes, t)
			}
		}
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadBytes = size

	for _, t := range c.AllowedTypes {
		if _, _, err := mime.ParseMediaType(t); err != nil {
			return fmt.Errorf("invalid allowed_types entry %q: %w", t, err)
		}
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
