package openapi

import "os"

// Config holds the info block of the served API document.
type Config struct {
	Title        string `toml:"title"`
	Description  string `toml:"description"`
	ContactName  string `toml:"contact_name"`
	ContactEmail string `toml:"contact_email"`
	// License is an SPDX identifier such as "MIT".
	License string `toml:"license"`
}

type ConfigEnv struct {
	Title        string
	Description  string
	ContactName  string
	ContactEmail string
	License      string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Content Lab API"
	}
	if c.Description == "" {
		c.Description = "Articles with search and generated PDFs, the review tasks that publish them, and their related documents."
	}

	if env != nil {
		override(&c.Title, env.Title)
		override(&c.Description, env.Description)
		override(&c.ContactName, env.ContactName)
		override(&c.ContactEmail, env.ContactEmail)
		override(&c.License, env.License)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	merge(&c.Title, overlay.Title)
	merge(&c.Description, overlay.Description)
	merge(&c.ContactName, overlay.ContactName)
	merge(&c.ContactEmail, overlay.ContactEmail)
	merge(&c.License, overlay.License)
}

// NewSpec creates the API document for version from c. Contact and license are
// omitted when unset.
func (c *Config) NewSpec(version string) *Spec {
	spec := NewSpec(c.Title, version)
	spec.SetDescription(c.Description)

	if c.ContactName != "" || c.ContactEmail != "" {
		spec.Info.Contact = &Contact{Name: c.ContactName, Email: c.ContactEmail}
	}
	if c.License != "" {
		spec.Info.License = &License{Name: c.License, Identifier: c.License}
	}
	return spec
}

func override(field *string, name string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*field = v
	}
}

func merge(field *string, v string) {
	if v != "" {
		*field = v
	}
}
