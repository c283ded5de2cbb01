package openapi_test

import (
	"testing"

	"github.com/JaimeStill/content-lab/pkg/openapi"
)

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_LICENSE", "MIT")
	t.Setenv("TEST_OPENAPI_CONTACT_EMAIL", "editors@example.com")

	cfg := &openapi.Config{Title: "Newsroom"}
	env := &openapi.ConfigEnv{License: "TEST_OPENAPI_LICENSE", ContactEmail: "TEST_OPENAPI_CONTACT_EMAIL"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Title != "Newsroom" {
		t.Errorf("Title = %q, want Newsroom", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("Description default not applied")
	}
	if cfg.License != "MIT" || cfg.ContactEmail != "editors@example.com" {
		t.Errorf("env overrides = %q %q, want MIT editors@example.com", cfg.License, cfg.ContactEmail)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := &openapi.Config{Title: "Content Lab API", License: "MIT"}
	cfg.Merge(&openapi.Config{ContactName: "Editorial"})

	want := openapi.Config{Title: "Content Lab API", License: "MIT", ContactName: "Editorial"}
	if *cfg != want {
		t.Errorf("Merge() = %+v, want %+v", *cfg, want)
	}
}

func TestConfig_NewSpec(t *testing.T) {
	tests := []struct {
		name        string
		cfg         openapi.Config
		wantContact bool
		wantLicense bool
	}{
		{"bare", openapi.Config{Title: "API", Description: "d"}, false, false},
		{"contact", openapi.Config{Title: "API", ContactEmail: "editors@example.com"}, true, false},
		{"license", openapi.Config{Title: "API", License: "Apache-2.0"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.cfg.NewSpec("2.0.0")

			if spec.Info.Title != tt.cfg.Title || spec.Info.Version != "2.0.0" {
				t.Errorf("Info = %+v, want title %q version 2.0.0", spec.Info, tt.cfg.Title)
			}
			if spec.Info.Description != tt.cfg.Description {
				t.Errorf("Description = %q, want %q", spec.Info.Description, tt.cfg.Description)
			}
			if (spec.Info.Contact != nil) != tt.wantContact {
				t.Errorf("Contact = %+v, want present %v", spec.Info.Contact, tt.wantContact)
			}
			if (spec.Info.License != nil) != tt.wantLicense {
				t.Errorf("License = %+v, want present %v", spec.Info.License, tt.wantLicense)
			}
			if tt.wantLicense && spec.Info.License.Identifier != tt.cfg.License {
				t.Errorf("License.Identifier = %q, want %q", spec.Info.License.Identifier, tt.cfg.License)
			}
		})
	}
}
