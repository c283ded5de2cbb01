// Package api assembles the content API module: domain systems, their HTTP
// handlers, the OpenAPI document and the module middleware.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/content-lab/internal/config"
	"github.com/JaimeStill/content-lab/internal/infrastructure"
	"github.com/JaimeStill/content-lab/pkg/auth"
	"github.com/JaimeStill/content-lab/pkg/middleware"
	"github.com/JaimeStill/content-lab/pkg/module"
	"github.com/JaimeStill/content-lab/pkg/openapi"
)

// NewModule builds the API module mounted at cfg.API.BasePath and starts the
// outbox relay on the infrastructure lifecycle.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg)

	spec := cfg.API.OpenAPI.NewSpec(cfg.Version)
	if cfg.Domain != "" {
		spec.AddServer(cfg.Domain)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	if err := domain.Outbox.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("outbox start failed: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth.Middleware(&cfg.Auth))

	return m, nil
}
