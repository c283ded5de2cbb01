package main

import (
	"net/http"

	"github.com/JaimeStill/content-lab/internal/api"
	"github.com/JaimeStill/content-lab/internal/config"
	"github.com/JaimeStill/content-lab/internal/infrastructure"
	"github.com/JaimeStill/content-lab/pkg/middleware"
	"github.com/JaimeStill/content-lab/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	return router
}

// withMiddleware wraps the root router in the service-wide middleware.
func withMiddleware(router http.Handler, infra *infrastructure.Infrastructure) http.Handler {
	mw := middleware.New()
	mw.Use(middleware.Logger(infra.Logger))
	return mw.Apply(router)
}
