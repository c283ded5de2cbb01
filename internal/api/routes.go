package api

import (
	"net/http"

	"github.com/JaimeStill/content-lab/internal/articles"
	"github.com/JaimeStill/content-lab/internal/config"
	"github.com/JaimeStill/content-lab/internal/documents"
	"github.com/JaimeStill/content-lab/internal/outbox"
	"github.com/JaimeStill/content-lab/internal/tasks"
	"github.com/JaimeStill/content-lab/pkg/openapi"
	"github.com/JaimeStill/content-lab/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	basePath := cfg.API.BasePath

	articlesHandler := articles.NewHandler(domain.Articles, runtime.Logger, runtime.Pagination, basePath)
	tasksHandler := tasks.NewHandler(domain.Tasks, runtime.Logger, runtime.Pagination, basePath)
	documentsHandler := documents.NewHandler(domain.Documents, runtime.Logger, runtime.Pagination, basePath, cfg.Storage)
	outboxHandler := outbox.NewHandler(domain.Outbox, runtime.Logger, runtime.Pagination, basePath)

	routes.Register(
		mux,
		basePath,
		spec,
		articlesHandler.Routes(),
		articlesHandler.SearchRoutes(),
		tasksHandler.Routes(),
		tasksHandler.SearchRoutes(),
		documentsHandler.Routes(),
		outboxHandler.Routes(),
	)
}
