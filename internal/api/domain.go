package api

import (
	"github.com/JaimeStill/content-lab/internal/articles"
	"github.com/JaimeStill/content-lab/internal/config"
	"github.com/JaimeStill/content-lab/internal/documents"
	"github.com/JaimeStill/content-lab/internal/outbox"
	"github.com/JaimeStill/content-lab/internal/tasks"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Outbox    outbox.System
	Documents documents.System
	Articles  articles.System
	Tasks     tasks.System
}

// NewDomain creates all domain systems from the API runtime and registers their
// outbox processors.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	db := runtime.Database.Connection()

	outboxSys := outbox.New(db, &cfg.Outbox, runtime.Logger, runtime.Pagination)

	documentsSys := documents.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	articlesSys := articles.New(
		articles.NewStore(db, outboxSys, runtime.Pagination),
		outboxSys,
		runtime.Index,
		documentsSys,
		runtime.Renderer,
		runtime.Logger,
		runtime.Pagination,
	)

	tasksSys := tasks.New(
		tasks.NewStore(db, outboxSys, runtime.Pagination),
		outboxSys,
		runtime.Index,
		articlesSys,
		runtime.Logger,
		runtime.Pagination,
	)

	outboxSys.Register(articles.Aggregate, outbox.ProcessorFunc(articlesSys.Process))
	outboxSys.Register(tasks.Aggregate, outbox.ProcessorFunc(tasksSys.Process))

	return &Domain{
		Outbox:    outboxSys,
		Documents: documentsSys,
		Articles:  articlesSys,
		Tasks:     tasksSys,
	}
}
