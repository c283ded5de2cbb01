package outbox

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/content-lab/pkg/auth"
	"github.com/JaimeStill/content-lab/pkg/handlers"
	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/routes"
)

// Handler exposes the outbox to administrators.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	basePath   string
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, basePath string) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "outbox"),
		pagination: pagination,
		basePath:   basePath,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/sync-events",
		Tags:        []string{"Sync Events"},
		Description: "Pending and dead secondary effects of entity writes",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: auth.RequireAuthority(auth.RoleAdmin, h.List), OpenAPI: Spec.List},
			{Method: "POST", Pattern: "/drain", Handler: auth.RequireAuthority(auth.RoleAdmin, h.Drain), OpenAPI: Spec.Drain},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	pagination.WriteHeaders(w, result.Meta(), h.basePath+r.URL.Path, r.URL.Query())
	handlers.RespondJSON(w, http.StatusOK, result.Data)
}

func (h *Handler) Drain(w http.ResponseWriter, r *http.Request) {
	n, err := h.sys.Drain(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]int{"processed": n})
}
