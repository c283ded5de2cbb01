package tasks

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/pkg/handlers"
	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/routes"
)

const entityName = "task"

// Handler provides HTTP endpoints for task operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	basePath   string
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, basePath string) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "tasks"),
		pagination: pagination,
		basePath:   basePath,
	}
}

// Routes returns the task route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/tasks",
		Tags:        []string{"Tasks"},
		Description: "Review tasks; closing a task publishes its article",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			{Method: "PUT", Pattern: "", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
		},
	}
}

// SearchRoutes returns the full-text search route group, mounted under /_search.
func (h *Handler) SearchRoutes() routes.Group {
	return routes.Group{
		Prefix: "/_search/tasks",
		Tags:   []string{"Tasks"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Search, OpenAPI: Spec.Search},
		},
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd SaveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.fail(w, http.StatusBadRequest, "invalidbody", err)
		return
	}

	if cmd.ID != nil {
		h.failErr(w, ErrIDExists)
		return
	}

	h.save(w, r, cmd)
}

// Update saves a task. A body without an id creates one.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd SaveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.fail(w, http.StatusBadRequest, "invalidbody", err)
		return
	}

	h.save(w, r, cmd)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, cmd SaveCommand) {
	created := cmd.ID == nil

	result, err := h.sys.Save(r.Context(), cmd)
	if err != nil {
		h.failErr(w, err)
		return
	}

	id := result.ID.String()
	if created {
		w.Header().Set("Location", h.basePath+"/tasks/"+id)
		handlers.SetAlert(w, entityName, "created", id)
		handlers.RespondJSON(w, http.StatusCreated, result)
		return
	}

	handlers.SetAlert(w, entityName, "updated", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		h.failErr(w, err)
		return
	}

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		h.failErr(w, err)
		return
	}

	pagination.WriteHeaders(w, result.Meta(), h.basePath+r.URL.Path, r.URL.Query())
	handlers.RespondJSON(w, http.StatusOK, result.Data)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "idinvalid", err)
		return
	}

	t, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.failErr(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "idinvalid", err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.failErr(w, err)
		return
	}

	handlers.SetAlert(w, entityName, "deleted", id.String())
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.Search(r.Context(), r.URL.Query().Get("query"), page)
	if err != nil {
		h.failErr(w, err)
		return
	}

	pagination.WriteHeaders(w, result.Meta(), h.basePath+r.URL.Path, r.URL.Query())
	handlers.RespondJSON(w, http.StatusOK, result.Data)
}

func (h *Handler) fail(w http.ResponseWriter, status int, key string, err error) {
	handlers.RespondAlertError(w, h.logger, status, entityName, key, err)
}

func (h *Handler) failErr(w http.ResponseWriter, err error) {
	h.fail(w, MapHTTPStatus(err), ErrorKey(err), err)
}
