package documents

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/pkg/handlers"
	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/routes"
	"github.com/JaimeStill/content-lab/pkg/storage"
)

const entityName = "relatedDocument"

// Handler provides HTTP endpoints for related document operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	basePath   string
	uploads    storage.Config
}

// NewHandler creates a document handler. basePath prefixes pagination links and
// uploads bounds accepted file size and media type.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, basePath string, uploads storage.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "documents"),
		pagination: pagination,
		basePath:   basePath,
		uploads:    uploads,
	}
}

// Routes returns the document endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/related-documents",
		Tags:        []string{"Related Documents"},
		Description: "Attachments linked to articles",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "GET", Pattern: "/{id}/data", Handler: h.Download, OpenAPI: Spec.Download},
			{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: Spec.Upload},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		h.fail(w, http.StatusBadRequest, "invalidfilter", err)
		return
	}

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "internal", err)
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

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.failErr(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "idinvalid", err)
		return
	}

	doc, data, err := h.sys.Data(r.Context(), id)
	if err != nil {
		h.failErr(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.uploads.MaxUploadSizeBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(limit); err != nil {
		h.fail(w, http.StatusRequestEntityTooLarge, "filetoolarge", ErrFileTooLarge)
		return
	}

	articleID, err := uuid.Parse(r.FormValue("article_id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "articleidinvalid", fmt.Errorf("article_id: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.failErr(w, ErrInvalidFile)
		return
	}
	defer file.Close()

	if header.Size > limit {
		h.failErr(w, ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.failErr(w, ErrInvalidFile)
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), data)
	if !h.uploads.Accepts(contentType) {
		h.failErr(w, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType))
		return
	}

	cmd := CreateCommand{
		ArticleID:   articleID,
		Name:        r.FormValue("name"),
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}

	doc, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.failErr(w, err)
		return
	}

	w.Header().Set("Location", h.basePath+"/related-documents/"+doc.ID.String())
	handlers.SetAlert(w, entityName, "created", doc.ID.String())
	handlers.RespondJSON(w, http.StatusCreated, doc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "idinvalid", err)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.fail(w, http.StatusBadRequest, "invalidbody", err)
		return
	}

	doc, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		h.failErr(w, err)
		return
	}

	handlers.SetAlert(w, entityName, "updated", doc.ID.String())
	handlers.RespondJSON(w, http.StatusOK, doc)
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

func (h *Handler) fail(w http.ResponseWriter, status int, key string, err error) {
	handlers.RespondAlertError(w, h.logger, status, entityName, key, err)
}

func (h *Handler) failErr(w http.ResponseWriter, err error) {
	h.fail(w, MapHTTPStatus(err), ErrorKey(err), err)
}

func detectContentType(header string, data []byte) string {
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
