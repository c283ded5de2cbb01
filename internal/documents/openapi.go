package documents

import "github.com/JaimeStill/content-lab/pkg/openapi"

type spec struct {
	List     *openapi.Operation
	Find     *openapi.Operation
	Download *openapi.Operation
	Upload   *openapi.Operation
	Update   *openapi.Operation
	Delete   *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List related documents",
		Description: "List related documents with pagination headers and optional filters",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("search", "string", "Search in name and filename", false),
			openapi.QueryParam("article_id", "string", "Only documents of this article", false),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
			openapi.QueryParam("content_type", "string", "Filter by content type (contains)", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponsePage("Related documents", "RelatedDocument"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find related document",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Document ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document metadata", "RelatedDocument"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Download: &openapi.Operation{
		Summary:     "Download related document",
		Description: "Stream the stored bytes with the document content type",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Document ID"),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Document bytes"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload related document",
		Description: "Attach a file to an article. Names starting with \"" + GeneratedPrefix + "\" are reserved.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"file":       {Type: "string", Format: "binary", Description: "File to upload"},
							"article_id": {Type: "string", Format: "uuid", Description: "Owning article"},
							"name":       {Type: "string", Description: "Optional display name (defaults to filename)"},
						},
						Required: []string{"file", "article_id"},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Document uploaded", "RelatedDocument"),
			400: openapi.ResponseRef("BadRequest"),
			413: {Description: "File too large"},
			415: {Description: "File type not accepted"},
		},
	},
	Update: &openapi.Operation{
		Summary: "Rename related document",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Document ID"),
		},
		RequestBody: openapi.RequestBodyJSON("RenameDocumentCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document renamed", "RelatedDocument"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete related document",
		Description: "Delete document metadata and its stored bytes",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Document ID"),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Document deleted"},
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"RelatedDocument": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"article_id":   {Type: "string", Format: "uuid"},
				"name":         {Type: "string", Description: "Display name"},
				"filename":     {Type: "string", Description: "Original filename"},
				"content_type": {Type: "string", Description: "MIME type"},
				"size_bytes":   {Type: "integer", Format: "int64", Description: "File size in bytes"},
				"page_count":   {Type: "integer", Description: "Page count (PDFs only)"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"RenameDocumentCommand": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*openapi.Schema{
				"name": {Type: "string", Description: "New display name"},
			},
		},
	}
}
