package articles

import (
	"maps"

	"github.com/JaimeStill/content-lab/pkg/openapi"
)

type spec struct {
	List   *openapi.Operation
	Count  *openapi.Operation
	Find   *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
	Search *openapi.Operation
}

func filterParams() []*openapi.Parameter {
	return []*openapi.Parameter{
		{Name: "status", In: "query", Description: "Exact status", Schema: statusSchema()},
		{Name: "type", In: "query", Description: "Exact type", Schema: typeSchema()},
		openapi.QueryParam("created_by", "string", "Creator login (contains)", false),
	}
}

func statusSchema() *openapi.Schema {
	values := make([]string, len(Statuses))
	for i, s := range Statuses {
		values[i] = string(s)
	}
	return &openapi.Schema{Type: "string", Enum: values}
}

func typeSchema() *openapi.Schema {
	values := make([]string, len(Types))
	for i, t := range Types {
		values[i] = string(t)
	}
	return &openapi.Schema{Type: "string", Enum: values}
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List articles",
		Description: "List articles with pagination headers and optional filters",
		Parameters: append(append(openapi.PageParams(),
			openapi.QueryParam("search", "string", "Search in title", false)),
			filterParams()...,
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponsePage("Articles", "Article"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Count: &openapi.Operation{
		Summary:    "Count articles",
		Parameters: filterParams(),
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Number of matching articles",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "integer"}},
				},
			},
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find article",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Article ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Article", "Article"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create article",
		Description: "Create a DRAFT article, index it and attach its generated PDF. The id must be omitted.",
		RequestBody: openapi.RequestBodyJSON("SaveArticleCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Article created", "ArticleSaveResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update article",
		Description: "Save an article by id, or create it when the id is omitted. Articles cannot be moved into PUBLISHED directly.",
		RequestBody: openapi.RequestBodyJSON("SaveArticleCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Article updated", "ArticleSaveResult"),
			201: openapi.ResponseJSON("Article created", "ArticleSaveResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete article",
		Description: "Delete an article with its index entry and related documents. Fails while tasks reference it.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Article ID"),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Article deleted"},
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search articles",
		Description: "Full-text search over article titles and plain-text content, best match first",
		Parameters: append([]*openapi.Parameter{
			openapi.QueryParam("query", "string", "Search terms", true),
		}, openapi.PageParams()[:2]...),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponsePage("Matching articles", "Article"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	article := map[string]*openapi.Schema{
		"id":               {Type: "string", Format: "uuid"},
		"title":            {Type: "string"},
		"content":          {Type: "string", Description: "HTML body"},
		"status":           statusSchema(),
		"type":             typeSchema(),
		"created_by":       {Type: "string"},
		"created_at":       {Type: "string", Format: "date-time"},
		"last_modified_by": {Type: "string"},
		"last_modified_at": {Type: "string", Format: "date-time"},
	}

	result := make(map[string]*openapi.Schema, len(article)+1)
	maps.Copy(result, article)
	result["sync"] = openapi.SchemaRef("ArticleSyncReport")

	return map[string]*openapi.Schema{
		"Article": {
			Type:       "object",
			Properties: article,
		},
		"ArticleSaveResult": {
			Type:       "object",
			Properties: result,
		},
		"ArticleSyncReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"indexed":        {Type: "boolean"},
				"index_error":    {Type: "string"},
				"document":       {Type: "string", Format: "uuid", Description: "Generated PDF document"},
				"document_error": {Type: "string"},
				"render_error":   {Type: "string"},
				"pending":        {Type: "boolean", Description: "A retryable step failed and will be retried"},
			},
		},
		"SaveArticleCommand": {
			Type:     "object",
			Required: []string{"title", "type"},
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"title":      {Type: "string"},
				"content":    {Type: "string", Description: "HTML body"},
				"status":     statusSchema(),
				"type":       typeSchema(),
				"created_by": {Type: "string"},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
	}
}
