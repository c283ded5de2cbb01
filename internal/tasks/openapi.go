package tasks

import "github.com/JaimeStill/content-lab/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
	Search *openapi.Operation
}

func statusSchema() *openapi.Schema {
	values := make([]string, len(Statuses))
	for i, s := range Statuses {
		values[i] = string(s)
	}
	return &openapi.Schema{Type: "string", Enum: values}
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List tasks",
		Description: "List tasks with pagination headers. Callers without ROLE_ADMIN only see OPEN tasks.",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("search", "string", "Search in title and description", false),
			&openapi.Parameter{Name: "status", In: "query", Description: "Exact status (admins only)", Schema: statusSchema()},
			openapi.QueryParam("article_id", "string", "Only tasks of this article", false),
			openapi.QueryParam("created_by", "string", "Creator login (contains)", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponsePage("Tasks", "Task"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find task",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Task ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Task", "Task"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create task",
		Description: "Create a review task for an article. The id must be omitted.",
		RequestBody: openapi.RequestBodyJSON("SaveTaskCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Task created", "TaskSaveResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update task",
		Description: "Save a task by id, or create it when the id is omitted. Saving a CLOSED task publishes its article.",
		RequestBody: openapi.RequestBodyJSON("SaveTaskCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Task updated", "TaskSaveResult"),
			201: openapi.ResponseJSON("Task created", "TaskSaveResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Delete: &openapi.Operation{
		Summary: "Delete task",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Task ID"),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Task deleted"},
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search tasks",
		Description: "Full-text search over task titles and descriptions, best match first",
		Parameters: append([]*openapi.Parameter{
			openapi.QueryParam("query", "string", "Search terms", true),
		}, openapi.PageParams()[:2]...),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponsePage("Matching tasks", "Task"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Task": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"status":      statusSchema(),
				"article_id":  {Type: "string", Format: "uuid"},
				"created_by":  {Type: "string"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"TaskSaveResult": {
			Type:        "object",
			Description: "The saved task fields plus a sync report",
			Properties: map[string]*openapi.Schema{
				"id":   {Type: "string", Format: "uuid"},
				"sync": openapi.SchemaRef("TaskSyncReport"),
			},
		},
		"TaskSyncReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"indexed":       {Type: "boolean"},
				"index_error":   {Type: "string"},
				"publication":   openapi.SchemaRef("ArticleSaveResult"),
				"publish_error": {Type: "string"},
				"pending":       {Type: "boolean"},
			},
		},
		"SaveTaskCommand": {
			Type:     "object",
			Required: []string{"title", "article_id"},
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"status":      statusSchema(),
				"article_id":  {Type: "string", Format: "uuid"},
				"created_by":  {Type: "string"},
				"created_at":  {Type: "string", Format: "date-time"},
			},
		},
	}
}
