package outbox

import "github.com/JaimeStill/content-lab/pkg/openapi"

type spec struct {
	List  *openapi.Operation
	Drain *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List sync events",
		Description: "Pending and dead sync events. Requires ROLE_ADMIN.",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("aggregate", "string", "Filter by aggregate (article, task)", false),
			openapi.QueryParam("dead", "boolean", "Only dead (true) or only retrying (false) events", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponsePage("Sync events", "SyncEvent"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	Drain: &openapi.Operation{
		Summary:     "Process due sync events",
		Description: "Claim and process one batch of due sync events immediately. Requires ROLE_ADMIN.",
		Responses: map[int]*openapi.Response{
			200: {Description: "Number of events processed"},
			403: openapi.ResponseRef("Forbidden"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"SyncEvent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string", Format: "uuid"},
				"aggregate":       {Type: "string", Enum: []string{"article", "task"}},
				"aggregate_id":    {Type: "string", Format: "uuid"},
				"kind":            {Type: "string", Enum: []string{string(KindSync), string(KindRemove)}},
				"attempts":        {Type: "integer"},
				"last_error":      {Type: "string"},
				"dead":            {Type: "boolean"},
				"next_attempt_at": {Type: "string", Format: "date-time"},
				"created_at":      {Type: "string", Format: "date-time"},
			},
		},
	}
}
