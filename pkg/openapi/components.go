package openapi

// NewComponents returns components pre-populated with the error responses
// and request schemas shared across every resource.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-based)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Substring filter"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields, prefix with - for descending"},
				},
			},
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error":  {Type: "string", Description: "Error message"},
					"entity": {Type: "string", Description: "Entity the error refers to"},
					"key":    {Type: "string", Description: "Stable error key"},
				},
				Required: []string{"error"},
			},
		},
		Responses: map[string]*Response{
			"BadRequest": errorResponse("Invalid request"),
			"Forbidden":  errorResponse("Missing required authority"),
			"NotFound":   errorResponse("Resource not found"),
			"Conflict":   errorResponse("Resource conflict"),
		},
	}
}

// AddSchemas merges schemas into the components.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, schema := range schemas {
		c.Schemas[name] = schema
	}
}

// AddResponses merges responses into the components.
func (c *Components) AddResponses(responses map[string]*Response) {
	for name, resp := range responses {
		c.Responses[name] = resp
	}
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}
