// Package routes describes HTTP routes together with their OpenAPI operations
// and registers them on a ServeMux while building the API document.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/content-lab/pkg/openapi"
)

// Route is a single method and pattern bound to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// AddToSpec adds the operations and schemas of g and its children to spec.
// Routes without an OpenAPI operation are left out of the document.
func (g *Group) AddToSpec(basePath string, spec *openapi.Spec) {
	g.walk(basePath, func(prefix string, group *Group) {
		if len(group.Schemas) > 0 {
			if spec.Components == nil {
				spec.Components = openapi.NewComponents()
			}
			spec.Components.AddSchemas(group.Schemas)
		}

		for _, route := range group.Routes {
			if route.OpenAPI == nil {
				continue
			}

			op := route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = group.Tags
			}

			path := prefix + route.Pattern
			item, ok := spec.Paths[path]
			if !ok {
				item = &openapi.PathItem{}
				spec.Paths[path] = item
			}

			switch strings.ToUpper(route.Method) {
			case http.MethodGet:
				item.Get = op
			case http.MethodPost:
				item.Post = op
			case http.MethodPut:
				item.Put = op
			case http.MethodDelete:
				item.Delete = op
			}
		}
	})
}

func (g *Group) walk(parent string, fn func(prefix string, group *Group)) {
	prefix := parent + g.Prefix
	fn(prefix, g)
	for i := range g.Children {
		g.Children[i].walk(prefix, fn)
	}
}

// Register binds every route of groups onto mux and records them in spec.
// Mux patterns are relative to the module mount point; spec paths include basePath.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for i := range groups {
		group := &groups[i]
		group.walk("", func(prefix string, g *Group) {
			for _, route := range g.Routes {
				mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
			}
		})
		if spec != nil {
			group.AddToSpec(basePath, spec)
		}
	}
}
