// Package graphql serves a graphql-go schema over HTTP.
//
//	schema, _ := graphql.NewSchema(rootQuery)
//	r.Handle("/graphql", "graphql", graphql.Handler(schema))
//
// POST takes {"query": "...", "variables": {...}, "operationName": "..."};
// GET reads the same fields from the query string.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// NewSchema creates a read-only schema from the root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is one GraphQL operation.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler executes requests against schema. Resolver errors are reported in
// the "errors" array of a 200 response, as GraphQL clients expect.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			req.Query = q.Get("query")
			req.OperationName = q.Get("operationName")
			if raw := q.Get("variables"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
					response.Status(w, http.StatusBadRequest, "bad_request", "variables must be a JSON object")
					return
				}
			}
		case http.MethodPost:
			if errs := bind.JSON(r, &req, bind.DefaultMaxBytes); errs.Any() {
				response.Status(w, http.StatusBadRequest, "bad_request", errs.Error())
				return
			}
		default:
			w.Header().Set("Allow", "GET, POST")
			response.Status(w, http.StatusMethodNotAllowed, "method_not_allowed", "GraphQL accepts GET and POST")
			return
		}

		if req.Query == "" {
			response.Status(w, http.StatusBadRequest, "bad_request", "query is required")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		response.JSON(w, http.StatusOK, result)
	}
}
