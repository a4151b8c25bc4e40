// Package graphql exposes a read-only GraphQL view of the catalog: products,
// product and productAudits. Writes stay on the REST API.
package graphql

import (
	"encoding/json"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	gql "github.com/shashiranjanraj/catalog/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"stock":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"sku":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"active":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt":   &graphql.Field{Type: graphql.String},
		"updatedAt":   &graphql.Field{Type: graphql.String},
	},
})

var paginationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Pagination",
	Fields: graphql.Fields{
		"currentPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"perPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalPages":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalCount":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"items":      &graphql.Field{Type: graphql.NewList(productType)},
		"pagination": &graphql.Field{Type: paginationType},
	},
})

// changes is rendered as a JSON-encoded string; its keys vary per action.
var auditType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductAudit",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"action":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"changes":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt": &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the schema over svc.
func NewSchema(svc *services.ProductService) (graphql.Schema, error) {
	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: productPageType,
				Args: graphql.FieldConfigArgument{
					"q":       &graphql.ArgumentConfig{Type: graphql.String},
					"active":  &graphql.ArgumentConfig{Type: graphql.Boolean},
					"page":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"perPage": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: repositories.DefaultPerPage},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := repositories.ProductFilter{Page: p.Args["page"].(int), PerPage: p.Args["perPage"].(int)}
					if q, ok := p.Args["q"].(string); ok {
						f.Query = q
					}
					if active, ok := p.Args["active"].(bool); ok {
						f.Active = &active
					}

					page, err := svc.List(p.Context, f)
					if err != nil {
						return nil, err
					}
					items := make([]map[string]interface{}, 0, len(page.Products))
					for _, prod := range page.Products {
						items = append(items, productFields(resources.Detail(prod)))
					}
					return map[string]interface{}{
						"items": items,
						"pagination": map[string]interface{}{
							"currentPage": page.Pagination.CurrentPage,
							"perPage":     page.Pagination.PerPage,
							"totalPages":  page.Pagination.TotalPages,
							"totalCount":  int(page.Pagination.TotalCount),
						},
					}, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idFrom(p)
					if err != nil {
						return nil, err
					}
					prod, err := svc.Find(p.Context, id)
					if err != nil {
						return nil, err
					}
					return productFields(resources.Detail(prod)), nil
				},
			},
			"productAudits": &graphql.Field{
				Type: graphql.NewList(auditType),
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idFrom(p)
					if err != nil {
						return nil, err
					}
					audits, err := svc.Audits(p.Context, id)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(audits))
					for _, a := range audits {
						view := resources.Audit(a)
						changes, err := json.Marshal(view.Changes)
						if err != nil {
							return nil, err
						}
						out = append(out, map[string]interface{}{
							"id":        int(view.ID),
							"action":    view.Action,
							"changes":   string(changes),
							"createdAt": timestamp(view.CreatedAt),
						})
					}
					return out, nil
				},
			},
		},
	})

	return gql.NewSchema(query)
}

func productFields(v resources.ProductView) map[string]interface{} {
	var description interface{}
	if v.Description != nil {
		description = *v.Description
	}
	return map[string]interface{}{
		"id":          int(v.ID),
		"name":        v.Name,
		"description": description,
		"price":       v.Price,
		"stock":       v.Stock,
		"sku":         v.SKU,
		"active":      v.Active,
		"createdAt":   timestamp(v.CreatedAt),
		"updatedAt":   timestamp(v.UpdatedAt),
	}
}

// idFrom rejects non-positive ids the same way the REST routes do.
func idFrom(p graphql.ResolveParams) (uint, error) {
	id := p.Args["id"].(int)
	if id < 1 {
		return 0, services.ErrNotFound()
	}
	return uint(id), nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
