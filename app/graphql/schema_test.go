package graphql

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/services"
)

func run(t *testing.T, schema graphql.Schema, query string) string {
	t.Helper()
	res := graphql.Do(graphql.Params{Schema: schema, RequestString: query, Context: context.Background()})
	out, err := json.Marshal(res)
	require.NoError(t, err)
	return string(out)
}

func seeded(t *testing.T) graphql.Schema {
	t.Helper()
	store := repositories.NewMemoryProductStore()
	svc := services.NewProductService(store, nil)
	ctx := context.Background()

	for _, name := range []string{"Desk Lamp", "Floor Lamp", "Chair"} {
		price := decimal.RequireFromString("19.9")
		stock := 3
		sku := "SKU" + name[:1] + name[len(name)-1:]
		_, err := svc.Create(ctx, repositories.ProductInput{Name: &name, Price: &price, Stock: &stock, SKU: &sku})
		require.NoError(t, err)
	}
	stock := 0
	_, err := svc.Update(ctx, 1, repositories.ProductInput{Stock: &stock})
	require.NoError(t, err)

	schema, err := NewSchema(svc)
	require.NoError(t, err)
	return schema
}

func TestProductsQuery(t *testing.T) {
	schema := seeded(t)

	got := run(t, schema, `{ products(q: "lamp", perPage: 1) { items { id name price } pagination { currentPage perPage totalPages totalCount } } }`)

	assert.JSONEq(t, `{"data":{"products":{
		"items":[{"id":1,"name":"Desk Lamp","price":"19.90"}],
		"pagination":{"currentPage":1,"perPage":1,"totalPages":2,"totalCount":2}}}}`, got)
}

func TestProductQuery(t *testing.T) {
	schema := seeded(t)

	assert.JSONEq(t, `{"data":{"product":{"sku":"SKUCR","stock":3,"description":null}}}`,
		run(t, schema, `{ product(id: 3) { sku stock description } }`))

	got := run(t, schema, `{ product(id: 42) { sku } }`)
	assert.Contains(t, got, "Product not found")
	assert.Contains(t, got, `"product":null`)
}

func TestProductAuditsQuery(t *testing.T) {
	schema := seeded(t)

	got := run(t, schema, `{ productAudits(id: 1) { action changes } }`)

	var res struct {
		Data struct {
			ProductAudits []struct {
				Action  string `json:"action"`
				Changes string `json:"changes"`
			} `json:"productAudits"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &res))
	require.Len(t, res.Data.ProductAudits, 2)
	assert.Equal(t, "create", res.Data.ProductAudits[0].Action)
	assert.Equal(t, "update", res.Data.ProductAudits[1].Action)
	assert.JSONEq(t, `{"stock":0}`, res.Data.ProductAudits[1].Changes)
}
