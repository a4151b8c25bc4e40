package routes_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/controllers"
	appgraphql "github.com/shashiranjanraj/catalog/app/graphql"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/app"
	gql "github.com/shashiranjanraj/catalog/pkg/graphql"
	"github.com/shashiranjanraj/catalog/pkg/router"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

func newAPI(t *testing.T, store repositories.ProductStore) routes.API {
	t.Helper()
	svc := services.NewProductService(store, nil)
	schema, err := appgraphql.NewSchema(svc)
	require.NoError(t, err)
	return routes.API{
		Products: controllers.NewProductController(svc, 1<<16),
		Health:   controllers.NewHealthController(svc),
		GraphQL:  gql.Handler(schema),
		Timeout:  5 * time.Second,
	}
}

func handler(t *testing.T) http.Handler {
	api := newAPI(t, repositories.NewMemoryProductStore())
	return app.New(app.Options{}).Routes(func(r *router.Router) {
		routes.Register(r, api)
	}).Handler()
}

func TestScenarios(t *testing.T) {
	testkit.RunDir(t, handler, "testdata")
}

func TestRouteNames(t *testing.T) {
	a := app.New(app.Options{}).Routes(func(r *router.Router) {
		routes.Register(r, newAPI(t, repositories.NewMemoryProductStore()))
	})
	r := a.Router()

	url, err := r.URL("api.products.audits", map[string]string{"id": "3"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/products/3/audits", url)

	path, ok := r.Path("products.patch")
	require.True(t, ok)
	assert.Equal(t, "/products/{id}", path)

	_, ok = r.Path("products.feed")
	assert.False(t, ok, "feed is only mounted when a hub is supplied")
}

type downStore struct{ repositories.ProductStore }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthReportsUnavailableStore(t *testing.T) {
	api := newAPI(t, downStore{repositories.NewMemoryProductStore()})
	h := app.New(app.Options{}).Routes(func(r *router.Router) { routes.Register(r, api) }).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/up", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestGraphQLRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/graphql?query=%7B%20products%20%7B%20pagination%20%7B%20totalCount%20%7D%20%7D%20%7D", nil)
	handler(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"products":{"pagination":{"totalCount":0}}}}`, rec.Body.String())
}
