package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPrefixesPathsAndNames(t *testing.T) {
	r := New()
	api := r.Group("/api/v1/", "api.")
	api.Get("/products/{id}", "products.show", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	path, ok := r.Path("api.products.show")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/products/{id}", path)

	url, err := r.URL("api.products.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/products/7", url)

	_, err = r.URL("api.products.show", nil)
	assert.Error(t, err)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/7", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestGroupMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := New()
	g := r.Group("/a", "", mw("outer")).Group("/b", "", mw("inner"))
	g.Delete("/c", "", func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }, mw("route"))

	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/a/b/c", nil))
	assert.Equal(t, []string{"outer", "inner", "route", "handler"}, order)
}

func TestRoutesSorted(t *testing.T) {
	r := New()
	noop := func(http.ResponseWriter, *http.Request) {}
	g := r.Group("/products", "products.")
	g.Put("/{id}", "update", noop)
	g.Patch("/{id}", "", noop)
	g.Get("/", "index", noop)
	r.Handle("/metrics", "metrics", http.NotFoundHandler())

	assert.Equal(t, []RouteInfo{
		{Method: "*", Path: "/metrics", Name: "metrics"},
		{Method: http.MethodGet, Path: "/products", Name: "products.index"},
		{Method: http.MethodPatch, Path: "/products/{id}", Name: ""},
		{Method: http.MethodPut, Path: "/products/{id}", Name: "products.update"},
	}, r.Routes())
}
