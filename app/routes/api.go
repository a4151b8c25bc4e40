package routes

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// APIPrefix is where the versioned copy of the product routes lives.
const APIPrefix = "/api/v1"

// API holds everything the routes point at. GraphQL and Feed are optional.
type API struct {
	Products *controllers.ProductController
	Health   *controllers.HealthController
	GraphQL  http.Handler
	Feed     http.Handler
	Timeout  time.Duration
}

// Register mounts the catalog routes on r. Product routes are served both at
// the root and under APIPrefix. The change feed is long-lived and stays
// outside the request timeout.
func Register(r *router.Router, api API) {
	var bounded []router.Middleware
	if api.Timeout > 0 {
		bounded = append(bounded, chimw.Timeout(api.Timeout))
	}

	r.Get("/up", "up", ctx.Wrap(api.Health.Up))
	r.Get("/metrics", "metrics", metrics.Handler())

	products(r.Group("/", "", bounded...), api.Products)
	products(r.Group(APIPrefix, "api.", bounded...), api.Products)

	if api.GraphQL != nil {
		r.Group("/", "", bounded...).Handle("/graphql", "graphql", api.GraphQL)
	}
	if api.Feed != nil {
		r.Get("/ws/products", "products.feed", api.Feed.ServeHTTP)
	}
}

func products(g *router.Group, pc *controllers.ProductController) {
	p := g.Group("/products", "products.")
	p.Get("/", "index", ctx.Wrap(pc.Index))
	p.Post("/", "store", ctx.Wrap(pc.Store))
	p.Get("/{id}", "show", ctx.Wrap(pc.Show))
	p.Put("/{id}", "update", ctx.Wrap(pc.Update))
	p.Patch("/{id}", "patch", ctx.Wrap(pc.Update))
	p.Delete("/{id}", "destroy", ctx.Wrap(pc.Destroy))
	p.Get("/{id}/audits", "audits", ctx.Wrap(pc.Audits))
}
