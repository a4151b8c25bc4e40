package app

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// buildRouter installs the global middleware, then runs the route callbacks.
func buildRouter(a *Application) *router.Router {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics: outermost for accurate total latency
	//  2. Request ID: before anything logs
	//  3. Logger: logs request_id from context
	//  4. Recovery: panics become a logged 500 envelope
	//  5. CORS: headers and preflight
	//  6. Rate limiter: reject abusers early
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(a.opts.CORSOrigins...)))
	if a.opts.RateLimit > 0 {
		r.Use(middleware.RateLimit(a.opts.RateLimit, a.opts.RateWindow))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Status(w, http.StatusNotFound, "not_found", "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Status(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}
