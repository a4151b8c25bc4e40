// Package app assembles the HTTP handler of the catalog service: the global
// middleware stack, JSON fallbacks for unmatched routes, and the route
// callbacks supplied by the caller.
//
//	handler := app.New(app.Options{CORSOrigins: config.CORSOrigins()}).
//	    Routes(func(r *router.Router) {
//	        routes.Register(r, api)
//	    }).
//	    Handler()
package app

import (
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/router"
)

// Options tunes the global middleware.
type Options struct {
	CORSOrigins []string

	// RateLimit is the number of requests a client IP may make per
	// RateWindow. Zero disables limiting.
	RateLimit  int
	RateWindow time.Duration
}

// Application collects route callbacks and builds the router once.
type Application struct {
	opts      Options
	routesFns []func(*router.Router)

	once   sync.Once
	router *router.Router
}

func New(opts Options) *Application {
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}
	return &Application{opts: opts}
}

// Routes registers a route callback. Callbacks run in order when the router
// is first built, so all of them must be added before Router or Handler is
// called.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Router returns the fully built router.
func (a *Application) Router() *router.Router {
	a.once.Do(func() { a.router = buildRouter(a) })
	return a.router
}

func (a *Application) Handler() http.Handler {
	return a.Router().Handler()
}
