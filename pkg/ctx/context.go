// Package ctx provides a gin.Context-inspired request context for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context:
//
//	func (h *ProductController) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    ...
//	    c.Success(resources.Detail(p))
//	}
//
//	// Register with ctx.Wrap:
//	router.Get("/products/{id}", "products.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/catalog/pkg/apierror"
	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair and provides a small helper API.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/products/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 || uint64(uint(n)) != n {
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Queries returns the whole parsed query string.
func (c *Context) Queries() url.Values { return c.R.URL.Query() }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes the JSON body into dest. On a malformed body or mistyped
// field it sends the 422 validation envelope and returns false.
//
//	var in repositories.ProductInput
//	if !c.Bind(&in, maxBody) {
//	    return // response already sent
//	}
func (c *Context) Bind(dest any, maxBytes int64) bool {
	if errs := bind.JSON(c.R, dest, maxBytes); errs.Any() {
		c.Fail(apierror.Validation(errs))
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Success sends 200 {"data": data}.
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, response.Body{Data: data})
}

// Created sends 201 {"data": data}.
func (c *Context) Created(data any) {
	c.JSON(http.StatusCreated, response.Body{Data: data})
}

// NoContent sends 204 with an empty body.
func (c *Context) NoContent() {
	c.status = http.StatusNoContent
	response.NoContent(c.W)
}

// Fail renders err as an error envelope. Errors that are not already an
// *apierror.Error are logged and hidden behind internal_error.
func (c *Context) Fail(err error) {
	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		apiErr = apierror.Unknown(err)
	}
	c.status = apiErr.Status()
	response.Error(c.W, apiErr)
}

// NotFound sends the not_found envelope with message.
func (c *Context) NotFound(message string) {
	c.Fail(apierror.NotFound(message))
}

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }
