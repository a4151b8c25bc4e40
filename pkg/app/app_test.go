package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

func newTestApp(opts Options) http.Handler {
	return New(opts).Routes(func(r *router.Router) {
		r.Get("/ok", "ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		r.Get("/boom", "boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	}).Handler()
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestPanicBecomesEnvelopeWithRequestID(t *testing.T) {
	rec := serve(newTestApp(Options{}), http.MethodGet, "/boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"internal_error","message":"Something went wrong"}}`, rec.Body.String())
	assert.True(t, reqid.Valid(rec.Header().Get(reqid.Header)))
}

func TestUnmatchedRoutesAnswerJSON(t *testing.T) {
	h := newTestApp(Options{})

	rec := serve(h, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"Route not found"}}`, rec.Body.String())

	rec = serve(h, http.MethodPost, "/ok")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRateLimitOption(t *testing.T) {
	h := newTestApp(Options{RateLimit: 2})

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/ok").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/ok").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "/ok").Code)
}

func TestRouterIsBuiltOnce(t *testing.T) {
	a := New(Options{})
	assert.Same(t, a.Router(), a.Router())
}
