package reqid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddlewareReusesValidID(t *testing.T) {
	var seen string
	h := Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(Header))
}

func TestMiddlewareReplacesInvalidID(t *testing.T) {
	for _, bad := range []string{"", "has space", strings.Repeat("x", 65)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(Header, bad)
		rec := httptest.NewRecorder()
		Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

		got := rec.Header().Get(Header)
		assert.Len(t, got, 32, "input %q", bad)
		assert.True(t, Valid(got))
	}
}

func TestInject(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithValue(context.Background(), "rid-9"))
	Inject(req)
	assert.Equal(t, "rid-9", req.Header.Get(Header))

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	Inject(plain)
	assert.Empty(t, plain.Header.Get(Header))
}
