package http

import (
	"context"
	"io"
	gohttp "net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/reqid"
)

func TestSendJSONWithQueryAndRequestID(t *testing.T) {
	var gotBody, gotQuery, gotID, gotCT string
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody, gotQuery = string(b), r.URL.RawQuery
		gotID, gotCT = r.Header.Get(reqid.Header), r.Header.Get("Content-Type")
		w.WriteHeader(gohttp.StatusCreated)
		w.Write([]byte(`{"data":{"id":1}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/api/v1/")
	ctx := reqid.WithValue(context.Background(), "rid-42")
	resp, err := c.Post("/products").
		Query(url.Values{"x": {"1"}}).
		Body(map[string]int{"stock": 3}).
		WithContext(ctx).
		Send()
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, gohttp.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"stock":3}`, gotBody)
	assert.Equal(t, "x=1", gotQuery)
	assert.Equal(t, "rid-42", gotID)
	assert.Equal(t, "application/json", gotCT)

	var out struct {
		Data struct{ ID int } `json:"data"`
	}
	require.NoError(t, resp.JSON(&out))
	assert.Equal(t, 1, out.Data.ID)
}

func TestTimeoutIsPerRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL).Get("/slow").Timeout(50 * time.Millisecond).Send()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestErrorStatusesAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		calls.Add(1)
		w.WriteHeader(gohttp.StatusInternalServerError)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Get("/").Retry(3, time.Millisecond).Send()
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransportFailuresAreRetried(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(gohttp.ResponseWriter, *gohttp.Request) {}))
	addr := srv.URL
	srv.Close()

	var attempts atomic.Int32
	c := NewClient(addr).WithHTTPClient(&gohttp.Client{Transport: roundTripFunc(func(r *gohttp.Request) (*gohttp.Response, error) {
		attempts.Add(1)
		return gohttp.DefaultTransport.RoundTrip(r)
	})})

	_, err := c.Get("/").Retry(3, time.Millisecond).Send()
	assert.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())
}

type roundTripFunc func(*gohttp.Request) (*gohttp.Response, error)

func (f roundTripFunc) RoundTrip(r *gohttp.Request) (*gohttp.Response, error) { return f(r) }
