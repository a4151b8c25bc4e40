package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/repositories"
)

func bootMemory(t *testing.T) *Catalog {
	t.Helper()
	t.Setenv("PRODUCT_STORE", "memory")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("LOG_MONGO_URI", "")

	c, err := Boot(context.Background(), Options{LogOutput: io.Discard})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })
	return c
}

func TestBootSeedsMemoryStore(t *testing.T) {
	c := bootMemory(t)

	assert.Nil(t, c.DB)
	page, err := c.Service.List(context.Background(), repositories.ProductFilter{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Pagination.TotalCount)
}

func TestServeAndShutdown(t *testing.T) {
	c := bootMemory(t)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + lis.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, c, lis, "") }()

	var res *http.Response
	require.Eventually(t, func() bool {
		res, err = http.Get(base + "/up")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(base + "/api/v1/products?per_page=5")
	require.NoError(t, err)
	var body struct {
		Data []map[string]interface{} `json:"data"`
		Meta struct {
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	res.Body.Close()
	assert.Len(t, body.Data, 5)
	assert.Equal(t, 5, body.Meta.TotalPages)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestFeedChecksOrigin(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://shop.example.com")
	c := bootMemory(t)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	feed := "ws://" + lis.Addr().String() + "/ws/products"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, c, lis, "") }()
	defer func() {
		cancel()
		<-done
	}()

	var res *http.Response
	require.Eventually(t, func() bool {
		_, res, err = websocket.DefaultDialer.Dial(feed, http.Header{"Origin": {"https://evil.example.com"}})
		return res != nil
	}, 2*time.Second, 20*time.Millisecond)
	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(feed, http.Header{"Origin": {"https://shop.example.com"}})
	require.NoError(t, err)
	conn.Close()
}
