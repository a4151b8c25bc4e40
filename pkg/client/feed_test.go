package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/client"
)

func TestFeedURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8080/api/v1", "ws://localhost:8080/ws/products"},
		{"https://shop.example.com/api/v1?x=1", "wss://shop.example.com/ws/products"},
		{"http://127.0.0.1:9000", "ws://127.0.0.1:9000/ws/products"},
	}
	for _, tt := range tests {
		got, err := client.FeedURL(tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := client.FeedURL("ftp://files.example.com")
	assert.Error(t, err)
}

func TestSubscribeInvalidatesOnRemoteChanges(t *testing.T) {
	srv := newServer(t)
	watcher := client.New(srv.base())
	editor := client.New(srv.base())

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan client.Change, 4)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Subscribe(ctx, func(ch client.Change) { changes <- ch })
	}()
	require.Eventually(t, func() bool { return srv.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	params := client.ListParams{Page: 1, PerPage: 10}
	page, err := watcher.List(ctx, params)
	require.NoError(t, err)
	assert.True(t, page.Empty())

	created, err := editor.Create(ctx, input("Floor Lamp", "89.00", "FLOOR1"))
	require.NoError(t, err)

	select {
	case ch := <-changes:
		assert.Equal(t, client.ActionCreate, ch.Action)
		assert.Equal(t, created.ID, ch.ProductID)
	case <-time.After(2 * time.Second):
		t.Fatal("no change received")
	}

	page, err = watcher.List(ctx, params)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int32(2), srv.lists.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscribe did not return after cancel")
	}
}
