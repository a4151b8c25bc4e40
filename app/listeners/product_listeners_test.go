package listeners

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/event"
)

type recorder struct{ msgs []string }

func (r *recorder) Publish(msg []byte) bool {
	r.msgs = append(r.msgs, string(msg))
	return true
}

func TestRegisterBroadcastsChanges(t *testing.T) {
	events := event.New()
	feed := &recorder{}
	Register(events, feed)

	events.Fire(services.EventProductChanged, services.ProductChanged{
		Action:    "update",
		ProductID: 7,
		At:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	require.Len(t, feed.msgs, 1)
	assert.JSONEq(t, `{"action":"update","product_id":7,"at":"2026-03-01T12:00:00Z"}`, feed.msgs[0])
}

func TestRegisterWithoutFeed(t *testing.T) {
	events := event.New()
	Register(events, nil)
	assert.Equal(t, 1, events.Listeners(services.EventProductChanged))
}
