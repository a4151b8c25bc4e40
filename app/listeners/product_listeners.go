// Package listeners reacts to product change events fired by the service.
package listeners

import (
	"encoding/json"

	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// Publisher fans a message out to change-feed subscribers.
type Publisher interface {
	Publish(msg []byte) bool
}

// Register counts every mutation and, when feed is non-nil, broadcasts it.
func Register(events *event.Dispatcher, feed Publisher) {
	events.Listen(services.EventProductChanged, func(payload interface{}) {
		if ch, ok := payload.(services.ProductChanged); ok {
			metrics.ProductMutations.WithLabelValues(ch.Action).Inc()
		}
	})

	if feed == nil {
		return
	}
	events.Listen(services.EventProductChanged, func(payload interface{}) {
		msg, err := json.Marshal(payload)
		if err != nil {
			logger.Error("listeners: encode product change", "error", err)
			return
		}
		feed.Publish(msg)
	})
}
