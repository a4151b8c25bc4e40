// Package seeders fills a product store with data.
//
// A seeder registers itself from init:
//
//	func init() {
//	    seeders.Register("products", SeedProducts)
//	}
//
// and runs through the CLI (catalog seed) or at boot for the memory store.
package seeders

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// SeederFunc writes seed data through store.
type SeederFunc func(ctx context.Context, store repositories.ProductStore) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order and stops on
// the first error.
func RunAll(ctx context.Context, store repositories.ProductStore) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	for _, e := range current {
		logger.WithCtx(ctx).Info("seeders: running", "seeder", e.name)
		if err := e.fn(ctx, store); err != nil {
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
	}
	return nil
}
