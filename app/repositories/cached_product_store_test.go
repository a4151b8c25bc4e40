package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/cache"
)

type countingStore struct {
	ProductStore
	finds int
}

func (c *countingStore) Find(ctx context.Context, id uint) (models.Product, error) {
	c.finds++
	return c.ProductStore.Find(ctx, id)
}

func TestCachedFindReadsThroughAndEvicts(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{ProductStore: NewMemoryProductStore()}
	store := NewCachedProductStore(inner, cache.NewMemoryStore(), time.Minute)

	p, err := store.Create(ctx, validInput("Desk Lamp", "DL001"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := store.Find(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Desk Lamp", got.Name)
		assert.Equal(t, "19.99", got.Price.StringFixed(2))
	}
	assert.Equal(t, 1, inner.finds)

	_, err = store.Update(ctx, p.ID, ProductInput{Name: str("Desk Lamp Pro")})
	require.NoError(t, err)

	got, err := store.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp Pro", got.Name)
	assert.Equal(t, 2, inner.finds)

	require.NoError(t, store.Destroy(ctx, p.ID))
	_, err = store.Find(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCachedFindDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{ProductStore: NewMemoryProductStore()}
	store := NewCachedProductStore(inner, cache.NewMemoryStore(), time.Minute)

	_, err := store.Find(ctx, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = store.Find(ctx, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 2, inner.finds)
}
