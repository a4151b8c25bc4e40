package seeders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/database/seeders"
)

func TestSeedProducts(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryProductStore()

	require.NoError(t, seeders.RunAll(ctx, store))

	_, total, err := store.List(ctx, repositories.ProductFilter{Page: 1, PerPage: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)

	inactive := false
	rows, _, err := store.List(ctx, repositories.ProductFilter{Active: &inactive, Page: 1, PerPage: 100})
	require.NoError(t, err)
	var ids []uint
	for _, p := range rows {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []uint{7, 12, 17, 24}, ids)

	p, err := store.Find(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, p.Description, "blank description is stored as absent")

	// Second run leaves the catalog alone.
	require.NoError(t, seeders.SeedProducts(ctx, store))
	_, total, err = store.List(ctx, repositories.ProductFilter{Page: 1, PerPage: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
}
