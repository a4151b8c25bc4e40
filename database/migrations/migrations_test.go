package migrations

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

func TestRunStatusRollback(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var out bytes.Buffer
	runner := migration.New(db, &out)

	require.NoError(t, runner.Run())
	assert.True(t, db.Migrator().HasTable("products"))
	assert.True(t, db.Migrator().HasTable("product_audits"))
	assert.Contains(t, out.String(), "Migrated:  20260101000001_create_product_audits_table")

	out.Reset()
	require.NoError(t, runner.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	pending, err := runner.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	out.Reset()
	require.NoError(t, runner.Status())
	assert.Contains(t, out.String(), "20260101000000_create_products_table")
	assert.Contains(t, out.String(), "Ran")

	require.NoError(t, runner.Rollback())
	assert.False(t, db.Migrator().HasTable("products"))
	assert.False(t, db.Migrator().HasTable("product_audits"))

	pending, err = runner.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
