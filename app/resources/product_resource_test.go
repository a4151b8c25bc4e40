package resources

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/shashiranjanraj/catalog/app/models"
)

var stamp = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func product(price string) models.Product {
	return models.Product{
		ID:        1,
		Name:      "Desk Lamp",
		Price:     decimal.RequireFromString(price),
		Stock:     3,
		SKU:       "DL001",
		Active:    true,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
}

func TestDetailFormatsPriceWithTwoDecimals(t *testing.T) {
	for in, want := range map[string]string{"19.99": "19.99", "19.9": "19.90", "20": "20.00", "0.5": "0.50"} {
		assert.Equal(t, want, Detail(product(in)).Price, "price %s", in)
	}
}

func TestDetailJSONShape(t *testing.T) {
	raw, err := json.Marshal(Detail(product("19.9")))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1, "name": "Desk Lamp", "description": null, "price": "19.90",
		"stock": 3, "sku": "DL001", "active": true,
		"created_at": "2024-03-01T09:30:00Z", "updated_at": "2024-03-01T09:30:00Z"
	}`, string(raw))
}

func TestSummaryOmitsHeavyFields(t *testing.T) {
	raw, err := json.Marshal(Summary(product("5")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Desk Lamp","price":"5.00","sku":"DL001","active":true}`, string(raw))
}

func TestAuditView(t *testing.T) {
	raw, err := json.Marshal(Audit(models.ProductAudit{
		ID:        4,
		ProductID: 1,
		Action:    models.ActionUpdate,
		Changes:   datatypes.JSONMap{"stock": float64(9)},
		CreatedAt: stamp,
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"action":"update","changes":{"stock":9},"created_at":"2024-03-01T09:30:00Z"}`, string(raw))

	assert.NotNil(t, Audit(models.ProductAudit{}).Changes)
}
