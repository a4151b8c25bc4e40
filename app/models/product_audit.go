package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDestroy = "destroy"
)

// ProductAudit is an append-only record of one product mutation.
// Rows are never updated or deleted and outlive the product they reference.
type ProductAudit struct {
	ID        uint              `gorm:"primaryKey"             json:"id"`
	ProductID uint              `gorm:"not null;index"         json:"product_id"`
	Action    string            `gorm:"size:16;not null"       json:"action"`
	Changes   datatypes.JSONMap `gorm:"not null"               json:"changes"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewProductAudit builds an audit row. Changes are normalized through JSON so
// an in-memory row holds exactly what a database round trip would return.
func NewProductAudit(productID uint, action string, changes map[string]interface{}, at time.Time) (ProductAudit, error) {
	raw, err := json.Marshal(changes)
	if err != nil {
		return ProductAudit{}, err
	}
	normalized := datatypes.JSONMap{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return ProductAudit{}, err
	}
	return ProductAudit{
		ProductID: productID,
		Action:    action,
		Changes:   normalized,
		CreatedAt: at,
	}, nil
}
