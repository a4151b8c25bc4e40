package models

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the catalogue.
type Product struct {
	ID          uint            `gorm:"primaryKey"                      json:"id"`
	Name        string          `gorm:"size:100;not null;index"         json:"name"`
	Description *string         `gorm:"type:text"                       json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"     json:"price"`
	Stock       int             `gorm:"not null"                        json:"stock"`
	SKU         string          `gorm:"size:32;not null;uniqueIndex"    json:"sku"`
	Active      bool            `gorm:"not null"                        json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"                           json:"deleted_at"`
}

// Attribute names as they appear in audit changes and as column names.
const (
	AttrName        = "name"
	AttrDescription = "description"
	AttrPrice       = "price"
	AttrStock       = "stock"
	AttrSKU         = "sku"
	AttrActive      = "active"
	AttrDeletedAt   = "deleted_at"
)

// AttributeNames lists the user-editable attributes in display order.
var AttributeNames = []string{AttrName, AttrDescription, AttrPrice, AttrStock, AttrSKU, AttrActive}

// Attributes returns the user-editable attributes in their audit form.
// Price is a two-decimal string; an absent description is nil.
func (p Product) Attributes() map[string]interface{} {
	var desc interface{}
	if p.Description != nil {
		desc = *p.Description
	}
	return map[string]interface{}{
		AttrName:        p.Name,
		AttrDescription: desc,
		AttrPrice:       p.Price.StringFixed(2),
		AttrStock:       p.Stock,
		AttrSKU:         p.SKU,
		AttrActive:      p.Active,
	}
}

// Diff returns the attributes of after that differ from before, with their
// new values. An empty map means nothing changed.
func Diff(before, after Product) map[string]interface{} {
	old, next := before.Attributes(), after.Attributes()
	changed := make(map[string]interface{})
	for _, k := range AttributeNames {
		if !reflect.DeepEqual(old[k], next[k]) {
			changed[k] = next[k]
		}
	}
	return changed
}

// Snapshot is the final state recorded when a product is destroyed.
func (p Product) Snapshot(deletedAt time.Time) map[string]interface{} {
	attrs := p.Attributes()
	attrs[AttrDeletedAt] = deletedAt.UTC().Format(time.RFC3339)
	return attrs
}

// IsDeleted reports whether the product has been soft-deleted.
func (p Product) IsDeleted() bool { return p.DeletedAt.Valid }
