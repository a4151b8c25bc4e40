// Package resources holds the wire views of catalog models. Every view is a
// pure function of its model.
package resources

import (
	"time"

	"github.com/shashiranjanraj/catalog/app/models"
)

// ProductView is the full detail shape.
type ProductView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	SKU         string    `json:"sku"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductSummary is the list shape; description, stock and timestamps are
// left out to keep pages small.
type ProductSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	SKU    string `json:"sku"`
	Active bool   `json:"active"`
}

// AuditView is one entry of a product's history.
type AuditView struct {
	ID        uint                   `json:"id"`
	Action    string                 `json:"action"`
	Changes   map[string]interface{} `json:"changes"`
	CreatedAt time.Time              `json:"created_at"`
}

// Detail renders p with its price fixed to two decimals.
func Detail(p models.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		SKU:         p.SKU,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func Summary(p models.Product) ProductSummary {
	return ProductSummary{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price.StringFixed(2),
		SKU:    p.SKU,
		Active: p.Active,
	}
}

func Audit(a models.ProductAudit) AuditView {
	changes := map[string]interface{}(a.Changes)
	if changes == nil {
		changes = map[string]interface{}{}
	}
	return AuditView{
		ID:        a.ID,
		Action:    a.Action,
		Changes:   changes,
		CreatedAt: a.CreatedAt,
	}
}
