package client

import (
	"net/url"
	"strconv"
	"time"
)

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDestroy = "destroy"
)

// Product is the detail view.
type Product struct {
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

// ProductSummary is one row of the product table.
type ProductSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	SKU    string `json:"sku"`
	Active bool   `json:"active"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
}

// ProductPage is a list response.
type ProductPage struct {
	Data []ProductSummary `json:"data"`
	Meta Pagination       `json:"meta"`
}

// Empty reports whether the page has no rows. An empty page is a successful
// result, not an error.
func (p ProductPage) Empty() bool { return len(p.Data) == 0 }

// Audit is one history entry.
type Audit struct {
	ID        uint                   `json:"id"`
	Action    string                 `json:"action"`
	Changes   map[string]interface{} `json:"changes"`
	CreatedAt time.Time              `json:"created_at"`
}

// ProductInput is a create or partial update. Nil fields are not sent.
type ProductInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *string `json:"price,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	SKU         *string `json:"sku,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// Change is one message of the product change feed.
type Change struct {
	Action    string    `json:"action"`
	ProductID uint      `json:"product_id"`
	At        time.Time `json:"at"`
}

// ListParams selects a page of products. Zero Page and PerPage are left to
// the server defaults. A nil Active lists both states.
type ListParams struct {
	Page    int
	PerPage int
	Q       string
	Active  *bool
}

// Values renders p as a query string.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Q != "" {
		v.Set("q", p.Q)
	}
	if p.Active != nil {
		v.Set("active", strconv.FormatBool(*p.Active))
	}
	return v
}
