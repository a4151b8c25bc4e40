// Package resource shapes models into API views and writes them inside the
// {"data": ..., "meta": ...} envelope.
//
// A view function controls exactly which fields leave the service:
//
//	func Summary(p models.Product) ProductSummary { ... }
//
//	resource.New(resources.Detail(p)).Respond(w, http.StatusOK)
//	resource.Collection(products, resources.Summary).WithMeta(page).Respond(w, http.StatusOK)
package resource

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/collection"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// Document is one response body: a single view or a list of views, plus
// optional metadata.
type Document[V any] struct {
	Data V           `json:"data"`
	Meta interface{} `json:"meta,omitempty"`
}

// New wraps a single view.
func New[V any](view V) *Document[V] {
	return &Document[V]{Data: view}
}

// Collection projects every item through view. An empty input yields [].
func Collection[T, V any](items []T, view func(T) V) *Document[[]V] {
	return &Document[[]V]{Data: collection.Map(items, view)}
}

// WithMeta attaches metadata such as pagination.
func (d *Document[V]) WithMeta(meta interface{}) *Document[V] {
	d.Meta = meta
	return d
}

// Respond writes the document as JSON with status.
func (d *Document[V]) Respond(w http.ResponseWriter, status int) {
	response.JSON(w, status, d)
}
