package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/resource"
)

// ProductController serves the /products REST resource.
type ProductController struct {
	service *services.ProductService
	maxBody int64
}

// NewProductController caps request bodies at maxBody bytes.
func NewProductController(service *services.ProductService, maxBody int64) *ProductController {
	return &ProductController{service: service, maxBody: maxBody}
}

// Index handles GET /products?q=&active=&page=&per_page=
func (pc *ProductController) Index(c *ctx.Context) {
	page, err := pc.service.List(c.Context(), repositories.ParseProductFilter(c.Queries()))
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, resource.Collection(page.Products, resources.Summary).WithMeta(page.Pagination))
}

// Show handles GET /products/{id}
func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Fail(services.ErrNotFound())
		return
	}
	p, err := pc.service.Find(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Detail(p))
}

// Store handles POST /products
func (pc *ProductController) Store(c *ctx.Context) {
	var in repositories.ProductInput
	if !c.Bind(&in, pc.maxBody) {
		return
	}
	p, err := pc.service.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resources.Detail(p))
}

// Update handles PUT and PATCH /products/{id}. Both are partial.
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Fail(services.ErrNotFound())
		return
	}
	var in repositories.ProductInput
	if !c.Bind(&in, pc.maxBody) {
		return
	}
	p, err := pc.service.Update(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Detail(p))
}

// Destroy handles DELETE /products/{id}
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Fail(services.ErrNotFound())
		return
	}
	if err := pc.service.Destroy(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}

// Audits handles GET /products/{id}/audits
func (pc *ProductController) Audits(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Fail(services.ErrNotFound())
		return
	}
	audits, err := pc.service.Audits(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, resource.Collection(audits, resources.Audit))
}
