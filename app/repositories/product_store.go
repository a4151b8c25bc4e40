package repositories

import (
	"context"
	"errors"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// ErrProductNotFound is returned when no live product has the requested id.
var ErrProductNotFound = errors.New("product not found")

// ValidationError carries the per-field messages of a rejected write.
type ValidationError struct {
	Errors validate.Errors
}

func (e *ValidationError) Error() string { return e.Errors.Error() }

// ProductStore persists products and their audit trail.
//
// Every successful Create, Update and Destroy appends exactly one audit row
// atomically with the write. Soft-deleted products are invisible to Find and
// List but their audits stay readable.
type ProductStore interface {
	Create(ctx context.Context, in ProductInput) (models.Product, error)
	Update(ctx context.Context, id uint, in ProductInput) (models.Product, error)
	Destroy(ctx context.Context, id uint) error
	Find(ctx context.Context, id uint) (models.Product, error)
	List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	Audits(ctx context.Context, id uint) ([]models.ProductAudit, error)
	Ping(ctx context.Context) error
}

// ─── Input ──────────────────────────────────────────────────────────────────

const (
	skuTakenMsg    = "The sku has already been taken."
	skuFormatRule  = "sku_format"
	skuFormatRegex = `^[A-Z0-9]+$`
)

var skuPattern = regexp.MustCompile(skuFormatRegex)

func init() {
	validate.Extend(skuFormatRule, func(field string, v reflect.Value, _ string) string {
		if v.Kind() == reflect.String && skuPattern.MatchString(v.String()) {
			return ""
		}
		return "The " + field + " must contain only uppercase letters and digits."
	})
}

// ProductInput is a create or partial-update request. A nil field was not
// supplied.
type ProductInput struct {
	Name        *string          `json:"name"        validate:"required,min=3,max=100"`
	Description *string          `json:"description" validate:"nullable,max=1000"`
	Price       *decimal.Decimal `json:"price"       validate:"required,gt=0,lte=99999999.99"`
	Stock       *int             `json:"stock"       validate:"required,gte=0"`
	SKU         *string          `json:"sku"         validate:"required,min=4,max=32,sku_format"`
	Active      *bool            `json:"active"`
}

// Normalize trims and uppercases the SKU, trims the name and rounds the price
// to two places. A blank description becomes "", which Apply stores as absent.
func (in ProductInput) Normalize() ProductInput {
	if in.SKU != nil {
		s := strings.ToUpper(strings.TrimSpace(*in.SKU))
		in.SKU = &s
	}
	if in.Name != nil {
		s := strings.TrimSpace(*in.Name)
		in.Name = &s
	}
	if in.Price != nil {
		p := in.Price.Round(2)
		in.Price = &p
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		empty := ""
		in.Description = &empty
	}
	return in
}

// Over fills every field in does not supply from p, giving the full record an
// update would produce.
func (in ProductInput) Over(p models.Product) ProductInput {
	if in.Name == nil {
		in.Name = &p.Name
	}
	if in.Description == nil && p.Description != nil {
		d := *p.Description
		in.Description = &d
	}
	if in.Price == nil {
		in.Price = &p.Price
	}
	if in.Stock == nil {
		in.Stock = &p.Stock
	}
	if in.SKU == nil {
		in.SKU = &p.SKU
	}
	if in.Active == nil {
		in.Active = &p.Active
	}
	return in
}

// Apply copies the supplied fields of a validated input onto p.
func (in ProductInput) Apply(p models.Product) models.Product {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil && *in.Description != "" {
		d := *in.Description
		p.Description = &d
	} else {
		p.Description = nil
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.Active != nil {
		p.Active = *in.Active
	} else if p.ID == 0 {
		p.Active = true
	}
	return p
}

// validateInput runs the field rules and then, if the SKU is otherwise valid,
// the uniqueness check.
func validateInput(in ProductInput, skuTaken func(sku string) (bool, error)) error {
	errs := validate.Struct(in)
	if !errs.Has(models.AttrSKU) && in.SKU != nil {
		taken, err := skuTaken(*in.SKU)
		if err != nil {
			return err
		}
		if taken {
			errs.Add(models.AttrSKU, skuTakenMsg)
		}
	}
	if errs.Any() {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func skuTakenError() error {
	errs := validate.Errors{}
	errs.Add(models.AttrSKU, skuTakenMsg)
	return &ValidationError{Errors: errs}
}

// ─── Filter ─────────────────────────────────────────────────────────────────

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	// MaxPage keeps (Page-1)*PerPage inside int for every allowed PerPage.
	MaxPage = math.MaxInt / MaxPerPage
)

// ProductFilter selects a page of live products.
type ProductFilter struct {
	Query   string
	Active  *bool
	Page    int
	PerPage int
}

// ParseProductFilter reads q, active, page and per_page from a query string.
func ParseProductFilter(v url.Values) ProductFilter {
	f := ProductFilter{
		Query:   strings.TrimSpace(v.Get("q")),
		Active:  ParseActive(v.Get("active")),
		Page:    1,
		PerPage: DefaultPerPage,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get("page"))); err == nil {
		f.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get("per_page"))); err == nil {
		f.PerPage = n
	}
	return f.Normalize()
}

// Normalize clamps Page to [1, MaxPage] and PerPage to [1, MaxPerPage].
func (f ProductFilter) Normalize() ProductFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PerPage < 1 {
		f.PerPage = 1
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	return f
}

// ParseActive accepts true/false/1/0 in any case. Anything else means no
// filter.
func ParseActive(raw string) *bool {
	var b bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		b = true
	case "false", "0":
		b = false
	default:
		return nil
	}
	return &b
}

// Matches reports whether p satisfies the q and active predicates.
func (f ProductFilter) Matches(p models.Product) bool {
	if p.IsDeleted() {
		return false
	}
	if f.Active != nil && p.Active != *f.Active {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
		return false
	}
	return true
}
