package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/apierror"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/orm"
)

// EventProductChanged is fired after every successful product mutation with a
// ProductChanged payload.
const EventProductChanged = "product.changed"

const notFoundMessage = "Product not found"

// ErrNotFound is the error every lookup of a missing product resolves to.
func ErrNotFound() *apierror.Error { return apierror.NotFound(notFoundMessage) }

// ProductChanged describes one committed mutation.
type ProductChanged struct {
	Action    string    `json:"action"`
	ProductID uint      `json:"product_id"`
	At        time.Time `json:"at"`
}

// Page is one page of a product listing.
type Page struct {
	Products   []models.Product
	Pagination orm.Pagination
}

// ProductService sits between transport and storage. Every error it returns
// is an *apierror.Error.
type ProductService struct {
	store  repositories.ProductStore
	events *event.Dispatcher
	now    func() time.Time
}

// NewProductService wires a service to store. events may be nil.
func NewProductService(store repositories.ProductStore, events *event.Dispatcher) *ProductService {
	return &ProductService{store: store, events: events, now: time.Now}
}

func (s *ProductService) List(ctx context.Context, f repositories.ProductFilter) (Page, error) {
	f = f.Normalize()
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return Page{}, s.fail(ctx, "list", err)
	}
	return Page{
		Products:   items,
		Pagination: orm.NewPagination(f.Page, f.PerPage, total),
	}, nil
}

func (s *ProductService) Find(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.store.Find(ctx, id)
	if err != nil {
		return models.Product{}, s.fail(ctx, "find", err)
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, in repositories.ProductInput) (models.Product, error) {
	p, err := s.store.Create(ctx, in)
	if err != nil {
		return models.Product{}, s.fail(ctx, "create", err)
	}
	s.publish(models.ActionCreate, p.ID)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, in repositories.ProductInput) (models.Product, error) {
	p, err := s.store.Update(ctx, id, in)
	if err != nil {
		return models.Product{}, s.fail(ctx, "update", err)
	}
	s.publish(models.ActionUpdate, p.ID)
	return p, nil
}

func (s *ProductService) Destroy(ctx context.Context, id uint) error {
	if err := s.store.Destroy(ctx, id); err != nil {
		return s.fail(ctx, "destroy", err)
	}
	s.publish(models.ActionDestroy, id)
	return nil
}

func (s *ProductService) Audits(ctx context.Context, id uint) ([]models.ProductAudit, error) {
	audits, err := s.store.Audits(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "audits", err)
	}
	return audits, nil
}

// Ping reports whether the backing store is reachable.
func (s *ProductService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *ProductService) publish(action string, id uint) {
	if s.events == nil {
		return
	}
	s.events.Fire(EventProductChanged, ProductChanged{Action: action, ProductID: id, At: s.now().UTC()})
}

// fail classifies a store error. Unknown causes are logged here and hidden
// from the caller's message.
func (s *ProductService) fail(ctx context.Context, op string, err error) error {
	var ve *repositories.ValidationError
	switch {
	case errors.As(err, &ve):
		return apierror.Validation(ve.Errors)
	case errors.Is(err, repositories.ErrProductNotFound):
		return ErrNotFound()
	default:
		logger.WithCtx(ctx).Error("product "+op+" failed", "error", err)
		return apierror.Unknown(fmt.Errorf("product %s: %w", op, err))
	}
}
