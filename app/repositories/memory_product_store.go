package repositories

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/collection"
	"github.com/shashiranjanraj/catalog/pkg/orm"
)

// MemoryProductStore keeps products in process memory for offline and demo
// runs. One mutex serializes writes, so concurrent updates resolve
// last-write-wins exactly as in the database store.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products []models.Product // products[i].ID == i+1
	audits   []models.ProductAudit
	now      func() time.Time
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{now: time.Now}
}

func (s *MemoryProductStore) Create(_ context.Context, in ProductInput) (models.Product, error) {
	in = in.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateInput(in, s.skuTaken(0)); err != nil {
		return models.Product{}, err
	}

	now := s.now()
	p := in.Apply(models.Product{})
	p.ID = uint(len(s.products) + 1)
	p.CreatedAt, p.UpdatedAt = now, now

	if err := s.appendAudit(p.ID, models.ActionCreate, p.Attributes(), now); err != nil {
		return models.Product{}, err
	}
	s.products = append(s.products, p)
	return clone(p), nil
}

func (s *MemoryProductStore) Update(_ context.Context, id uint, in ProductInput) (models.Product, error) {
	in = in.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.live(id)
	if !ok {
		return models.Product{}, ErrProductNotFound
	}

	merged := in.Over(existing)
	if err := validateInput(merged, s.skuTaken(id)); err != nil {
		return models.Product{}, err
	}

	next := merged.Apply(existing)
	changes := models.Diff(existing, next)
	if len(changes) == 0 {
		return clone(existing), nil
	}

	now := s.now()
	next.UpdatedAt = now
	if err := s.appendAudit(id, models.ActionUpdate, changes, now); err != nil {
		return models.Product{}, err
	}
	s.products[id-1] = next
	return clone(next), nil
}

func (s *MemoryProductStore) Destroy(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.live(id)
	if !ok {
		return ErrProductNotFound
	}

	now := s.now()
	if err := s.appendAudit(id, models.ActionDestroy, p.Snapshot(now), now); err != nil {
		return err
	}
	p.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
	p.UpdatedAt = now
	s.products[id-1] = p
	return nil
}

func (s *MemoryProductStore) Find(_ context.Context, id uint) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.live(id)
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return clone(p), nil
}

func (s *MemoryProductStore) List(_ context.Context, f ProductFilter) ([]models.Product, int64, error) {
	f = f.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := collection.Filter(s.products, f.Matches)

	total := len(matched)
	start, end := orm.NewPagination(f.Page, f.PerPage, int64(total)).Window(total)
	return collection.Map(matched[start:end], clone), int64(total), nil
}

func (s *MemoryProductStore) Audits(_ context.Context, id uint) ([]models.ProductAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == 0 || int(id) > len(s.products) {
		return nil, ErrProductNotFound
	}
	return collection.Filter(s.audits, func(a models.ProductAudit) bool { return a.ProductID == id }), nil
}

func (s *MemoryProductStore) Ping(context.Context) error { return nil }

// live returns the product with id unless it is missing or soft-deleted.
// Callers hold s.mu.
func (s *MemoryProductStore) live(id uint) (models.Product, bool) {
	if id == 0 || int(id) > len(s.products) {
		return models.Product{}, false
	}
	p := s.products[id-1]
	if p.IsDeleted() {
		return models.Product{}, false
	}
	return p, true
}

func (s *MemoryProductStore) skuTaken(exclude uint) func(string) (bool, error) {
	return func(sku string) (bool, error) {
		for _, p := range s.products {
			if p.SKU == sku && p.ID != exclude {
				return true, nil
			}
		}
		return false, nil
	}
}

func (s *MemoryProductStore) appendAudit(productID uint, action string, changes map[string]interface{}, at time.Time) error {
	a, err := models.NewProductAudit(productID, action, changes, at)
	if err != nil {
		return err
	}
	a.ID = uint(len(s.audits) + 1)
	s.audits = append(s.audits, a)
	return nil
}

func clone(p models.Product) models.Product {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	return p
}
