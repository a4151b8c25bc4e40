package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/orm"
)

// GormProductStore keeps products in a relational database through gorm.
// Concurrent updates of one product resolve last-write-wins.
type GormProductStore struct {
	db *gorm.DB
}

func NewGormProductStore(db *gorm.DB) *GormProductStore {
	return &GormProductStore{db: db}
}

func (s *GormProductStore) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	in = in.Normalize()
	var out models.Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateInput(in, skuTakenIn(tx, 0)); err != nil {
			return err
		}

		p := in.Apply(models.Product{})
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if err := writeAudit(tx, p.ID, models.ActionCreate, p.Attributes()); err != nil {
			return err
		}
		out = p
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.Product{}, skuTakenError()
	}
	if err != nil {
		return models.Product{}, wrap("create", err)
	}
	return out, nil
}

func (s *GormProductStore) Update(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	in = in.Normalize()
	var out models.Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}

		merged := in.Over(existing)
		if err := validateInput(merged, skuTakenIn(tx, id)); err != nil {
			return err
		}

		next := merged.Apply(existing)
		changes := models.Diff(existing, next)
		if len(changes) == 0 {
			out = existing
			return nil
		}

		next.UpdatedAt = tx.NowFunc()
		cols := append(changedColumns(changes), "updated_at")
		if err := tx.Model(&existing).Select(cols).Updates(&next).Error; err != nil {
			return err
		}
		if err := writeAudit(tx, id, models.ActionUpdate, changes); err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.Product{}, skuTakenError()
	}
	if err != nil {
		return models.Product{}, wrap("update", err)
	}
	return out, nil
}

// Destroy soft-deletes the product by stamping deleted_at.
func (s *GormProductStore) Destroy(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}

		now := tx.NowFunc()
		if err := tx.Model(&p).Update("deleted_at", now).Error; err != nil {
			return err
		}
		return writeAudit(tx, id, models.ActionDestroy, p.Snapshot(now))
	})
	return wrap("destroy", err)
}

func (s *GormProductStore) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return models.Product{}, wrap("find", err)
	}
	return p, nil
}

// List returns one page of live products ordered by id, plus the filtered
// total.
func (s *GormProductStore) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	f = f.Normalize()
	db := s.db.WithContext(ctx)

	var total int64
	if err := s.filtered(db, f).Count(&total).Error; err != nil {
		return nil, 0, wrap("list", err)
	}

	page := orm.NewPagination(f.Page, f.PerPage, total)
	products := make([]models.Product, 0, f.PerPage)
	if page.PastEnd() {
		return products, total, nil
	}
	if err := s.filtered(db, f).Order("id ASC").Scopes(orm.Paginate(page)).Find(&products).Error; err != nil {
		return nil, 0, wrap("list", err)
	}
	return products, total, nil
}

func (s *GormProductStore) filtered(db *gorm.DB, f ProductFilter) *gorm.DB {
	q := db.Model(&models.Product{})
	if f.Query != "" {
		q = q.Scopes(orm.Contains(models.AttrName, f.Query))
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	return q
}

// Audits returns the audit trail oldest first. Soft-deleted products still
// answer; only ids that never existed are not found.
func (s *GormProductStore) Audits(ctx context.Context, id uint) ([]models.ProductAudit, error) {
	db := s.db.WithContext(ctx)

	var n int64
	if err := db.Unscoped().Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return nil, wrap("audits", err)
	}
	if n == 0 {
		return nil, ErrProductNotFound
	}

	audits := make([]models.ProductAudit, 0)
	if err := db.Where("product_id = ?", id).Order("id ASC").Find(&audits).Error; err != nil {
		return nil, wrap("audits", err)
	}
	return audits, nil
}

func (s *GormProductStore) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.db)
}

// skuTakenIn checks SKU uniqueness across every row, soft-deleted ones
// included, ignoring the product being updated.
func skuTakenIn(tx *gorm.DB, exclude uint) func(string) (bool, error) {
	return func(sku string) (bool, error) {
		var n int64
		q := tx.Unscoped().Model(&models.Product{}).Where("sku = ?", sku)
		if exclude != 0 {
			q = q.Where("id <> ?", exclude)
		}
		err := q.Count(&n).Error
		return n > 0, err
	}
}

func writeAudit(tx *gorm.DB, productID uint, action string, changes map[string]interface{}) error {
	audit, err := models.NewProductAudit(productID, action, changes, tx.NowFunc())
	if err != nil {
		return err
	}
	return tx.Create(&audit).Error
}

func changedColumns(changes map[string]interface{}) []string {
	cols := make([]string, 0, len(changes))
	for _, name := range models.AttributeNames {
		if _, ok := changes[name]; ok {
			cols = append(cols, name)
		}
	}
	return cols
}

// wrap maps gorm's not-found to ErrProductNotFound and passes validation
// errors through untouched.
func wrap(op string, err error) error {
	var verr *ValidationError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrProductNotFound
	case errors.As(err, &verr):
		return verr
	}
	return fmt.Errorf("products: %s: %w", op, err)
}
