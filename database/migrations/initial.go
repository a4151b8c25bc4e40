package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000001_create_product_audits_table", &CreateProductAuditsTable{})
}

// -------- 0001: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0002: product_audits --------

type CreateProductAuditsTable struct{}

func (m *CreateProductAuditsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProductAudit{})
}

func (m *CreateProductAuditsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_audits")
}
