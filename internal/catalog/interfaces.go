package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the catalog service
// and the snapshot exchange.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	ListProducts(ctx context.Context, categoryID *uint) ([]models.Product, error)
	FindProductByID(ctx context.Context, id uint) (*models.Product, error)
	FindProductByNameAndCategory(ctx context.Context, name string, categoryID uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
}
