package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	FindCategory(ctx context.Context, categoryID uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	CountProductsByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	CountOrderItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	CountLivePinsByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
