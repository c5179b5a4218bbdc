package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines catalog management operations.
type Service interface {
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	CategoryID *uuid.UUID
	IsActive   *bool
	Query      string
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// CategoryInput carries category create and update fields.
type CategoryInput struct {
	Name        string
	Description *string
	IconURL     *string
	IsActive    *bool
}

// ProductInput carries product create and update fields. Nil pointers leave
// the field alone on update.
type ProductInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
	IsActive    *bool
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		IconURL:     input.IconURL,
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return created, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return categories, nil
}

func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*models.Category, error) {
	updates := map[string]any{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.IconURL != nil {
		updates["icon_url"] = *input.IconURL
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no category fields provided")
	}

	if err := s.repo.UpdateCategory(ctx, categoryID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	category, err := s.repo.FindCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload category")
	}
	return category, nil
}

// DeleteCategory refuses while any product still references the category.
func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountProductsByCategory(ctx, categoryID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("category still has %d products", count))
		}
		if err := repo.DeleteCategory(ctx, categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
		}
		return nil
	})
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category required")
	}
	if input.Price == nil || input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "non-negative price required")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if _, err := s.repo.FindCategory(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find category")
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return created, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return list, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*models.Product, error) {
	updates := map[string]any{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.CategoryID != uuid.Nil {
		if _, err := s.repo.FindCategory(ctx, input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find category")
		}
		updates["category_id"] = input.CategoryID
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *input.Stock
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no product fields provided")
	}

	if err := s.repo.UpdateProduct(ctx, productID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return s.GetProduct(ctx, productID)
}

// DeleteProduct refuses while order items or live pins still reference the
// product.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		orderRefs, err := repo.CountOrderItemsByProduct(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count product order items")
		}
		if orderRefs > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by order items")
		}
		pinRefs, err := repo.CountLivePinsByProduct(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count product live pins")
		}
		if pinRefs > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is pinned to a live stream")
		}
		if err := repo.DeleteProduct(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
		}
		return nil
	})
}
