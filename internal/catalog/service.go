package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/pkg/db"
	"github.com/mvolkova/shopbot-backend/pkg/db/models"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AddProductInput captures the fields an admin supplies for a new listing.
type AddProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImagePath   string
}

// Service exposes catalog reads and admin mutations.
type Service interface {
	Categories(ctx context.Context) ([]CategoryDTO, error)
	Products(ctx context.Context, category string) ([]ProductDTO, error)
	ProductByID(ctx context.Context, id uint) (*ProductDTO, error)
	AddProduct(ctx context.Context, input AddProductInput) (*ProductDTO, error)
	SeedCategories(ctx context.Context, names []string) error
}

type service struct {
	tx   txRunner
	repo Repository
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(tx txRunner, repo Repository, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{tx: tx, repo: repo, logg: logg}, nil
}

func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, CategoryFromModel(&categories[i]))
	}
	return out, nil
}

func (s *service) Products(ctx context.Context, category string) ([]ProductDTO, error) {
	var categoryID *uint
	if category != "" {
		found, err := s.repo.FindCategoryByName(ctx, category)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// An unknown section simply has nothing in it.
			return []ProductDTO{}, nil
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve category")
		}
		categoryID = &found.ID
	}

	products, err := s.repo.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *ProductFromModel(&products[i]))
	}
	return out, nil
}

func (s *service) ProductByID(ctx context.Context, id uint) (*ProductDTO, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return ProductFromModel(product), nil
}

func (s *service) AddProduct(ctx context.Context, input AddProductInput) (*ProductDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	var created *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		category, err := repo.FindCategoryByName(ctx, input.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return err
		}

		product := &models.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			CategoryID:  category.ID,
			Category:    category,
		}
		if input.ImagePath != "" {
			product.ImagePath = &input.ImagePath
		}
		created, err = repo.CreateProduct(ctx, product)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already exists in category")
		}
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return ProductFromModel(created), nil
}

// SeedCategories inserts any missing categories from the configured seed set.
// Reruns are no-ops, so every boot can call it.
func (s *service) SeedCategories(ctx context.Context, names []string) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, name := range names {
			if name == "" {
				continue
			}
			_, err := repo.FindCategoryByName(ctx, name)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if _, err := repo.CreateCategory(ctx, &models.Category{Name: name}); err != nil {
				return err
			}
			if s.logg != nil {
				s.logg.Info(s.logg.WithField(ctx, "category", name), "seeded category")
			}
		}
		return nil
	})
	if db.IsUniqueViolation(err, "") {
		// Another boot seeded concurrently; the rows exist either way.
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed categories")
	}
	return nil
}
