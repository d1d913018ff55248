package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  image_path TEXT,
  category_id INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	uniqueProducts := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_category ON products (name, category_id);`

	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(uniqueProducts).Error)
	return db
}

func mustCategory(t *testing.T, repo Repository, name string) *models.Category {
	t.Helper()
	category, err := repo.CreateCategory(context.Background(), &models.Category{Name: name})
	require.NoError(t, err)
	return category
}

func TestRepositoryListCategoriesKeepsInsertionOrder(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	first := mustCategory(t, repo, "Loose Tea")
	second := mustCategory(t, repo, "Ground Coffee")

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)

	var names []string
	for _, c := range categories {
		if c.ID == first.ID || c.ID == second.ID {
			names = append(names, c.Name)
		}
	}
	require.Equal(t, []string{"Loose Tea", "Ground Coffee"}, names)
}

func TestRepositoryProductRoundtrip(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := mustCategory(t, repo, "Syrups")

	image := "images/maple.png"
	created, err := repo.CreateProduct(context.Background(), &models.Product{
		Name:        "Maple Syrup",
		Description: "Dark, grade A",
		Price:       decimal.RequireFromString("12.50"),
		ImagePath:   &image,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := repo.FindProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maple Syrup", found.Name)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("12.50")),
		"expected 12.50, got %s", found.Price)
	require.NotNil(t, found.Category)
	assert.Equal(t, "Syrups", found.Category.Name)

	listed, err := repo.ListProducts(context.Background(), &category.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestRepositoryFindProductByIDMissing(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindProductByID(context.Background(), 99999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryProductUniquePerCategory(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	teas := mustCategory(t, repo, "Herbal Teas")
	blends := mustCategory(t, repo, "House Blends")

	_, err := repo.CreateProduct(context.Background(), &models.Product{
		Name:       "Chamomile",
		Price:      decimal.RequireFromString("4.00"),
		CategoryID: teas.ID,
	})
	require.NoError(t, err)

	_, err = repo.CreateProduct(context.Background(), &models.Product{
		Name:       "Chamomile",
		Price:      decimal.RequireFromString("4.50"),
		CategoryID: teas.ID,
	})
	require.Error(t, err, "same name in the same category must be rejected")

	_, err = repo.CreateProduct(context.Background(), &models.Product{
		Name:       "Chamomile",
		Price:      decimal.RequireFromString("5.00"),
		CategoryID: blends.ID,
	})
	require.NoError(t, err, "same name in another category is a different listing")

	found, err := repo.FindProductByNameAndCategory(context.Background(), "Chamomile", teas.ID)
	require.NoError(t, err)
	assert.Equal(t, teas.ID, found.CategoryID)
}
