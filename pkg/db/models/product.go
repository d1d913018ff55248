package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. Price is the live price; order lines
// copy it at conversion time so later edits never rewrite history.
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey"`
	Name        string          `gorm:"column:name;not null;uniqueIndex:idx_products_name_category"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImagePath   *string         `gorm:"column:image_path"`
	CategoryID  uint            `gorm:"column:category_id;not null;uniqueIndex:idx_products_name_category"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
