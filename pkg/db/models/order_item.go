package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a priced line on an order. Price is the product price captured
// when the cart converted, never the live catalog price.
type OrderItem struct {
	ID        uint            `gorm:"column:id;primaryKey"`
	OrderID   uint            `gorm:"column:order_id;not null"`
	ProductID uint            `gorm:"column:product_id;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
