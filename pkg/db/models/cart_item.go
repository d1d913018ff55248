package models

import "time"

// CartItem aggregates one product inside a cart. The composite unique index
// guarantees at most one row per (cart, product); repeated adds bump Quantity.
type CartItem struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	CartID    uint      `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
