package models

import "time"

// Cart is the single open basket a user accumulates items into. The unique
// index keeps ensure-cart races from minting duplicates.
type Cart struct {
	ID        uint       `gorm:"column:id;primaryKey"`
	UserID    uint       `gorm:"column:user_id;not null;uniqueIndex:idx_carts_user"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
