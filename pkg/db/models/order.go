package models

import "time"

// Order is an immutable conversion of a cart at a point in time.
type Order struct {
	ID        uint        `gorm:"column:id;primaryKey"`
	UserID    uint        `gorm:"column:user_id;not null"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
