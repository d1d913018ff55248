package models

import "time"

// User represents a shopper known to the store. ExternalID is the opaque
// identity assigned by the bot platform; it is the only key collaborators use.
type User struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	ExternalID int64     `gorm:"column:external_id;not null;uniqueIndex:idx_users_external_id"`
	Username   *string   `gorm:"column:username"`
	IsAdmin    bool      `gorm:"column:is_admin;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
