package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/pkg/db/models"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindOrderDetail(ctx context.Context, orderID uint) (*OrderDetail, error)
}
