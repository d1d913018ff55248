package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed orders repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction handle.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindOrderDetail loads an order with its owner and its lines. Lines whose
// product has since been removed from the catalog are not returned.
func (r *repository) FindOrderDetail(ctx context.Context, orderID uint) (*OrderDetail, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}

	var owner models.User
	if err := r.db.WithContext(ctx).First(&owner, "id = ?", order.UserID).Error; err != nil {
		return nil, err
	}

	var lines []OrderLine
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("products.name AS name, order_items.quantity AS quantity, order_items.price AS price").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	return &OrderDetail{
		OrderID:    order.ID,
		ExternalID: owner.ExternalID,
		Username:   owner.Username,
		CreatedAt:  order.CreatedAt,
		Lines:      lines,
	}, nil
}
