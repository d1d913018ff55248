package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the cart service
// and the order engine.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCartByUserID(ctx context.Context, userID uint) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	IncrementItemQuantity(ctx context.Context, cartID, productID uint) (bool, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	ListItemDetails(ctx context.Context, cartID uint) ([]ItemDetail, error)
	DeleteItemsByCart(ctx context.Context, cartID uint) error
}
