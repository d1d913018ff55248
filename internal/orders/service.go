package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/internal/cart"
	"github.com/mvolkova/shopbot-backend/internal/users"
	"github.com/mvolkova/shopbot-backend/pkg/db/models"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
	"github.com/mvolkova/shopbot-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service converts carts into orders and serves receipt lookups.
type Service interface {
	Create(ctx context.Context, externalID int64) (CreateResult, error)
	Details(ctx context.Context, orderID uint) (*OrderDetailsDTO, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	carts cart.Repository
	users users.Repository
	store *metrics.StoreMetrics
}

// NewService builds an orders service backed by the provided stack. The
// metrics sink may be nil.
func NewService(repo Repository, tx txRunner, cartRepo cart.Repository, userRepo users.Repository, store *metrics.StoreMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{
		repo:  repo,
		tx:    tx,
		carts: cartRepo,
		users: userRepo,
		store: store,
	}, nil
}

// Create converts the shopper's cart into an order. Each line copies the
// product's price as it stands right now, then the cart is emptied. Order
// insert, line copies, and cart clear commit or roll back as one unit. An
// absent user, absent cart, or empty cart is a no-op result, not an error.
func (s *service) Create(ctx context.Context, externalID int64) (result CreateResult, err error) {
	defer func(start time.Time) {
		s.store.Observe(metrics.OpOrderCreate, time.Since(start), err)
	}(time.Now())

	if externalID == 0 {
		return CreateResult{}, pkgerrors.New(pkgerrors.CodeValidation, "external id required")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		cartRepo := s.carts.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		user, err := userRepo.FindByExternalID(ctx, externalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		shopperCart, err := cartRepo.FindCartByUserID(ctx, user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		details, err := cartRepo.ListItemDetails(ctx, shopperCart.ID)
		if err != nil {
			return err
		}
		if len(details) == 0 {
			return nil
		}

		order, err := orderRepo.CreateOrder(ctx, &models.Order{UserID: user.ID})
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(details))
		for _, line := range details {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
		}
		if err := orderRepo.CreateOrderItems(ctx, items); err != nil {
			return err
		}

		if err := cartRepo.DeleteItemsByCart(ctx, shopperCart.ID); err != nil {
			return err
		}

		result = CreateResult{OrderID: order.ID, Created: true}
		return nil
	})
	if err != nil {
		return CreateResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return result, nil
}

// Details returns the receipt view of an order.
func (s *service) Details(ctx context.Context, orderID uint) (*OrderDetailsDTO, error) {
	detail, err := s.repo.FindOrderDetail(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return DetailsFromOrderDetail(detail), nil
}
