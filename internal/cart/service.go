package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/internal/catalog"
	"github.com/mvolkova/shopbot-backend/internal/users"
	"github.com/mvolkova/shopbot-backend/pkg/db"
	"github.com/mvolkova/shopbot-backend/pkg/db/models"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
	"github.com/mvolkova/shopbot-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart operations keyed by the shopper's external id.
type Service interface {
	AddItem(ctx context.Context, externalID int64, productID uint) error
	Items(ctx context.Context, externalID int64) ([]ItemDetail, error)
	Clear(ctx context.Context, externalID int64) (bool, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	users    users.Repository
	products catalog.Repository
	store    *metrics.StoreMetrics
}

// NewService builds a cart service backed by the provided stack. The metrics
// sink may be nil.
func NewService(repo Repository, tx txRunner, userRepo users.Repository, productRepo catalog.Repository, store *metrics.StoreMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		users:    userRepo,
		products: productRepo,
		store:    store,
	}, nil
}

// AddItem records one more unit of the product in the shopper's cart. The
// user row and the cart row are created on first contact, inside the same
// transaction as the line write, so a failure leaves no half-built state.
func (s *service) AddItem(ctx context.Context, externalID int64, productID uint) (err error) {
	defer func(start time.Time) {
		s.store.Observe(metrics.OpCartAdd, time.Since(start), err)
	}(time.Now())

	if externalID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "external id required")
	}
	if productID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	apply := func(tx *gorm.DB) error {
		cartRepo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		user, err := userRepo.FindByExternalID(ctx, externalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user, err = userRepo.Create(ctx, &models.User{ExternalID: externalID})
		}
		if err != nil {
			return err
		}

		cart, err := cartRepo.FindCartByUserID(ctx, user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart, err = cartRepo.CreateCart(ctx, &models.Cart{UserID: user.ID})
		}
		if err != nil {
			return err
		}

		if _, err := productRepo.FindProductByID(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return err
		}

		bumped, err := cartRepo.IncrementItemQuantity(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		if bumped {
			return nil
		}
		return cartRepo.CreateItem(ctx, &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  1,
		})
	}

	err = s.tx.WithTx(ctx, apply)
	if db.IsUniqueViolation(err, "") {
		// A concurrent add won the insert; the rerun sees its row and takes
		// the increment path instead.
		err = s.tx.WithTx(ctx, apply)
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return nil
}

// Items lists the shopper's cart lines joined with current product data.
// A shopper with no cart yet gets an empty list.
func (s *service) Items(ctx context.Context, externalID int64) ([]ItemDetail, error) {
	user, err := s.users.FindByExternalID(ctx, externalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []ItemDetail{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	cart, err := s.repo.FindCartByUserID(ctx, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []ItemDetail{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	items, err := s.repo.ListItemDetails(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	if items == nil {
		items = []ItemDetail{}
	}
	return items, nil
}

// Clear removes every line from the shopper's cart. The returned bool
// reports whether a cart was there to clear; clearing an absent cart is not
// an error.
func (s *service) Clear(ctx context.Context, externalID int64) (existed bool, err error) {
	defer func(start time.Time) {
		s.store.Observe(metrics.OpCartClear, time.Since(start), err)
	}(time.Now())

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		user, err := userRepo.FindByExternalID(ctx, externalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		cart, err := cartRepo.FindCartByUserID(ctx, user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := cartRepo.DeleteItemsByCart(ctx, cart.ID); err != nil {
			return err
		}
		existed = true
		return nil
	})
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return existed, nil
}
