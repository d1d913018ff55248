package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/internal/cart"
	"github.com/mvolkova/shopbot-backend/internal/users"
	"github.com/mvolkova/shopbot-backend/pkg/db/models"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
)

type stubTx struct {
	calls int
}

func (s *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

type stubOrderRepo struct {
	orders    []*models.Order
	items     []models.OrderItem
	detail    *OrderDetail
	failItems error
	nextID    uint
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	s.nextID++
	order.ID = s.nextID
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *stubOrderRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if s.failItems != nil {
		return s.failItems
	}
	s.items = append(s.items, items...)
	return nil
}

func (s *stubOrderRepo) FindOrderDetail(ctx context.Context, orderID uint) (*OrderDetail, error) {
	if s.detail != nil && s.detail.OrderID == orderID {
		return s.detail, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubCartRepo struct {
	cart    *models.Cart
	details []cart.ItemDetail
	clears  int
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) FindCartByUserID(ctx context.Context, userID uint) (*models.Cart, error) {
	if s.cart != nil && s.cart.UserID == userID {
		return s.cart, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateCart(ctx context.Context, c *models.Cart) (*models.Cart, error) {
	return c, nil
}

func (s *stubCartRepo) IncrementItemQuantity(ctx context.Context, cartID, productID uint) (bool, error) {
	return false, nil
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCartRepo) ListItemDetails(ctx context.Context, cartID uint) ([]cart.ItemDetail, error) {
	return s.details, nil
}

func (s *stubCartRepo) DeleteItemsByCart(ctx context.Context, cartID uint) error {
	s.clears++
	return nil
}

type stubUserRepo struct {
	users map[int64]*models.User
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserRepo) FindByExternalID(ctx context.Context, externalID int64) (*models.User, error) {
	if user, ok := s.users[externalID]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return user, nil
}

func (s *stubUserRepo) Save(ctx context.Context, user *models.User) error { return nil }

func newOrdersTestService(t *testing.T, repo Repository, cartRepo cart.Repository, userRepo users.Repository) Service {
	t.Helper()
	svc, err := NewService(repo, &stubTx{}, cartRepo, userRepo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateConvertsCartAndClearsIt(t *testing.T) {
	repo := &stubOrderRepo{}
	cartRepo := &stubCartRepo{
		cart: &models.Cart{ID: 1, UserID: 1},
		details: []cart.ItemDetail{
			{ProductID: 7, Name: "Smoked Tea", Price: decimal.RequireFromString("10.00"), Quantity: 2},
			{ProductID: 9, Name: "Sunflower Halva", Price: decimal.RequireFromString("5.00"), Quantity: 1},
		},
	}
	userRepo := &stubUserRepo{users: map[int64]*models.User{42: {ID: 1, ExternalID: 42}}}
	svc := newOrdersTestService(t, repo, cartRepo, userRepo)

	result, err := svc.Create(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Created || result.OrderID == 0 {
		t.Fatalf("expected a created order, got %+v", result)
	}
	if len(repo.items) != 2 {
		t.Fatalf("expected 2 copied lines, got %d", len(repo.items))
	}
	if repo.items[0].OrderID != result.OrderID || repo.items[0].Quantity != 2 {
		t.Fatalf("unexpected first line: %+v", repo.items[0])
	}
	if !repo.items[0].Price.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected copied price 10.00, got %s", repo.items[0].Price)
	}
	if cartRepo.clears != 1 {
		t.Fatalf("expected cart to be cleared once, got %d", cartRepo.clears)
	}
}

func TestCreateUnknownUserIsNoOp(t *testing.T) {
	repo := &stubOrderRepo{}
	cartRepo := &stubCartRepo{}
	svc := newOrdersTestService(t, repo, cartRepo, &stubUserRepo{users: map[int64]*models.User{}})

	result, err := svc.Create(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created || result.OrderID != 0 {
		t.Fatalf("expected no-op result, got %+v", result)
	}
	if len(repo.orders) != 0 || cartRepo.clears != 0 {
		t.Fatal("expected no writes for unknown user")
	}
}

func TestCreateWithoutCartIsNoOp(t *testing.T) {
	repo := &stubOrderRepo{}
	userRepo := &stubUserRepo{users: map[int64]*models.User{42: {ID: 1, ExternalID: 42}}}
	svc := newOrdersTestService(t, repo, &stubCartRepo{}, userRepo)

	result, err := svc.Create(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created {
		t.Fatalf("expected no-op result, got %+v", result)
	}
}

func TestCreateEmptyCartIsNoOp(t *testing.T) {
	repo := &stubOrderRepo{}
	cartRepo := &stubCartRepo{cart: &models.Cart{ID: 1, UserID: 1}}
	userRepo := &stubUserRepo{users: map[int64]*models.User{42: {ID: 1, ExternalID: 42}}}
	svc := newOrdersTestService(t, repo, cartRepo, userRepo)

	result, err := svc.Create(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created {
		t.Fatalf("expected no-op result, got %+v", result)
	}
	if len(repo.orders) != 0 || cartRepo.clears != 0 {
		t.Fatal("expected no writes for an empty cart")
	}
}

func TestCreateLineCopyFailureSurfaces(t *testing.T) {
	repo := &stubOrderRepo{failItems: errors.New("disk full")}
	cartRepo := &stubCartRepo{
		cart:    &models.Cart{ID: 1, UserID: 1},
		details: []cart.ItemDetail{{ProductID: 7, Quantity: 1, Price: decimal.RequireFromString("1.00")}},
	}
	userRepo := &stubUserRepo{users: map[int64]*models.User{42: {ID: 1, ExternalID: 42}}}
	svc := newOrdersTestService(t, repo, cartRepo, userRepo)

	_, err := svc.Create(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error when line copy fails")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error code: %v", err)
	}
	if cartRepo.clears != 0 {
		t.Fatal("expected cart clear to be skipped after failure")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newOrdersTestService(t, &stubOrderRepo{}, &stubCartRepo{}, &stubUserRepo{})

	_, err := svc.Create(context.Background(), 0)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestDetailsMissingOrder(t *testing.T) {
	svc := newOrdersTestService(t, &stubOrderRepo{}, &stubCartRepo{}, &stubUserRepo{})

	_, err := svc.Details(context.Background(), 12)
	if err == nil {
		t.Fatal("expected error for missing order")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestDetailsComputesTotalAndPlaceholder(t *testing.T) {
	repo := &stubOrderRepo{detail: &OrderDetail{
		OrderID:    12,
		ExternalID: 42,
		Lines: []OrderLine{
			{Name: "Smoked Tea", Quantity: 2, Price: decimal.RequireFromString("10.0")},
			{Name: "Sunflower Halva", Quantity: 1, Price: decimal.RequireFromString("5.0")},
		},
	}}
	svc := newOrdersTestService(t, repo, &stubCartRepo{}, &stubUserRepo{})

	details, err := svc.Details(context.Background(), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Username != "unspecified" {
		t.Fatalf("expected username placeholder, got %q", details.Username)
	}
	if !details.Total.Equal(decimal.RequireFromString("25.0")) {
		t.Fatalf("expected total 25.0, got %s", details.Total)
	}
	if len(details.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(details.Items))
	}
}

func TestDetailsUsesStoredUsername(t *testing.T) {
	username := "fedor"
	repo := &stubOrderRepo{detail: &OrderDetail{OrderID: 12, ExternalID: 42, Username: &username}}
	svc := newOrdersTestService(t, repo, &stubCartRepo{}, &stubUserRepo{})

	details, err := svc.Details(context.Background(), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Username != "fedor" {
		t.Fatalf("expected stored username, got %q", details.Username)
	}
	if len(details.Items) != 0 || details.Items == nil {
		t.Fatalf("expected empty non-nil items, got %v", details.Items)
	}
}
