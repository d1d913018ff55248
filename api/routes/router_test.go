package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mvolkova/shopbot-backend/api/responses"
	"github.com/mvolkova/shopbot-backend/internal/backup"
	"github.com/mvolkova/shopbot-backend/internal/cart"
	"github.com/mvolkova/shopbot-backend/internal/catalog"
	"github.com/mvolkova/shopbot-backend/internal/orders"
	"github.com/mvolkova/shopbot-backend/internal/users"
	"github.com/mvolkova/shopbot-backend/pkg/config"
	"github.com/mvolkova/shopbot-backend/pkg/db/models"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) Categories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{{ID: 1, Name: "Tea"}}, nil
}

func (stubCatalogService) Products(ctx context.Context, category string) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

func (stubCatalogService) ProductByID(ctx context.Context, id uint) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id, Name: "Mint Tea", Category: "Tea"}, nil
}

func (stubCatalogService) AddProduct(ctx context.Context, input catalog.AddProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: 9, Name: input.Name, Category: input.Category}, nil
}

func (stubCatalogService) SeedCategories(ctx context.Context, names []string) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) Upsert(ctx context.Context, input users.UpsertInput) (*models.User, error) {
	return &models.User{ID: 1, ExternalID: input.ExternalID, IsAdmin: input.IsAdmin}, nil
}

func (stubUsersService) IsAdmin(ctx context.Context, externalID int64) (bool, error) {
	return false, nil
}

func (stubUsersService) EnsureAdmin(ctx context.Context, externalID int64) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) AddItem(ctx context.Context, externalID int64, productID uint) error {
	return nil
}

func (stubCartService) Items(ctx context.Context, externalID int64) ([]cart.ItemDetail, error) {
	return []cart.ItemDetail{}, nil
}

func (stubCartService) Clear(ctx context.Context, externalID int64) (bool, error) {
	return false, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, externalID int64) (orders.CreateResult, error) {
	return orders.CreateResult{OrderID: 12, Created: true}, nil
}

func (stubOrdersService) Details(ctx context.Context, orderID uint) (*orders.OrderDetailsDTO, error) {
	return &orders.OrderDetailsDTO{OrderID: orderID, Items: []orders.OrderLine{}}, nil
}

type stubBackupService struct{}

func (stubBackupService) Export(ctx context.Context) (string, error) {
	return "backups/products_20250805_143005.json", nil
}

func (stubBackupService) Import(ctx context.Context, path string) (backup.ImportResult, error) {
	return backup.ImportResult{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		prometheus.NewRegistry(),
		stubCatalogService{},
		stubUsersService{},
		stubCartService{},
		stubOrdersService{},
		stubBackupService{},
	)
}

func TestHealthzRoute(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Shopbot-Env"); env != "test" {
		t.Fatalf("unexpected env header %q", env)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestMetricsRoute(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRoutesCarryURLParams(t *testing.T) {
	router := newTestRouter(testConfig())

	add := httptest.NewRequest(http.MethodPost, "/v1/carts/42/items", strings.NewReader(`{"product_id": 7}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, add)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for add got %d", resp.Code)
	}

	fetch := httptest.NewRequest(http.MethodGet, "/v1/carts/42", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, fetch)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for fetch got %d", resp.Code)
	}

	clear := httptest.NewRequest(http.MethodDelete, "/v1/carts/42", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, clear)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for clear got %d", resp.Code)
	}
}

func TestOrderCreateRoute(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(`{"user_id": 42}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body responses.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	payload := body.Data.(map[string]any)
	if payload["created"] != true {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/v1/nope", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
