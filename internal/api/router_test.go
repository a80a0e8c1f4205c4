package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shop-backend/config"
	"shop-backend/internal/api/admin"
	"shop-backend/internal/api/cart"
	"shop-backend/internal/api/product"
	"shop-backend/internal/api/user"
	apperrors "shop-backend/internal/errors"
	"shop-backend/internal/middleware"
	"shop-backend/internal/model"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUsers 固定返回一个普通用户和一个管理员
type stubUsers struct{}

func (stubUsers) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (stubUsers) Login(ctx context.Context, username, password string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (stubUsers) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	role := model.RoleUser
	if id == 1 {
		role = model.RoleAdmin
	}
	return &model.User{ID: id, Role: role}, nil
}

type stubProducts struct {
	created int
}

func (s *stubProducts) ListProducts(ctx context.Context) ([]model.Product, error) {
	return []model.Product{}, nil
}

func (s *stubProducts) CreateProduct(ctx context.Context, p *model.Product) error {
	s.created++
	p.ID = 1
	return nil
}

func (s *stubProducts) SearchProducts(ctx context.Context, filters model.ProductFilters) ([]model.Product, error) {
	return []model.Product{}, nil
}

func newTestRouter(t *testing.T, health func(ctx context.Context) error) (*gin.Engine, *stubProducts) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	util.RegisterValidators()
	config.AppConfig.JWTSecret = "router-test-secret"
	config.AppConfig.FrontendURL = "http://localhost:5173"

	products := &stubProducts{}
	monitor := middleware.NewErrorMonitor()
	router := NewRouter(Dependencies{
		UserService:    stubUsers{},
		AuthHandler:    user.NewAuthHandler(stubUsers{}),
		ProfileHandler: user.NewProfileHandler(nil),
		ProductHandler: product.NewProductHandler(products, nil),
		CartHandler:    cart.NewCartHandler(nil),
		AdminHandler:   admin.NewAdminHandler(nil, nil, products, monitor),
		ErrorMonitor:   monitor,
		HealthCheck:    health,
	})
	return router, products
}

func request(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	router, products := newTestRouter(t, nil)

	admin, err := util.GenerateTokenPair(1)
	require.NoError(t, err)
	customer, err := util.GenerateTokenPair(2)
	require.NoError(t, err)

	body := `{"name":"Lamp","description":"Desk lamp","price":"10.00"}`

	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodPost, "/products/add/", "", body).Code)
	assert.Equal(t, http.StatusForbidden, request(router, http.MethodPost, "/products/add/", customer.Access, body).Code)
	assert.Equal(t, 0, products.created)

	assert.Equal(t, http.StatusCreated, request(router, http.MethodPost, "/products/add/", admin.Access, body).Code)
	assert.Equal(t, 1, products.created)
}

func TestPublicAndAdminRoutes(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/products/", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/cart/", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/profile/", "", "").Code)

	customer, err := util.GenerateTokenPair(2)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, request(router, http.MethodGet, "/admin/products/", customer.Access, "").Code)

	admin, err := util.GenerateTokenPair(1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/admin/products/", admin.Access, "").Code)

	assert.Equal(t, http.StatusNotFound, request(router, http.MethodGet, "/nothing-here/", "", "").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	w := request(router, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	request(router, http.MethodGet, "/products/", "", "")
	w = request(router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	down, _ := newTestRouter(t, func(ctx context.Context) error { return errors.New("db down") })
	assert.Equal(t, http.StatusServiceUnavailable, request(down, http.MethodGet, "/healthz", "", "").Code)
}

func TestPanicIsCountedAsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "router-test-secret"

	products := &stubProducts{}
	monitor := middleware.NewErrorMonitor()
	router := NewRouter(Dependencies{
		UserService:    stubUsers{},
		AuthHandler:    user.NewAuthHandler(stubUsers{}),
		ProfileHandler: user.NewProfileHandler(nil),
		ProductHandler: product.NewProductHandler(products, nil),
		CartHandler:    cart.NewCartHandler(nil),
		AdminHandler:   admin.NewAdminHandler(nil, nil, products, monitor),
		ErrorMonitor:   monitor,
	})
	router.GET("/boom/", func(c *gin.Context) {
		panic("nil map write")
	})

	w := request(router, http.MethodGet, "/boom/", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.Equal(t, 1, monitor.GetErrorCounts()[apperrors.ErrInternal])

	w = request(router, http.MethodGet, "/metrics", "", "")
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/boom/",status="500"} 1`)
	assert.Contains(t, w.Body.String(), `app_errors_total{code="1000"}`)
}
