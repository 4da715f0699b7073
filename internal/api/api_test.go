package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice-service/internal/entity"
)

const goodToken = "good-token"

type stubValidator struct{}

func (stubValidator) ValidateToken(_ context.Context, token string) (*entity.User, error) {
	if token == goodToken {
		return &entity.User{ID: 1, Name: "Ana"}, nil
	}
	return nil, entity.ErrUnauthorized
}

type stubCategories struct {
	calls int
}

func (s *stubCategories) CreateCategory(_ context.Context, in entity.CategoryInput) (*entity.Category, error) {
	s.calls++
	if strings.TrimSpace(in.Name) == "" {
		return nil, entity.InvalidRequest("category name is required")
	}
	return &entity.Category{ID: 1, Name: in.Name}, nil
}

func (s *stubCategories) GetCategories(context.Context) ([]*entity.Category, error) {
	s.calls++
	return []*entity.Category{{ID: 1, Name: "Home"}}, nil
}

func (s *stubCategories) GetCategoryByID(_ context.Context, id int) (*entity.Category, error) {
	s.calls++
	if id != 1 {
		return nil, entity.NotFound("category")
	}
	return &entity.Category{ID: 1, Name: "Home"}, nil
}

func (s *stubCategories) UpdateCategory(_ context.Context, id int, in entity.CategoryInput) (*entity.Category, error) {
	s.calls++
	return &entity.Category{ID: id, Name: in.Name}, nil
}

func (s *stubCategories) DeleteCategory(_ context.Context, id int) error {
	s.calls++
	if id != 1 {
		return entity.NotFound("category")
	}
	return nil
}

type stubProducts struct {
	byCategory int
}

func (s *stubProducts) CreateProduct(_ context.Context, in entity.ProductInput) (*entity.Product, error) {
	if in.CategoryID != 1 {
		return nil, entity.NotFound("category")
	}
	return &entity.Product{ID: 5, Name: in.Name, Price: in.Price, Stock: in.Stock, CategoryID: in.CategoryID}, nil
}

func (s *stubProducts) GetProducts(context.Context) ([]*entity.Product, error) {
	return []*entity.Product{{ID: 5, Name: "Lamp"}, {ID: 6, Name: "Hose"}}, nil
}

func (s *stubProducts) GetProductByID(_ context.Context, id int) (*entity.Product, error) {
	return nil, entity.NotFound("product")
}

func (s *stubProducts) FindByCategory(_ context.Context, categoryID int) ([]*entity.Product, error) {
	s.byCategory = categoryID
	return []*entity.Product{{ID: 5, Name: "Lamp", CategoryID: categoryID}}, nil
}

func (s *stubProducts) UpdateProduct(_ context.Context, id int, in entity.ProductInput) (*entity.Product, error) {
	return &entity.Product{ID: id, Name: in.Name}, nil
}

func (s *stubProducts) DeleteProduct(context.Context, int) error {
	return nil
}

type stubOrders struct {
	lastReq entity.CreateOrderRequest
	lastKey string
}

func (s *stubOrders) CreateOrder(_ context.Context, req entity.CreateOrderRequest, key string) (*entity.Order, error) {
	s.lastReq, s.lastKey = req, key
	for _, item := range req.Items {
		if item.Quantity > 5 {
			return nil, entity.InsufficientStock("Lamp")
		}
	}
	return &entity.Order{ID: 9, UserID: req.UserID, TotalPrice: decimal.NewFromInt(30), Status: entity.OrderStatusCreated}, nil
}

func (s *stubOrders) GetOrders(context.Context) ([]*entity.Order, error) {
	return nil, errors.New("connection reset")
}

func (s *stubOrders) GetOrderByID(_ context.Context, id int) (*entity.Order, error) {
	return nil, entity.NotFound("order")
}

func (s *stubOrders) UpdateOrder(_ context.Context, id int, req entity.UpdateOrderRequest) (*entity.Order, error) {
	return &entity.Order{ID: id, Status: req.Status}, nil
}

func (s *stubOrders) DeleteOrder(context.Context, int) error {
	return entity.NotFound("order")
}

type stubReports struct{}

func (stubReports) GeneratePDF(context.Context) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

func (stubReports) GenerateCSV(context.Context) ([]byte, error) {
	return []byte("ID,Usuario,Total,Estado\n1,Ana,10.00,created\n"), nil
}

type fixture struct {
	categories *stubCategories
	products   *stubProducts
	orders     *stubOrders
	services   Services
}

func newFixture() *fixture {
	f := &fixture{categories: &stubCategories{}, products: &stubProducts{}, orders: &stubOrders{}}
	f.services = Services{
		Categories: f.categories,
		Products:   f.products,
		Orders:     f.orders,
		Reports:    stubReports{},
		Auth:       stubValidator{},
	}
	return f
}

func (f *fixture) do(t *testing.T, method, path, body, token string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := NewRouter(f.services, RateLimit{})
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRequestsWithoutValidTokenAreRejected(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/categories", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token not provided", errorMessage(t, rec))

	rec = f.do(t, http.MethodPost, "/categories", `{"name":"Books"}`, "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", errorMessage(t, rec))

	assert.Zero(t, f.categories.calls)
}

func TestHealthSkipsAuth(t *testing.T) {
	f := newFixture()
	f.services.Ping = func(context.Context) error { return nil }

	rec := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	f.services.Ping = func(context.Context) error { return errors.New("db down") }
	rec = f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCategoryRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/categories", `{"name":"Books"}`, goodToken)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Books"}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/categories", `{"name":""}`, goodToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/categories/2", "", goodToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "category not found", errorMessage(t, rec))

	rec = f.do(t, http.MethodGet, "/categories/abc", "", goodToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/categories/1", "", goodToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/categories/3/products", "", goodToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, f.products.byCategory)
}

func TestProductRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/products", `{"name":"Lamp","price":19.99,"stock":4,"categoryId":1}`, goodToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var product entity.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "19.99", product.Price.String())

	rec = f.do(t, http.MethodPost, "/products", `{"name":"Lamp","price":1,"stock":1,"categoryId":8}`, goodToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "category not found", errorMessage(t, rec))

	rec = f.do(t, http.MethodGet, "/products?categoryId=2", "", goodToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, f.products.byCategory)

	rec = f.do(t, http.MethodGet, "/products?categoryId=x", "", goodToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/products/7", "", goodToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/orders", `{"userId":1,"items":[{"productId":5,"quantity":3}]}`, goodToken,
		HeaderIdempotencyKey, "abc")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, entity.CreateOrderRequest{UserID: 1, Items: []entity.OrderLine{{ProductID: 5, Quantity: 3}}}, f.orders.lastReq)
	assert.Equal(t, "abc", f.orders.lastKey)

	rec = f.do(t, http.MethodPost, "/orders", `{"userId":1,"items":[{"productId":5,"quantity":9}]}`, goodToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "insufficient stock for product: Lamp", errorMessage(t, rec))

	rec = f.do(t, http.MethodPost, "/orders", `{"userId":`, goodToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/orders/9", `{"status":"paid"}`, goodToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"paid"`)

	rec = f.do(t, http.MethodDelete, "/orders/9", "", goodToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/orders", "", goodToken)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorMessage(t, rec))
}

func TestReportRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/reports/pdf", "", goodToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=report.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "13", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.3 fake", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/reports/csv", "", goodToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=report.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "44", rec.Header().Get("Content-Length"))
}

func TestRateLimiterDeniesBurst(t *testing.T) {
	f := newFixture()
	e := NewRouter(f.services, RateLimit{RPS: 0.001, Burst: 1})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		req.Header.Set("Authorization", "Bearer "+goodToken)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCurrentUserIsSetByAuthMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(AuthMiddleware(stubValidator{}, nil))
	e.GET("/whoami", func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return c.NoContent(http.StatusNoContent)
		}
		return c.String(http.StatusOK, user.Name)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+goodToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana", rec.Body.String())
}
