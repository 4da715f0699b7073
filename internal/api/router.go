package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const healthPath = "/health"

// Services is everything the HTTP layer routes to.
type Services struct {
	Categories CategoryService
	Products   ProductService
	Orders     OrderService
	Reports    ReportService
	Auth       TokenValidator
	// Ping reports store health for GET /health.
	Ping func(ctx context.Context) error
}

type RateLimit struct {
	RPS   float64
	Burst int
}

// NewRouter builds the echo instance with middleware and the full route
// table.
func NewRouter(svc Services, limit RateLimit) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if limit.RPS > 0 {
		e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig(limit)))
	}
	e.Use(AuthMiddleware(svc.Auth, func(c echo.Context) bool {
		return c.Path() == healthPath
	}))

	categoryHandler := NewCategoryHandler(svc.Categories, svc.Products)
	productHandler := NewProductHandler(svc.Products)
	orderHandler := NewOrderHandler(svc.Orders)
	reportHandler := NewReportHandler(svc.Reports)

	// Routes
	e.POST("/categories", categoryHandler.CreateCategory)
	e.GET("/categories", categoryHandler.GetCategories)
	e.GET("/categories/:id", categoryHandler.GetCategory)
	e.GET("/categories/:id/products", categoryHandler.GetCategoryProducts)
	e.PUT("/categories/:id", categoryHandler.UpdateCategory)
	e.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	e.POST("/products", productHandler.CreateProduct)
	e.GET("/products", productHandler.GetProducts)
	e.GET("/products/:id", productHandler.GetProduct)
	e.PUT("/products/:id", productHandler.UpdateProduct)
	e.DELETE("/products/:id", productHandler.DeleteProduct)

	e.POST("/orders", orderHandler.CreateOrder)
	e.GET("/orders", orderHandler.GetOrders)
	e.GET("/orders/:id", orderHandler.GetOrder)
	e.PUT("/orders/:id", orderHandler.UpdateOrder)
	e.DELETE("/orders/:id", orderHandler.DeleteOrder)

	e.GET("/reports/pdf", reportHandler.GetPDFReport)
	e.GET("/reports/csv", reportHandler.GetCSVReport)

	e.GET(healthPath, func(c echo.Context) error {
		status, code := "ok", http.StatusOK
		if svc.Ping != nil {
			if err := svc.Ping(c.Request().Context()); err != nil {
				c.Logger().Error(err)
				status, code = "error", http.StatusServiceUnavailable
			}
		}
		return c.JSON(code, map[string]interface{}{
			"status":  status,
			"service": "backoffice-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	return e
}

func rateLimiterConfig(limit RateLimit) middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(limit.RPS),
				Burst:     limit.Burst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"error": "rate limit identifier unavailable"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		},
	}
}
