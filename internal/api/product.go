package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"backoffice-service/internal/entity"
)

type ProductService interface {
	CreateProduct(ctx context.Context, input entity.ProductInput) (*entity.Product, error)
	GetProducts(ctx context.Context) ([]*entity.Product, error)
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	FindByCategory(ctx context.Context, categoryID int) ([]*entity.Product, error)
	UpdateProduct(ctx context.Context, id int, input entity.ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

type ProductHandler struct {
	productService ProductService
}

// NewProductHandler creates a new instance of ProductHandler
func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProduct --> POST /products
func (ph *ProductHandler) CreateProduct(c echo.Context) error {
	var input entity.ProductInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	product, err := ph.productService.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// GetProducts --> GET /products, optionally filtered with ?categoryId=
func (ph *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		products []*entity.Product
		err      error
	)
	if raw := c.QueryParam("categoryId"); raw != "" {
		categoryID, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return badRequest(c, "Invalid category ID")
		}
		products, err = ph.productService.FindByCategory(ctx, categoryID)
	} else {
		products, err = ph.productService.GetProducts(ctx)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct --> GET /products/:id
func (ph *ProductHandler) GetProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	product, err := ph.productService.GetProductByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct --> PUT /products/:id
func (ph *ProductHandler) UpdateProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var input entity.ProductInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	product, err := ph.productService.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct --> DELETE /products/:id
func (ph *ProductHandler) DeleteProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if err := ph.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
