package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"backoffice-service/internal/entity"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, input entity.CategoryInput) (*entity.Category, error)
	GetCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id int, input entity.CategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

type CategoryHandler struct {
	categoryService CategoryService
	productService  ProductService
}

func NewCategoryHandler(categoryService CategoryService, productService ProductService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, productService: productService}
}

// CreateCategory --> POST /categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var input entity.CategoryInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// GetCategories --> GET /categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.categoryService.GetCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory --> GET /categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	category, err := h.categoryService.GetCategoryByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// GetCategoryProducts --> GET /categories/:id/products
func (h *CategoryHandler) GetCategoryProducts(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	products, err := h.productService.FindByCategory(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// UpdateCategory --> PUT /categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	var input entity.CategoryInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory --> DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
