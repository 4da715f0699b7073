package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"backoffice-service/internal/entity"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type OrderService interface {
	CreateOrder(ctx context.Context, req entity.CreateOrderRequest, idempotencyKey string) (*entity.Order, error)
	GetOrders(ctx context.Context) ([]*entity.Order, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	UpdateOrder(ctx context.Context, id int, req entity.UpdateOrderRequest) (*entity.Order, error)
	DeleteOrder(ctx context.Context, id int) error
}

type OrderHandler struct {
	orderService OrderService
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder --> POST /orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	var req entity.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	createdOrder, err := h.orderService.CreateOrder(ctx, req, c.Request().Header.Get(HeaderIdempotencyKey))
	if err != nil {
		return respondError(c, err)
	}

	if operator := CurrentUser(c); operator != nil {
		c.Logger().Infof("order %d for user %d placed by %s (id %d)", createdOrder.ID, createdOrder.UserID, operator.Name, operator.ID)
	}

	return c.JSON(http.StatusCreated, createdOrder)
}

// GetOrders --> GET /orders
func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.orderService.GetOrders(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder --> GET /orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	order, err := h.orderService.GetOrderByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrder --> PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	var req entity.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	updatedOrder, err := h.orderService.UpdateOrder(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updatedOrder)
}

// DeleteOrder --> DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	if err := h.orderService.DeleteOrder(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
