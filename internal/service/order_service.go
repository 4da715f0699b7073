package service

import (
	"context"
	"strings"

	"backoffice-service/internal/entity"
	"backoffice-service/internal/events"
)

const maxStatusLength = 32

// OrderService is a service that provides order-related operations
type OrderService struct {
	orderRepo   OrderRepository
	idempotency IdempotencyStore
	publisher   OrderEventPublisher
}

// NewOrderService creates a new instance of OrderService. idempotency may
// be nil, in which case Idempotency-Key headers are ignored.
func NewOrderService(orderRepo OrderRepository, idempotency IdempotencyStore, publisher OrderEventPublisher) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		orderRepo:   orderRepo,
		idempotency: idempotency,
		publisher:   publisher,
	}
}

// CreateOrder places an order for req.UserID. Stock checks, decrements,
// price snapshots and the insert happen atomically in the repository.
func (s *OrderService) CreateOrder(ctx context.Context, req entity.CreateOrderRequest, idempotencyKey string) (*entity.Order, error) {
	if err := validateOrderLines(req.Items); err != nil {
		return nil, err
	}

	if idempotencyKey != "" && s.idempotency != nil {
		claimed, err := s.idempotency.Claim(ctx, idempotencyKey)
		if err != nil {
			logger.Error().Err(err).Msg("Error validating idempotency key")
			return nil, err
		}
		if !claimed {
			return nil, entity.Conflict("idempotency key %q already used", idempotencyKey)
		}
	}

	createdOrder, err := s.orderRepo.PlaceOrder(ctx, req.UserID, req.Items)
	if err != nil {
		logger.Warn().Err(err).Msgf("Order for user %d rejected", req.UserID)
		if idempotencyKey != "" && s.idempotency != nil {
			// the caller may have gone away; the key must still be freed
			if relErr := s.idempotency.Release(context.WithoutCancel(ctx), idempotencyKey); relErr != nil {
				logger.Error().Err(relErr).Msg("Error releasing idempotency key")
			}
		}
		return nil, err
	}

	logger.Info().Msgf("Order %d placed for user %d, total %s", createdOrder.ID, createdOrder.UserID, createdOrder.TotalPrice.StringFixed(2))
	s.publish(ctx, createdOrder, events.OrderCreated)

	return createdOrder, nil
}

func (s *OrderService) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := s.orderRepo.GetOrders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing orders")
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	return s.orderRepo.GetOrderByID(ctx, id)
}

// UpdateOrder applies a status change. An empty status leaves the order
// as it is.
func (s *OrderService) UpdateOrder(ctx context.Context, id int, req entity.UpdateOrderRequest) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(req.Status)
	if status == "" || status == order.Status {
		return order, nil
	}
	if len(status) > maxStatusLength {
		return nil, entity.InvalidRequest("status must be at most %d characters", maxStatusLength)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, status); err != nil {
		logger.Error().Err(err).Msgf("Error updating order %d", id)
		return nil, err
	}
	order.Status = status

	s.publish(ctx, order, events.OrderUpdated)
	return order, nil
}

// DeleteOrder removes the order and its items. Stock is not restored.
func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	if err := s.orderRepo.DeleteOrder(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting order %d", id)
		return err
	}

	s.publish(ctx, &entity.Order{ID: id, Items: []entity.OrderItem{}}, events.OrderDeleted)
	return nil
}

// publish runs after the change is committed, so a broker failure is
// logged rather than reported to the caller.
func (s *OrderService) publish(ctx context.Context, order *entity.Order, event string) {
	if err := s.publisher.PublishOrderEvent(ctx, order, event); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order-%s event for order %d", event, order.ID)
	}
}

func validateOrderLines(lines []entity.OrderLine) error {
	if len(lines) == 0 {
		return entity.InvalidRequest("order must contain at least one item")
	}
	for i, line := range lines {
		if line.Quantity <= 0 {
			return entity.InvalidRequest("item %d: quantity must be greater than zero", i)
		}
	}
	return nil
}
