package service

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"backoffice-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// SetLogger replaces the package logger, e.g. to switch to console output.
func SetLogger(l zerolog.Logger) {
	logger = l
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error)
	GetCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*entity.Category, error)
	UpdateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	GetProducts(ctx context.Context) ([]*entity.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID int) ([]*entity.Product, error)
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) error
	DeleteProduct(ctx context.Context, id int) error
}

type UserRepository interface {
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
}

type OrderRepository interface {
	PlaceOrder(ctx context.Context, userID int, lines []entity.OrderLine) (*entity.Order, error)
	GetOrders(ctx context.Context) ([]*entity.Order, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status string) error
	DeleteOrder(ctx context.Context, id int) error
}

// IdempotencyStore guards order creation against replays of the same
// Idempotency-Key header.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, order *entity.Order, event string) error
}

const maxNameLength = 255

func normalizeName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", entity.InvalidRequest("%s name is required", kind)
	}
	if len(name) > maxNameLength {
		return "", entity.InvalidRequest("%s name must be at most %d characters", kind, maxNameLength)
	}
	return name, nil
}
