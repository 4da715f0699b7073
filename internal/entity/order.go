package entity

import "github.com/shopspring/decimal"

const (
	OrderStatusCreated = "created"
)

type Order struct {
	ID         int             `json:"id"`
	UserID     int             `json:"userId"`
	User       *User           `json:"user,omitempty"`
	Items      []OrderItem     `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
}

// OrderItem snapshots the line price at placement time. Later product
// price changes never touch it.
type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"orderId"`
	ProductID int             `json:"productId"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID int         `json:"userId"`
	Items  []OrderLine `json:"items"`
}

// UpdateOrderRequest carries the mutable order fields. Items cannot be
// edited after placement.
type UpdateOrderRequest struct {
	Status string `json:"status"`
}

/*
Mysql Table

CREATE TABLE orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	user_id INT NOT NULL REFERENCES users(id),
	total_price DECIMAL(12,2) NOT NULL,
	status VARCHAR(32) NOT NULL
);

CREATE TABLE order_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id INT NOT NULL REFERENCES products(id),
	quantity INT NOT NULL,
	price DECIMAL(12,2) NOT NULL
);

*/
