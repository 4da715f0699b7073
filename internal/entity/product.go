package entity

import "github.com/shopspring/decimal"

type Product struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID int             `json:"categoryId"`
	Category   *Category       `json:"category,omitempty"`
}

// ProductInput is the payload for creating or replacing a product.
// Update overwrites every field, including the category link.
type ProductInput struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID int             `json:"categoryId"`
}

/*
Schema MySQL for products table:
CREATE TABLE products (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	price DECIMAL(12,2) NOT NULL,
	stock INT NOT NULL,
	category_id INT NOT NULL REFERENCES categories(id)
);
*/
