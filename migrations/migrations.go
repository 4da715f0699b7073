package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// tables is ordered so that every foreign key points at a table created
// before it.
var tables = []struct {
	name  string
	query string
}{
	{"categories", `
		CREATE TABLE IF NOT EXISTS categories (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		);
	`},
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		);
	`},
	{"products", `
		CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(12,2) NOT NULL,
			stock INT NOT NULL,
			category_id INT NOT NULL,
			CONSTRAINT chk_products_stock CHECK (stock >= 0),
			FOREIGN KEY (category_id) REFERENCES categories(id)
		);
	`},
	{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			total_price DECIMAL(12,2) NOT NULL,
			status VARCHAR(32) NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		);
	`},
	{"order_items", `
		CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			quantity INT NOT NULL,
			price DECIMAL(12,2) NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY (product_id) REFERENCES products(id)
		);
	`},
}

// AutoMigrate creates every table that does not exist yet. Each statement
// is retried up to retries times, one second apart, to ride out a database
// that is still starting.
func AutoMigrate(ctx context.Context, db *sql.DB, retries int) error {
	for _, t := range tables {
		_, err := db.ExecContext(ctx, t.query)
		for i := 0; err != nil && i < retries; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(1 * time.Second):
			}
			_, err = db.ExecContext(ctx, t.query)
		}
		if err != nil {
			return fmt.Errorf("migrate %s: %w", t.name, err)
		}
	}
	return nil
}
