package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"backoffice-service/internal/entity"
)

const orderColumns = `o.id, o.user_id, o.total_price, o.status, u.id, u.name
	FROM orders o JOIN users u ON u.id = o.user_id`

const orderItemColumns = `oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
	p.id, p.name, p.price, p.stock, p.category_id
	FROM order_items oi JOIN products p ON p.id = oi.product_id`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// PlaceOrder resolves the user, reserves stock for every line in request
// order, snapshots line prices and stores the order with its items. It all
// happens in one transaction: any failure rolls back every stock decrement
// already made for this order.
//
// Stock is taken with a conditional update so that two concurrent orders
// for the same product can never drive its stock below zero.
func (r *OrderRepository) PlaceOrder(ctx context.Context, userID int, lines []entity.OrderLine) (*entity.Order, error) {
	// Start a transaction
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	user := &entity.User{}
	userQuery := `SELECT id, name FROM users WHERE id = ?`
	if err := tx.QueryRowContext(ctx, userQuery, userID).Scan(&user.ID, &user.Name); err != nil {
		rollback(tx)
		return nil, translate(err, "user")
	}

	order := &entity.Order{
		UserID:     user.ID,
		User:       user,
		Items:      make([]entity.OrderItem, 0, len(lines)),
		TotalPrice: decimal.Zero,
		Status:     entity.OrderStatusCreated,
	}

	for _, line := range lines {
		product, err := reserveStock(ctx, tx, line)
		if err != nil {
			rollback(tx)
			return nil, err
		}

		price := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Items = append(order.Items, entity.OrderItem{
			ProductID: product.ID,
			Product:   product,
			Quantity:  line.Quantity,
			Price:     price,
		})
		order.TotalPrice = order.TotalPrice.Add(price)
	}

	// Insert order
	orderQuery := `INSERT INTO orders (user_id, total_price, status) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, order.UserID, order.TotalPrice, order.Status)
	if err != nil {
		rollback(tx)
		return nil, translate(err, "user")
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		rollback(tx)
		return nil, err
	}
	order.ID = int(orderID)

	// Insert order items
	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		res, err := tx.ExecContext(ctx, itemQuery, item.OrderID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			rollback(tx)
			return nil, translate(err, "product")
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			rollback(tx)
			return nil, err
		}
		item.ID = int(itemID)
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return order, nil
}

// reserveStock decrements the product's stock by the line quantity if
// enough is left, then reads the product back within the same
// transaction.
func reserveStock(ctx context.Context, tx *sql.Tx, line entity.OrderLine) (*entity.Product, error) {
	decrementQuery := `UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`
	res, err := tx.ExecContext(ctx, decrementQuery, line.Quantity, line.ProductID, line.Quantity)
	if err != nil {
		return nil, err
	}
	reserved, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	product := &entity.Product{}
	productQuery := `SELECT id, name, price, stock, category_id FROM products WHERE id = ?`
	err = tx.QueryRowContext(ctx, productQuery, line.ProductID).
		Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.CategoryID)
	if err != nil {
		return nil, translate(err, "product")
	}

	if reserved == 0 {
		return nil, entity.InsufficientStock(product.Name)
	}

	return product, nil
}

// GetOrders returns every order with its user, items and item products.
// Orders and items are read in one read-only transaction so that the
// result is a consistent snapshot.
func (r *OrderRepository) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer rollback(tx)

	rows, err := tx.QueryContext(ctx, `SELECT `+orderColumns+` ORDER BY o.id`)
	if err != nil {
		return nil, err
	}
	orders := []*entity.Order{}
	byID := map[int]*entity.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, order)
		byID[order.ID] = order
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := queryOrderItems(ctx, tx, `SELECT `+orderItemColumns+` ORDER BY oi.order_id, oi.id`)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` WHERE o.id = ?`, id))
	if err != nil {
		return nil, translate(err, "order")
	}

	items, err := queryOrderItems(ctx, r.db, `SELECT `+orderItemColumns+` WHERE oi.order_id = ? ORDER BY oi.id`, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// UpdateOrderStatus stores a new status. The order's items and prices are
// immutable. The status must differ from the stored one, since MySQL does
// not count unchanged rows as affected.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE orders SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "order")
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id int) error {
	// Start a transaction
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Delete order items
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		rollback(tx)
		return err
	}

	// Delete order
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		rollback(tx)
		return err
	}
	if err := affectedOrNotFound(res, "order"); err != nil {
		rollback(tx)
		return err
	}

	return tx.Commit()
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	order := &entity.Order{User: &entity.User{}, Items: []entity.OrderItem{}}
	err := row.Scan(&order.ID, &order.UserID, &order.TotalPrice, &order.Status, &order.User.ID, &order.User.Name)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func queryOrderItems(ctx context.Context, q queryer, query string, args ...any) ([]entity.OrderItem, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []entity.OrderItem{}
	for rows.Next() {
		item := entity.OrderItem{Product: &entity.Product{}}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&item.Product.ID, &item.Product.Name, &item.Product.Price, &item.Product.Stock, &item.Product.CategoryID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
