package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"backoffice-service/internal/entity"
)

const productColumns = `p.id, p.name, p.price, p.stock, p.category_id, c.id, c.name
	FROM products p JOIN categories c ON c.id = p.category_id`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (name, price, stock, category_id) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Price, product.Stock, product.CategoryID)
	if err != nil {
		return nil, translateProductWrite(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = int(id)
	return product, nil
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ORDER BY p.id`
	return r.queryProducts(ctx, query)
}

func (r *ProductRepository) GetProductsByCategory(ctx context.Context, categoryID int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` WHERE p.category_id = ? ORDER BY p.id`
	return r.queryProducts(ctx, query, categoryID)
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` WHERE p.id = ?`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, "product")
	}
	return product, nil
}

// UpdateProduct overwrites every column, including the category link.
// Callers re-fetch to observe the stored row.
func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) error {
	query := `UPDATE products SET name = ?, price = ?, stock = ?, category_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, product.Name, product.Price, product.Stock, product.CategoryID, product.ID)
	return translateProductWrite(err)
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translate(err, "product")
	}
	return affectedOrNotFound(res, "product")
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*entity.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	product := &entity.Product{Category: &entity.Category{}}
	err := row.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.CategoryID,
		&product.Category.ID, &product.Category.Name)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// translateProductWrite reports a dangling category_id as a missing
// category. It happens when the category is deleted between the
// service's check and the write.
func translateProductWrite(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlErrNoReferencedRow {
		return entity.NotFound("category")
	}
	return translate(err, "product")
}
