package repository

import (
	"context"
	"database/sql"

	"backoffice-service/internal/entity"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db}
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `INSERT INTO categories (name) VALUES (?)`
	res, err := r.db.ExecContext(ctx, query, category.Name)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	category.ID = int(id)
	return category, nil
}

func (r *CategoryRepository) GetCategories(ctx context.Context) ([]*entity.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*entity.Category{}
	for rows.Next() {
		var category entity.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id int) (*entity.Category, error) {
	return getCategory(ctx, r.db, id)
}

func getCategory(ctx context.Context, q queryer, id int) (*entity.Category, error) {
	category := &entity.Category{}
	query := `SELECT id, name FROM categories WHERE id = ?`
	err := q.QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Name)
	if err != nil {
		return nil, translate(err, "category")
	}

	return category, nil
}

// UpdateCategory renames a category and returns the stored row.
func (r *CategoryRepository) UpdateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `UPDATE categories SET name = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, category.Name, category.ID); err != nil {
		return nil, err
	}

	// MySQL reports zero affected rows when the name is unchanged, so
	// existence is decided by reading the row back.
	return r.GetCategoryByID(ctx, category.ID)
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int) error {
	query := `DELETE FROM categories WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translate(err, "category")
	}
	return affectedOrNotFound(res, "category")
}
