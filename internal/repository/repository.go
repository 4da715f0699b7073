package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"backoffice-service/internal/entity"
)

const (
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// translate maps driver errors onto the entity error taxonomy. kind names
// the entity for a missing row.
func translate(err error, kind string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.NotFound(kind)
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrRowIsReferenced:
			return entity.Conflict("%s is still referenced", kind)
		case mysqlErrNoReferencedRow:
			return entity.NotFound(kind)
		}
	}
	return err
}

// affectedOrNotFound turns a zero-row write into NotFound.
func affectedOrNotFound(res sql.Result, kind string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.NotFound(kind)
	}
	return nil
}

func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
