package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/pkg/database"
)

// QueryObserver receives the duration of every repository query.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// CRUDRepository implements list/get/create/update/delete over a single table
// whose primary key is a database generated BIGSERIAL id. Columns lists the
// writable columns in the order they are selected after id.
//
// Mutations run in their own transaction. Missing rows surface as sql.ErrNoRows.
type CRUDRepository[T any] struct {
	db       *sqlx.DB
	table    string
	columns  []string
	observer QueryObserver
}

// NewCRUDRepository constructs a CRUDRepository for table.
func NewCRUDRepository[T any](db *sqlx.DB, table string, columns []string) *CRUDRepository[T] {
	return &CRUDRepository[T]{db: db, table: table, columns: columns}
}

// SetObserver installs a query duration observer.
func (r *CRUDRepository[T]) SetObserver(observer QueryObserver) {
	r.observer = observer
}

// List returns every row ordered by id.
func (r *CRUDRepository[T]) List(ctx context.Context) ([]T, error) {
	defer r.observe("list", time.Now())
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", r.selectColumns(), r.table)
	items := make([]T, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	return items, nil
}

// FindByID fetches a row by id.
func (r *CRUDRepository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	defer r.observe("find", time.Now())
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.selectColumns(), r.table)
	var item T
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find %s: %w", r.table, err)
	}
	return &item, nil
}

// Create inserts entity and scans the stored row, including its id and
// column defaults, back into it.
func (r *CRUDRepository[T]) Create(ctx context.Context, entity *T) error {
	defer r.observe("create", time.Now())
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s) RETURNING %s",
		r.table,
		strings.Join(r.columns, ", "),
		strings.Join(r.columns, ", :"),
		r.selectColumns(),
	)
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return namedGet(ctx, tx, entity, query)
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", r.table, err)
	}
	return nil
}

// Update overwrites every writable column of the row identified by the
// entity's id.
func (r *CRUDRepository[T]) Update(ctx context.Context, entity *T) error {
	defer r.observe("update", time.Now())
	assignments := make([]string, len(r.columns))
	for i, column := range r.columns {
		assignments[i] = fmt.Sprintf("%s = :%s", column, column)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id RETURNING %s",
		r.table,
		strings.Join(assignments, ", "),
		r.selectColumns(),
	)
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return namedGet(ctx, tx, entity, query)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update %s: %w", r.table, err)
	}
	return nil
}

// Delete removes the row with id.
func (r *CRUDRepository[T]) Delete(ctx context.Context, id int64) error {
	defer r.observe("delete", time.Now())
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table)
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	return nil
}

// exists reports whether another row holds value in column. Rows with
// excludeID are ignored when excludeID is positive.
func (r *CRUDRepository[T]) exists(ctx context.Context, column string, value interface{}, excludeID int64, foldCase bool) (bool, error) {
	defer r.observe("exists_"+column, time.Now())
	cond := fmt.Sprintf("%s = $1", column)
	if foldCase {
		cond = fmt.Sprintf("LOWER(%s) = LOWER($1)", column)
	}
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s", r.table, cond)
	args := []interface{}{value}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var found int
	if err := r.db.GetContext(ctx, &found, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check %s %s: %w", r.table, column, err)
	}
	return true, nil
}

func (r *CRUDRepository[T]) selectColumns() string {
	return "id, " + strings.Join(r.columns, ", ")
}

func (r *CRUDRepository[T]) observe(op string, start time.Time) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveDBQuery(r.table+"."+op, time.Since(start))
}

func namedGet(ctx context.Context, tx *sqlx.Tx, dest interface{}, query string) error {
	bound, args, err := tx.BindNamed(query, dest)
	if err != nil {
		return err
	}
	return tx.GetContext(ctx, dest, bound, args...)
}
