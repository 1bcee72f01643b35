package traversal

import (
	"io"

	"github.com/jackc/pgx/v5"
)

// SQLRows is the part of *sql.Rows a row traversal needs.
type SQLRows interface {
	io.Closer
	Next() bool
	Err() error
	Scan(dest ...any) error
}

type SQLRowScanner interface {
	Scan(...any) error
}

// SQLRowMapper turns the current row into a value.
type SQLRowMapper[T any] func(SQLRowScanner) (T, error)

// Rows visits each row of a query result with Args{value}, where value is made by the mapper.
// A mapper error ends the traversal, like a failing row read would.
// The rows are closed at the end of the traversal.
// The result is the number of visited rows.
func Rows[T any](rows SQLRows, mapper SQLRowMapper[T]) Traversal[int] {
	return FromIterator[T](&sqlRowsIterator[T]{Rows: rows, Mapper: mapper})
}

// PgxRows adapts pgx query results to SQLRows.
func PgxRows(rows pgx.Rows) SQLRows {
	return pgxRows{Rows: rows}
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Close() error {
	r.Rows.Close()
	return nil
}

type sqlRowsIterator[T any] struct {
	Rows   SQLRows
	Mapper SQLRowMapper[T]

	value T
	err   error
}

func (i *sqlRowsIterator[T]) Close() error {
	return i.Rows.Close()
}

func (i *sqlRowsIterator[T]) Next() bool {
	if i.err != nil {
		return false
	}
	if !i.Rows.Next() {
		return false
	}
	v, err := i.Mapper(i.Rows)
	if err != nil {
		i.err = err
		return false
	}
	i.value = v
	return true
}

func (i *sqlRowsIterator[T]) Err() error {
	if i.err != nil {
		return i.err
	}
	return i.Rows.Err()
}

func (i *sqlRowsIterator[T]) Value() T {
	return i.value
}
