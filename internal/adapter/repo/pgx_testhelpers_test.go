package repo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeExecutor is an in-test infra.SQLExecutor replaying canned rows while
// recording the last statement and arguments it was handed.
type fakeExecutor struct {
	row       pgx.Row
	rows      pgx.Rows
	queryErr  error
	lastQuery string
	lastArgs  []any
}

func (f *fakeExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.lastQuery, f.lastArgs = query, args
	return pgconn.CommandTag{}, nil
}

func (f *fakeExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.lastQuery, f.lastArgs = query, args
	if f.row == nil {
		return stubRow{err: pgx.ErrNoRows}
	}
	return f.row
}

func (f *fakeExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.lastQuery, f.lastArgs = query, args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

// stubRow scans a single canned value tuple positionally.
type stubRow struct {
	vals []any
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(dest, r.vals)
}

type rowsBase struct{}

func (rowsBase) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (rowsBase) Conn() *pgx.Conn                              { return nil }
func (rowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (rowsBase) RawValues() [][]byte                          { return nil }
func (rowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in stub rows")
}

// stubRows replays a fixed sequence of value tuples as pgx.Rows.
type stubRows struct {
	rowsBase
	tuples [][]any
	idx    int
	err    error
	closed bool
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.tuples) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	return scanInto(dest, r.tuples[r.idx-1])
}

func (r *stubRows) Err() error { return r.err }

func (r *stubRows) Close() { r.closed = true }

var _ pgx.Rows = (*stubRows)(nil)

// scanInto assigns canned values to scan targets, converting where the
// column representation differs from the Go field (status and role enums).
func scanInto(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan column count mismatch: %d targets, %d values", len(dest), len(vals))
	}
	for i, v := range vals {
		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("scan target %d is not a pointer", i)
		}
		elem := target.Elem()
		if v == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		val := reflect.ValueOf(v)
		switch {
		case val.Type().AssignableTo(elem.Type()):
			elem.Set(val)
		case val.Type().ConvertibleTo(elem.Type()):
			elem.Set(val.Convert(elem.Type()))
		default:
			return fmt.Errorf("cannot scan %T into %s", v, elem.Type())
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
