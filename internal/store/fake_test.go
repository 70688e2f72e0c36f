package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"library-api/internal/database"
)

/* ---------- 假實作 ---------- */

// fakeRow 實作 pgx.Row，依序把 values 寫入 dest
type fakeRow struct {
	values  []any
	scanErr error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	return assign(dest, r.values)
}

func assign(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: want %d columns, got %d", len(values), len(dest))
	}
	for i, v := range values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

// fakeRows 實作 pgx.Rows，用於模擬多筆掃描行為。
type fakeRows struct {
	data    [][]any
	idx     int
	scanErr error
	err     error
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return r.idx < len(r.data) }
func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	v := r.data[r.idx]
	r.idx++
	return assign(dest, v)
}
func (r *fakeRows) Values() ([]any, error) { return nil, nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

// call 記錄一次查詢
type call struct {
	sql  string
	args []any
}

// recorder 回傳一個記錄所有查詢的 FakeDB
type recorder struct {
	calls []call
}

func (rec *recorder) db(row func(sql string) pgx.Row, rows func(sql string) (pgx.Rows, error), tag string, execErr error) *database.FakeDB {
	return &database.FakeDB{
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			rec.calls = append(rec.calls, call{sql, args})
			return row(sql)
		},
		QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
			rec.calls = append(rec.calls, call{sql, args})
			return rows(sql)
		},
		ExecFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			rec.calls = append(rec.calls, call{sql, args})
			return pgconn.NewCommandTag(tag), execErr
		},
	}
}

func execDB(tag string, err error) *database.FakeDB {
	return (&recorder{}).db(nil, nil, tag, err)
}

func rowDB(values []any, scanErr error) *database.FakeDB {
	return &database.FakeDB{
		QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{values: values, scanErr: scanErr}
		},
	}
}

func rowTx(values []any, scanErr error) *database.FakeTx {
	return &database.FakeTx{
		QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{values: values, scanErr: scanErr}
		},
	}
}

var errDB = errors.New("database fail")

func idAsc() exp.OrderedExpression { return goqu.I("id").Asc() }
