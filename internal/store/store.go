// Package store 以 SQL 存取 users、books、categories、loans 四張表
// 所有函式接受 database.Querier，可在連線池或交易中執行
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"library-api/internal/database"
	"library-api/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate unique constraint 衝突 (email、isbn、category name)
	ErrDuplicate = errors.New("duplicate record")
	// ErrReference foreign key 指向不存在或仍被引用的資料
	ErrReference = errors.New("invalid reference")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var dialect = goqu.Dialect("postgres")

// wrap 將 driver 錯誤轉成 store 的 sentinel error 並加上操作名稱
func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrReference)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// execOne 執行只影響單筆資料的指令，沒有資料被影響時回傳 ErrNotFound
func execOne(ctx context.Context, q database.Querier, op, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// listPage 對 base 查詢先算總數再取出指定頁，依 id 遞增排序
func listPage[T any](
	ctx context.Context,
	q database.Querier,
	op string,
	base *goqu.SelectDataset,
	cols []any,
	order exp.OrderedExpression,
	page model.PageRequest,
	scan func(pgx.Row) (T, error),
) (model.Page[T], error) {
	page = page.Normalize()

	countSQL, countArgs, err := base.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return model.Page[T]{}, fmt.Errorf("%s: build count: %w", op, err)
	}
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return model.Page[T]{}, wrap(op, err)
	}

	listSQL, listArgs, err := base.Select(cols...).
		Order(order).
		Limit(uint(page.PageSize)).
		Offset(uint(page.Offset())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return model.Page[T]{}, fmt.Errorf("%s: build list: %w", op, err)
	}
	items, err := queryAll(ctx, q, op, listSQL, listArgs, scan)
	if err != nil {
		return model.Page[T]{}, err
	}
	return model.NewPage(items, page, total), nil
}

func queryAll[T any](ctx context.Context, q database.Querier, op, sql string, args []any, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		it, err := scan(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}
