package store

import (
	"context"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"library-api/internal/database"
	"library-api/internal/model"
)

const userColumns = `id, first_name, last_name, email, password_hash, is_active, is_admin, last_login, created_at`

var userListColumns = []any{"id", "first_name", "last_name", "email", "password_hash", "is_active", "is_admin", "last_login", "created_at"}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsAdmin,
		&u.LastLogin,
		&u.CreatedAt,
	)
	return u, err
}

func GetUserByID(ctx context.Context, q database.Querier, userID int) (*model.User, error) {
	u, err := scanUser(q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	))
	if err != nil {
		return nil, wrap("GetUserByID", err)
	}
	return &u, nil
}

func GetUserByEmail(ctx context.Context, q database.Querier, email string) (*model.User, error) {
	u, err := scanUser(q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		return nil, wrap("GetUserByEmail", err)
	}
	return &u, nil
}

// CreateUser 寫入使用者並回填 id 與 created_at
func CreateUser(ctx context.Context, q database.Querier, u *model.User) error {
	row := q.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash, is_active, is_admin)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHash,
		u.IsActive,
		u.IsAdmin,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return wrap("CreateUser", err)
	}
	return nil
}

func UpdateUserProfile(ctx context.Context, q database.Querier, u *model.User) error {
	return execOne(ctx, q, "UpdateUserProfile",
		`UPDATE users SET first_name = $1, last_name = $2, email = $3
		 WHERE id = $4`,
		u.FirstName,
		u.LastName,
		u.Email,
		u.ID,
	)
}

func UpdateUserPassword(ctx context.Context, q database.Querier, userID int, passwordHash string) error {
	return execOne(ctx, q, "UpdateUserPassword",
		`UPDATE users SET password_hash = $1 WHERE id = $2`,
		passwordHash,
		userID,
	)
}

func UpdateUserLastLogin(ctx context.Context, q database.Querier, userID int, at time.Time) error {
	return execOne(ctx, q, "UpdateUserLastLogin",
		`UPDATE users SET last_login = $1 WHERE id = $2`,
		at,
		userID,
	)
}

func SetUserAdmin(ctx context.Context, q database.Querier, userID int, isAdmin bool) error {
	return execOne(ctx, q, "SetUserAdmin",
		`UPDATE users SET is_admin = $1 WHERE id = $2`,
		isAdmin,
		userID,
	)
}

func SetUserActive(ctx context.Context, q database.Querier, userID int, isActive bool) error {
	return execOne(ctx, q, "SetUserActive",
		`UPDATE users SET is_active = $1 WHERE id = $2`,
		isActive,
		userID,
	)
}

// DeleteUser 只刪除 users 這一列，借閱紀錄需先由呼叫端處理
func DeleteUser(ctx context.Context, q database.Querier, userID int) error {
	return execOne(ctx, q, "DeleteUser",
		`DELETE FROM users WHERE id = $1`,
		userID,
	)
}

// ListUsers term 非空時不分大小寫比對 first_name、last_name、email
func ListUsers(ctx context.Context, q database.Querier, term string, page model.PageRequest) (model.Page[model.User], error) {
	ds := dialect.From("users")
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("first_name").ILike(pattern),
			goqu.C("last_name").ILike(pattern),
			goqu.C("email").ILike(pattern),
		))
	}
	return listPage(ctx, q, "ListUsers",
		ds,
		userListColumns,
		goqu.I("id").Asc(),
		page,
		scanUser,
	)
}
