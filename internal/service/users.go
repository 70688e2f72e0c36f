// File: internal/service/users.go
package service

import (
	"context"
	"strings"

	"library-api/internal/apperr"
	"library-api/internal/database"
	"library-api/internal/model"
)

const (
	msgUserNotFound   = "user not found"
	msgDuplicateEmail = "this email is already used by another user"
)

// ProfilePatch 更新個人資料；nil 欄位不變
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

type UserService struct {
	db database.DB
}

func NewUserService(db database.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(ctx context.Context, id int) (*model.User, error) {
	u, err := getUserByID(ctx, s.db, id)
	if err != nil {
		return nil, fromStore(err, msgUserNotFound, "")
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id int, p ProfilePatch) (*model.User, error) {
	u, err := getUserByID(ctx, s.db, id)
	if err != nil {
		return nil, fromStore(err, msgUserNotFound, "")
	}
	if p.FirstName != nil {
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		if email != u.Email {
			other, err := getUserByEmail(ctx, s.db, email)
			switch {
			case err == nil && other.ID != u.ID:
				return nil, apperr.Conflict(msgDuplicateEmail)
			case err != nil && !isNotFound(err):
				return nil, apperr.Internal(err)
			}
		}
		u.Email = email
	}
	if err := updateUserProfile(ctx, s.db, u); err != nil {
		return nil, fromStore(err, msgUserNotFound, msgDuplicateEmail)
	}
	return u, nil
}

// ListUsers term 非空時依姓名或 email 搜尋
func (s *UserService) ListUsers(ctx context.Context, term string, page model.PageRequest) (model.Page[model.User], error) {
	p, err := listUsers(ctx, s.db, term, page)
	if err != nil {
		return p, apperr.Internal(err)
	}
	return p, nil
}

// SetRole 管理員不能修改自己的角色
func (s *UserService) SetRole(ctx context.Context, actorID, targetID int, isAdmin bool) (*model.User, error) {
	if actorID == targetID {
		return nil, apperr.InvalidRequest("you cannot change your own role")
	}
	if err := setUserAdmin(ctx, s.db, targetID, isAdmin); err != nil {
		return nil, fromStore(err, msgUserNotFound, "")
	}
	return s.GetUser(ctx, targetID)
}

// SetStatus 管理員不能停用或啟用自己的帳號
func (s *UserService) SetStatus(ctx context.Context, actorID, targetID int, isActive bool) (*model.User, error) {
	if actorID == targetID {
		return nil, apperr.InvalidRequest("you cannot change your own account status")
	}
	if err := setUserActive(ctx, s.db, targetID, isActive); err != nil {
		return nil, fromStore(err, msgUserNotFound, "")
	}
	return s.GetUser(ctx, targetID)
}

// DeleteUser 在同一交易中歸還所有未還書籍、刪除借閱紀錄，最後刪除帳號
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID int) error {
	if actorID == targetID {
		return apperr.InvalidRequest("you cannot delete your own account")
	}
	err := database.RunInTx(ctx, s.db, func(tx database.Tx) error {
		if _, err := getUserByID(ctx, tx, targetID); err != nil {
			return fromStore(err, msgUserNotFound, "")
		}
		outstanding, err := lockOutstandingLoansByUser(ctx, tx, targetID)
		if err != nil {
			return apperr.Internal(err)
		}
		for _, l := range outstanding {
			if _, err := adjustBookAvailable(ctx, tx, l.BookID, 1); err != nil {
				return apperr.Internal(err)
			}
		}
		if _, err := deleteLoansByUser(ctx, tx, targetID); err != nil {
			return apperr.Internal(err)
		}
		if err := deleteUser(ctx, tx, targetID); err != nil {
			return fromStore(err, msgUserNotFound, "")
		}
		return nil
	})
	return fromStore(err, "", "")
}

// EnsureAdmin 建立管理員帳號；email 已存在時只確保其為啟用的管理員
// 回傳值 created 表示是否新建
func (s *UserService) EnsureAdmin(ctx context.Context, in RegisterInput) (*model.User, bool, error) {
	var (
		out     *model.User
		created bool
	)
	err := database.RunInTx(ctx, s.db, func(tx database.Tx) error {
		u, err := getUserByEmail(ctx, tx, normalizeEmail(in.Email))
		switch {
		case err == nil:
			if !u.IsAdmin {
				if err := setUserAdmin(ctx, tx, u.ID, true); err != nil {
					return apperr.Internal(err)
				}
				u.IsAdmin = true
			}
			if !u.IsActive {
				if err := setUserActive(ctx, tx, u.ID, true); err != nil {
					return apperr.Internal(err)
				}
				u.IsActive = true
			}
			out = u
			return nil
		case !isNotFound(err):
			return apperr.Internal(err)
		}

		u, err = registerUser(ctx, tx, in, true)
		if err != nil {
			return err
		}
		out, created = u, true
		return nil
	})
	if err != nil {
		return nil, false, fromStore(err, "", "")
	}
	return out, created, nil
}
