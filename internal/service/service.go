// Package service 實作借閱、館藏、帳號與登入的商業邏輯
// 回傳的錯誤一律是 *apperr.Error，由 HTTP 層統一轉換
package service

import (
	"errors"
	"time"

	"library-api/internal/apperr"
	"library-api/internal/store"
)

// store 函式與時間來源，測試時替換
var (
	timeNow = time.Now

	getUserByID         = store.GetUserByID
	getUserByEmail      = store.GetUserByEmail
	createUser          = store.CreateUser
	updateUserProfile   = store.UpdateUserProfile
	updateUserPassword  = store.UpdateUserPassword
	updateUserLastLogin = store.UpdateUserLastLogin
	setUserAdmin        = store.SetUserAdmin
	setUserActive       = store.SetUserActive
	deleteUser          = store.DeleteUser
	listUsers           = store.ListUsers

	getBookByID         = store.GetBookByID
	lockBookByID        = store.LockBookByID
	createBook          = store.CreateBook
	updateBook          = store.UpdateBook
	adjustBookAvailable = store.AdjustBookAvailable
	deleteBook          = store.DeleteBook
	listBooks           = store.ListBooks

	getCategoryByID      = store.GetCategoryByID
	lockCategoryByID     = store.LockCategoryByID
	createCategory       = store.CreateCategory
	updateCategory       = store.UpdateCategory
	deleteCategory       = store.DeleteCategory
	countBooksInCategory = store.CountBooksInCategory
	listCategories       = store.ListCategories

	createLoan                  = store.CreateLoan
	getLoanByID                 = store.GetLoanByID
	lockLoanByID                = store.LockLoanByID
	markLoanReturned            = store.MarkLoanReturned
	countOutstandingLoansByBook = store.CountOutstandingLoansByBook
	deleteReturnedLoansByBook   = store.DeleteReturnedLoansByBook
	lockOutstandingLoansByUser  = store.LockOutstandingLoansByUser
	deleteLoansByUser           = store.DeleteLoansByUser
	listLoans                   = store.ListLoans
	listLoanNotices             = store.ListLoanNotices
)

// fromStore 將 store 錯誤轉成對外錯誤；已是 *apperr.Error 的原樣回傳
func fromStore(err error, notFound, duplicate string) error {
	var appErr *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case notFound != "" && errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("%s", notFound)
	case duplicate != "" && errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict("%s", duplicate)
	default:
		return apperr.Internal(err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func now() time.Time {
	return timeNow().UTC()
}

// textField 已 trim 的必填文字欄位，Name 為對外的 JSON 名稱
type textField struct {
	Name  string
	Value string
}

// requireText 任一欄位為空時回傳 Validation
func requireText(fields ...textField) error {
	var blank []apperr.FieldError
	for _, f := range fields {
		if f.Value == "" {
			blank = append(blank, apperr.FieldError{Field: f.Name, Message: "must not be blank"})
		}
	}
	if len(blank) > 0 {
		return apperr.Validation(blank)
	}
	return nil
}
