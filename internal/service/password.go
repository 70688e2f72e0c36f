// File: internal/service/password.go
package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"library-api/internal/apperr"
)

// bcrypt 只接受 72 bytes 以內的輸入
const maxPasswordBytes = 72

var ErrPasswordTooLong = fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// HashPassword 回傳 bcrypt 哈希；多位元組字元可能讓字數合法但 bytes 超過上限
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("HashPassword: %w", err)
	}
	return string(hashBytes), nil
}

// ComparePassword 比對明文密碼與 bcrypt 哈希，成功回傳 nil
func ComparePassword(hash, password string) error {
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password))
}

// hashFor 將密碼錯誤轉成對外錯誤，field 為請求中的欄位名稱
func hashFor(field, password string) (string, error) {
	hash, err := HashPassword(password)
	switch {
	case err == nil:
		return hash, nil
	case errors.Is(err, ErrPasswordTooLong):
		msg := fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
		return "", apperr.Validation([]apperr.FieldError{{Field: field, Message: msg}})
	default:
		return "", apperr.Internal(err)
	}
}
