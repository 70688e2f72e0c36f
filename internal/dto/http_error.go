package dto

import "library-api/internal/apperr"

// HTTPError 全域錯誤響應模型
// swagger:model dto.HTTPError
type HTTPError struct {
	Status string `json:"status" example:"error"`
	// message 錯誤描述
	Message string `json:"message" example:"book not found"`
	// errors 欄位驗證錯誤，只在 422 時出現
	Errors []apperr.FieldError `json:"errors,omitempty"`
}
