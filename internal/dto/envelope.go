// Package dto 定義 HTTP 回應的資料格式
package dto

import "library-api/internal/model"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Pagination 列表回應的分頁資訊
// swagger:model dto.Pagination
type Pagination struct {
	Page        int  `json:"page" example:"1"`
	PageSize    int  `json:"page_size" example:"10"`
	TotalCount  int  `json:"total_count" example:"42"`
	TotalPages  int  `json:"total_pages" example:"5"`
	HasNext     bool `json:"has_next" example:"true"`
	HasPrevious bool `json:"has_previous" example:"false"`
}

func NewPagination[T any](p model.Page[T]) Pagination {
	return Pagination{
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalCount:  p.TotalCount,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

// MessageResponse 只有訊息的成功回應
// swagger:model dto.MessageResponse
type MessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"done"`
}

func Message(msg string) MessageResponse {
	return MessageResponse{Status: StatusSuccess, Message: msg}
}
