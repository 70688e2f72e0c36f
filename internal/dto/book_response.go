package dto

import "library-api/internal/model"

// swagger:model dto.BookResponse
type BookResponse struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message,omitempty" example:"book created"`
	Book    *model.Book `json:"book"`
}

// swagger:model dto.BookListResponse
type BookListResponse struct {
	Status     string       `json:"status" example:"success"`
	Books      []model.Book `json:"books"`
	Pagination Pagination   `json:"pagination"`
}

func BookList(p model.Page[model.Book]) BookListResponse {
	return BookListResponse{Status: StatusSuccess, Books: p.Items, Pagination: NewPagination(p)}
}

// swagger:model dto.CategoryResponse
type CategoryResponse struct {
	Status   string          `json:"status" example:"success"`
	Message  string          `json:"message,omitempty" example:"category created"`
	Category *model.Category `json:"category"`
}

// swagger:model dto.CategoryListResponse
type CategoryListResponse struct {
	Status     string           `json:"status" example:"success"`
	Categories []model.Category `json:"categories"`
	Pagination Pagination       `json:"pagination"`
}

func CategoryList(p model.Page[model.Category]) CategoryListResponse {
	return CategoryListResponse{Status: StatusSuccess, Categories: p.Items, Pagination: NewPagination(p)}
}
