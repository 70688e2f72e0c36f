// File: internal/handler/books/books.go
package books

import (
	"context"
	"time"

	"library-api/internal/apperr"
	"library-api/internal/model"
	"library-api/internal/service"
)

// Service 由 service.CatalogService 實作
type Service interface {
	CreateBook(ctx context.Context, in service.BookInput) (*model.Book, error)
	GetBook(ctx context.Context, id int) (*model.Book, error)
	UpdateBook(ctx context.Context, id int, p service.BookPatch) (*model.Book, error)
	DeleteBook(ctx context.Context, id int) error
	ListBooks(ctx context.Context, page model.PageRequest) (model.Page[model.Book], error)
	SearchBooks(ctx context.Context, term string, page model.PageRequest) (model.Page[model.Book], error)
}

// parseDate validator 已確認格式，這裡只做轉換
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, apperr.InvalidRequest("invalid publication_date")
	}
	return &t, nil
}
