package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"library-api/internal/model"
	"library-api/internal/service"
)

type CatalogService struct{ mock.Mock }

func (m *CatalogService) CreateBook(ctx context.Context, in service.BookInput) (*model.Book, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *CatalogService) GetBook(ctx context.Context, id int) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *CatalogService) UpdateBook(ctx context.Context, id int, p service.BookPatch) (*model.Book, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *CatalogService) DeleteBook(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CatalogService) ListBooks(ctx context.Context, page model.PageRequest) (model.Page[model.Book], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(model.Page[model.Book]), args.Error(1)
}

func (m *CatalogService) SearchBooks(ctx context.Context, term string, page model.PageRequest) (model.Page[model.Book], error) {
	args := m.Called(ctx, term, page)
	return args.Get(0).(model.Page[model.Book]), args.Error(1)
}

func (m *CatalogService) CreateCategory(ctx context.Context, in service.CategoryInput) (*model.Category, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *CatalogService) GetCategory(ctx context.Context, id int) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *CatalogService) UpdateCategory(ctx context.Context, id int, p service.CategoryPatch) (*model.Category, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *CatalogService) DeleteCategory(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CatalogService) ListCategories(ctx context.Context, page model.PageRequest) (model.Page[model.Category], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(model.Page[model.Category]), args.Error(1)
}

func (m *CatalogService) ListCategoryBooks(ctx context.Context, id int, page model.PageRequest) (model.Page[model.Book], error) {
	args := m.Called(ctx, id, page)
	return args.Get(0).(model.Page[model.Book]), args.Error(1)
}
