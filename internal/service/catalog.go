// File: internal/service/catalog.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"library-api/internal/apperr"
	"library-api/internal/database"
	"library-api/internal/model"
	"library-api/internal/store"
)

// BookInput 新增書籍資料
type BookInput struct {
	Title           string
	Author          string
	ISBN            string
	PublicationDate *time.Time
	Quantity        int
	CategoryID      *int
}

// BookPatch 更新書籍；nil 欄位不變
type BookPatch struct {
	Title           *string
	Author          *string
	ISBN            *string
	PublicationDate *time.Time
	Quantity        *int
	CategoryID      *int
}

type CategoryInput struct {
	Name        string
	Description string
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

const (
	msgBookNotFound     = "book not found"
	msgCategoryNotFound = "category not found"
	msgDuplicateISBN    = "a book with this ISBN already exists"
	msgDuplicateName    = "a category with this name already exists"
	msgCategoryHasBooks = "cannot delete a category that still has books"
)

// CatalogService 管理書籍與分類
type CatalogService struct {
	db database.DB
}

func NewCatalogService(db database.DB) *CatalogService {
	return &CatalogService{db: db}
}

func bookText(b *model.Book) []textField {
	return []textField{{"title", b.Title}, {"author", b.Author}, {"isbn", b.ISBN}}
}

func (s *CatalogService) ensureCategory(ctx context.Context, q database.Querier, id *int) error {
	if id == nil {
		return nil
	}
	if _, err := getCategoryByID(ctx, q, *id); err != nil {
		return fromStore(err, msgCategoryNotFound, "")
	}
	return nil
}

func (s *CatalogService) CreateBook(ctx context.Context, in BookInput) (*model.Book, error) {
	if in.Quantity < 1 {
		return nil, apperr.InvalidRequest("quantity must be at least 1")
	}
	b := &model.Book{
		Title:           strings.TrimSpace(in.Title),
		Author:          strings.TrimSpace(in.Author),
		ISBN:            strings.TrimSpace(in.ISBN),
		PublicationDate: in.PublicationDate,
		Quantity:        in.Quantity,
		CategoryID:      in.CategoryID,
	}
	if err := requireText(bookText(b)...); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, s.db, in.CategoryID); err != nil {
		return nil, err
	}
	if err := createBook(ctx, s.db, b); err != nil {
		if errors.Is(err, store.ErrReference) {
			return nil, apperr.NotFound(msgCategoryNotFound)
		}
		return nil, fromStore(err, "", msgDuplicateISBN)
	}
	return b, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id int) (*model.Book, error) {
	b, err := getBookByID(ctx, s.db, id)
	if err != nil {
		return nil, fromStore(err, msgBookNotFound, "")
	}
	return b, nil
}

// UpdateBook 在鎖住書籍的交易中套用修改；quantity 變動時 available 同步加減差值
func (s *CatalogService) UpdateBook(ctx context.Context, id int, p BookPatch) (*model.Book, error) {
	var out *model.Book
	err := database.RunInTx(ctx, s.db, func(tx database.Tx) error {
		b, err := lockBookByID(ctx, tx, id)
		if err != nil {
			return fromStore(err, msgBookNotFound, "")
		}
		if p.Title != nil {
			b.Title = strings.TrimSpace(*p.Title)
		}
		if p.Author != nil {
			b.Author = strings.TrimSpace(*p.Author)
		}
		if p.ISBN != nil {
			b.ISBN = strings.TrimSpace(*p.ISBN)
		}
		if err := requireText(bookText(b)...); err != nil {
			return err
		}
		if p.PublicationDate != nil {
			b.PublicationDate = p.PublicationDate
		}
		if p.CategoryID != nil {
			if err := s.ensureCategory(ctx, tx, p.CategoryID); err != nil {
				return err
			}
			b.CategoryID = p.CategoryID
		}
		if p.Quantity != nil {
			if *p.Quantity < 1 {
				return apperr.InvalidRequest("quantity must be at least 1")
			}
			available := b.Available + (*p.Quantity - b.Quantity)
			if available < 0 {
				return apperr.InvalidRequest("quantity cannot be lower than the number of copies on loan (%d)", b.Quantity-b.Available)
			}
			b.Quantity = *p.Quantity
			b.Available = available
		}
		if err := updateBook(ctx, tx, b); err != nil {
			return fromStore(err, msgBookNotFound, msgDuplicateISBN)
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, fromStore(err, "", "")
	}
	return out, nil
}

// DeleteBook 有未歸還借閱時拒絕；否則先刪除已歸還紀錄再刪除書籍
func (s *CatalogService) DeleteBook(ctx context.Context, id int) error {
	err := database.RunInTx(ctx, s.db, func(tx database.Tx) error {
		if _, err := lockBookByID(ctx, tx, id); err != nil {
			return fromStore(err, msgBookNotFound, "")
		}
		n, err := countOutstandingLoansByBook(ctx, tx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if n > 0 {
			return apperr.InvalidRequest("cannot delete a book with active loans")
		}
		if _, err := deleteReturnedLoansByBook(ctx, tx, id); err != nil {
			return apperr.Internal(err)
		}
		if err := deleteBook(ctx, tx, id); err != nil {
			return fromStore(err, msgBookNotFound, "")
		}
		return nil
	})
	return fromStore(err, "", "")
}

func (s *CatalogService) ListBooks(ctx context.Context, page model.PageRequest) (model.Page[model.Book], error) {
	p, err := listBooks(ctx, s.db, store.BookFilter{}, page)
	if err != nil {
		return p, apperr.Internal(err)
	}
	return p, nil
}

// SearchBooks 以 title、author、isbn 子字串搜尋，term 不可為空
func (s *CatalogService) SearchBooks(ctx context.Context, term string, page model.PageRequest) (model.Page[model.Book], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return model.Page[model.Book]{}, apperr.InvalidRequest("search term is required")
	}
	p, err := listBooks(ctx, s.db, store.BookFilter{Term: term}, page)
	if err != nil {
		return p, apperr.Internal(err)
	}
	return p, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	c := &model.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	if err := requireText(textField{"name", c.Name}); err != nil {
		return nil, err
	}
	if err := createCategory(ctx, s.db, c); err != nil {
		return nil, fromStore(err, "", msgDuplicateName)
	}
	return c, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int) (*model.Category, error) {
	c, err := getCategoryByID(ctx, s.db, id)
	if err != nil {
		return nil, fromStore(err, msgCategoryNotFound, "")
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int, p CategoryPatch) (*model.Category, error) {
	c, err := getCategoryByID(ctx, s.db, id)
	if err != nil {
		return nil, fromStore(err, msgCategoryNotFound, "")
	}
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		c.Description = strings.TrimSpace(*p.Description)
	}
	if err := requireText(textField{"name", c.Name}); err != nil {
		return nil, err
	}
	if err := updateCategory(ctx, s.db, c); err != nil {
		return nil, fromStore(err, msgCategoryNotFound, msgDuplicateName)
	}
	return c, nil
}

// DeleteCategory 仍有書籍屬於此分類時拒絕
func (s *CatalogService) DeleteCategory(ctx context.Context, id int) error {
	err := database.RunInTx(ctx, s.db, func(tx database.Tx) error {
		if err := lockCategoryByID(ctx, tx, id); err != nil {
			return fromStore(err, msgCategoryNotFound, "")
		}
		n, err := countBooksInCategory(ctx, tx, id)
		if err != nil {
			return apperr.Internal(err)
		}
		if n > 0 {
			return apperr.InvalidRequest(msgCategoryHasBooks)
		}
		if err := deleteCategory(ctx, tx, id); err != nil {
			// 與上面的計數之間有書被加入分類
			if errors.Is(err, store.ErrReference) {
				return apperr.InvalidRequest(msgCategoryHasBooks)
			}
			return fromStore(err, msgCategoryNotFound, "")
		}
		return nil
	})
	return fromStore(err, "", "")
}

func (s *CatalogService) ListCategories(ctx context.Context, page model.PageRequest) (model.Page[model.Category], error) {
	p, err := listCategories(ctx, s.db, page)
	if err != nil {
		return p, apperr.Internal(err)
	}
	return p, nil
}

// ListCategoryBooks 列出分類下的書籍，分類不存在回 NotFound
func (s *CatalogService) ListCategoryBooks(ctx context.Context, id int, page model.PageRequest) (model.Page[model.Book], error) {
	if _, err := getCategoryByID(ctx, s.db, id); err != nil {
		return model.Page[model.Book]{}, fromStore(err, msgCategoryNotFound, "")
	}
	p, err := listBooks(ctx, s.db, store.BookFilter{CategoryID: &id}, page)
	if err != nil {
		return p, apperr.Internal(err)
	}
	return p, nil
}
