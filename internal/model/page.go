package model

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest 分頁參數；不合法的值會被 Normalize 修正
type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page 一頁查詢結果；超出範圍的頁回傳空 Items
type Page[T any] struct {
	Items       []T
	Page        int
	PageSize    int
	TotalCount  int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	pages := 0
	if req.PageSize > 0 {
		pages = (total + req.PageSize - 1) / req.PageSize
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Page:        req.Page,
		PageSize:    req.PageSize,
		TotalCount:  total,
		TotalPages:  pages,
		HasNext:     req.Page < pages,
		HasPrevious: req.Page > 1,
	}
}

// MapPage 轉換 Items 型別，分頁資訊不變
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, fn(it))
	}
	return Page[U]{
		Items:       out,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalCount:  p.TotalCount,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}
