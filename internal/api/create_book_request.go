package api

// swagger:model api.CreateBookRequest
type CreateBookRequest struct {
	Title  string `json:"title" validate:"required,notblank,max=200" example:"Dune"`
	Author string `json:"author" validate:"required,notblank,max=100" example:"Frank Herbert"`
	ISBN   string `json:"isbn" validate:"required,notblank,max=20" example:"9780441013593"`
	// 出版日期 YYYY-MM-DD
	PublicationDate string `json:"publication_date" validate:"omitempty,datetime=2006-01-02" example:"1965-08-01"`
	Quantity        int    `json:"quantity" validate:"required,min=1" example:"3"`
	CategoryID      *int   `json:"category_id" validate:"omitempty,min=1" example:"1"`
}
