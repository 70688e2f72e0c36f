package api

// UpdateBookRequest 只更新有帶的欄位
// swagger:model api.UpdateBookRequest
type UpdateBookRequest struct {
	Title           *string `json:"title" validate:"omitempty,notblank,max=200" example:"Dune Messiah"`
	Author          *string `json:"author" validate:"omitempty,notblank,max=100" example:"Frank Herbert"`
	ISBN            *string `json:"isbn" validate:"omitempty,notblank,max=20" example:"9780593098233"`
	PublicationDate *string `json:"publication_date" validate:"omitempty,datetime=2006-01-02" example:"1969-10-15"`
	Quantity        *int    `json:"quantity" validate:"omitempty,min=1" example:"5"`
	CategoryID      *int    `json:"category_id" validate:"omitempty,min=1" example:"2"`
}
