package api

// swagger:model api.CreateLoanRequest
type CreateLoanRequest struct {
	BookID int `json:"book_id" validate:"required,min=1" example:"1"`
	// 借閱天數，省略時為 14；明確帶 0 視為超出範圍
	DurationDays *int `json:"duration_days" validate:"omitempty,min=1,max=30" example:"14"`
}
