package api

// swagger:model api.CreateCategoryRequest
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=50" example:"Science Fiction"`
	Description string `json:"description" validate:"max=500" example:"Space operas and more"`
}

// swagger:model api.UpdateCategoryRequest
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=50" example:"Sci-Fi"`
	Description *string `json:"description" validate:"omitempty,max=500" example:"Updated description"`
}
