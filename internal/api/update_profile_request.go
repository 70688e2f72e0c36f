package api

// swagger:model api.UpdateProfileRequest
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=2,max=50" example:"Ada"`
	LastName  *string `json:"last_name" validate:"omitempty,min=2,max=50" example:"Byron"`
	Email     *string `json:"email" validate:"omitempty,email,max=120" example:"ada.byron@example.com"`
}
