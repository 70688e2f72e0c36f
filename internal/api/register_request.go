package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50" example:"Ada"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50" example:"Lovelace"`
	Email     string `json:"email" validate:"required,email,max=120" example:"ada@example.com"`
	Password  string `json:"password" validate:"required,min=8,max=72" example:"Secret123!"`
}
