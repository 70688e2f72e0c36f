package api

// swagger:model api.UpdateRoleRequest
type UpdateRoleRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required" example:"true"`
}

// swagger:model api.UpdateStatusRequest
type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required" example:"false"`
}
