package dto

import "library-api/internal/model"

// swagger:model dto.UserResponse
type UserResponse struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message,omitempty" example:"profile updated"`
	User    *model.User `json:"user"`
}

// swagger:model dto.UserListResponse
type UserListResponse struct {
	Status     string       `json:"status" example:"success"`
	Users      []model.User `json:"users"`
	Pagination Pagination   `json:"pagination"`
}

func UserList(p model.Page[model.User]) UserListResponse {
	return UserListResponse{Status: StatusSuccess, Users: p.Items, Pagination: NewPagination(p)}
}
