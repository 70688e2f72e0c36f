package dto

import "library-api/internal/model"

// swagger:model dto.LoginResponse
type LoginResponse struct {
	Status       string      `json:"status" example:"success"`
	Message      string      `json:"message" example:"login successful"`
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token" example:"eyJhbGciOi..."`
	RefreshToken string      `json:"refresh_token" example:"eyJhbGciOi..."`
	TokenType    string      `json:"token_type" example:"Bearer"`
	// access token 有效秒數
	ExpiresIn int64 `json:"expires_in" example:"900"`
}

// swagger:model dto.RefreshResponse
type RefreshResponse struct {
	Status      string `json:"status" example:"success"`
	AccessToken string `json:"access_token" example:"eyJhbGciOi..."`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"900"`
}
