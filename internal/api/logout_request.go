package api

// LogoutRequest body 可省略；有帶 refresh_token 時一併撤銷
// swagger:model api.LogoutRequest
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOi..."`
}
