package dto

// PingResponse 健康檢查回應模型
// swagger:model dto.PingResponse
type PingResponse struct {
	Status string `json:"status" example:"success"`
	// 回應訊息
	Message string `json:"message" example:"pong"`
}
