package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse ヘルスチェックレスポンス
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Service string `json:"service" example:"yookassa-proxy"`
}

// HealthHandler ヘルスチェックハンドラー
type HealthHandler struct {
	serviceName string
}

// NewHealthHandler 新しいHealthHandlerを作成
func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

// Health ヘルスチェック
// @Summary ヘルスチェック
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: h.serviceName,
	})
}
