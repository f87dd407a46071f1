package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	webhookapp "yookassa-proxy/internal/application/webhook"
)

// maxWebhookBody 受け付ける通知本文の上限
const maxWebhookBody = 1 << 20

// WebhookResponse 通知受信レスポンス
// @Description 通知受信の確認
type WebhookResponse struct {
	Received bool `json:"received" example:"true"`
}

// WebhookHandler YooKassa通知ハンドラー
type WebhookHandler struct {
	webhookService *webhookapp.WebhookApplicationService
}

// NewWebhookHandler 新しいWebhookHandlerを作成
func NewWebhookHandler(webhookService *webhookapp.WebhookApplicationService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandleWebhook 通知受信ハンドラー
// 本文の形式や転送結果に関わらず常に200を返す（YooKassaの再送を防ぐ）
// @Summary YooKassaの通知を受信
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} WebhookResponse "受信確認"
// @Router /webhooks [post]
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	// 読み込みに失敗しても読めた分だけで処理する
	body, _ := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))

	resp := h.webhookService.Handle(c.Request().Context(), body)

	return c.JSON(http.StatusOK, WebhookResponse{Received: resp.Received})
}
