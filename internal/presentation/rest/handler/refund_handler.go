package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	refundapp "yookassa-proxy/internal/application/refund"
)

// RefundHandler 返金関連ハンドラー
type RefundHandler struct {
	refundService *refundapp.RefundApplicationService
}

// NewRefundHandler 新しいRefundHandlerを作成
func NewRefundHandler(refundService *refundapp.RefundApplicationService) *RefundHandler {
	return &RefundHandler{
		refundService: refundService,
	}
}

// CreateRefund 返金作成ハンドラー
// @Summary 返金を作成
// @Tags refunds
// @Accept json
// @Produce json
// @Param request body CreateRefundRequest true "返金作成リクエスト"
// @Success 200 {object} RefundResponse "返金作成成功"
// @Failure 400 {object} middleware.ErrorResponse "プロバイダーのエラー"
// @Router /refunds [post]
func (h *RefundHandler) CreateRefund(c echo.Context) error {
	var reqBody CreateRefundRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.refundService.CreateRefund(c.Request().Context(), &refundapp.CreateRefundRequest{
		PaymentID: reqBody.PaymentID,
		Amount:    reqBody.Amount,
		Reason:    reqBody.Reason,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RefundResponse{
		RefundID:  resp.RefundID,
		PaymentID: resp.PaymentID,
		Status:    resp.Status,
		Amount:    resp.Amount,
		CreatedAt: resp.CreatedAt,
	})
}
