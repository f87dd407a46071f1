package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	paymentapp "yookassa-proxy/internal/application/payment"
)

// PaymentHandler 決済関連ハンドラー
type PaymentHandler struct {
	paymentService *paymentapp.PaymentApplicationService
}

// NewPaymentHandler 新しいPaymentHandlerを作成
func NewPaymentHandler(paymentService *paymentapp.PaymentApplicationService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePayment 決済作成ハンドラー
// @Summary 決済を作成
// @Description YooKassaに決済を作成し、統合フォーマットで返します
// @Tags payments
// @Accept json
// @Produce json
// @Param request body CreatePaymentRequest true "決済作成リクエスト"
// @Success 200 {object} PaymentResponse "決済作成成功"
// @Failure 400 {object} middleware.ErrorResponse "プロバイダーのエラー"
// @Failure 500 {object} middleware.ErrorResponse "決済作成失敗"
// @Router /payments [post]
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var reqBody CreatePaymentRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.paymentService.CreatePayment(c.Request().Context(), &paymentapp.CreatePaymentRequest{
		Amount:      reqBody.Amount,
		Currency:    reqBody.Currency,
		Description: reqBody.Description,
		CustomerID:  reqBody.CustomerID,
		Email:       reqBody.Email,
		ReturnURL:   reqBody.ReturnURL,
		Metadata:    reqBody.Metadata,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPaymentResponse(resp))
}

// GetPayment 決済照会ハンドラー
// @Summary 決済を照会
// @Tags payments
// @Produce json
// @Param payment_id path string true "決済ID"
// @Success 200 {object} PaymentDetailResponse "決済照会成功"
// @Failure 404 {object} middleware.ErrorResponse "決済が存在しない"
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	resp, err := h.paymentService.GetPayment(c.Request().Context(), c.Param("payment_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PaymentDetailResponse{
		PaymentResponse: toPaymentResponse(&resp.PaymentResponse),
		Paid:            resp.Paid,
		CapturedAt:      resp.CapturedAt,
	})
}

// CancelPayment 決済キャンセルハンドラー
// @Summary 決済をキャンセル
// @Tags payments
// @Produce json
// @Param payment_id path string true "決済ID"
// @Success 200 {object} CancelPaymentResponse "キャンセル成功"
// @Failure 400 {object} middleware.ErrorResponse "キャンセルできない決済"
// @Router /payments/{payment_id}/cancel [post]
func (h *PaymentHandler) CancelPayment(c echo.Context) error {
	resp, err := h.paymentService.CancelPayment(c.Request().Context(), c.Param("payment_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CancelPaymentResponse{
		PaymentID: resp.PaymentID,
		Status:    resp.Status,
		Cancelled: resp.Cancelled,
	})
}

func toPaymentResponse(resp *paymentapp.PaymentResponse) PaymentResponse {
	return PaymentResponse{
		PaymentID:       resp.PaymentID,
		Status:          resp.Status,
		Amount:          resp.Amount,
		Currency:        resp.Currency,
		ConfirmationURL: resp.ConfirmationURL,
		CreatedAt:       resp.CreatedAt,
		Metadata:        resp.Metadata,
	}
}
