package payment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"yookassa-proxy/internal/domain/money"
	"yookassa-proxy/internal/domain/payment"
	"yookassa-proxy/internal/infrastructure/config"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

const (
	msgCreateFailed   = "Payment creation failed"
	msgRetrieveFailed = "Payment retrieval failed"
	msgCancelFailed   = "Payment cancellation failed"
)

// PaymentApplicationService 決済アプリケーションサービス
type PaymentApplicationService struct {
	gateway payment.Gateway
	cfg     *config.PaymentConfig
	logger  *otelinfra.Logger
	tracer  trace.Tracer
}

// NewPaymentApplicationService 新しいPaymentApplicationServiceを作成
func NewPaymentApplicationService(
	gateway payment.Gateway,
	cfg *config.PaymentConfig,
	logger *otelinfra.Logger,
) *PaymentApplicationService {
	return &PaymentApplicationService{
		gateway: gateway,
		cfg:     cfg,
		logger:  logger,
		tracer:  otelinfra.Tracer("payment-service"),
	}
}

// CreatePayment 決済を作成（即時確定・リダイレクト確認）
func (s *PaymentApplicationService) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*PaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.CreatePayment")
	defer span.End()

	currency := req.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = s.cfg.DefaultReturnURL
	}
	description := req.Description
	if description == "" {
		description = s.cfg.PaymentDescription
	}

	span.SetAttributes(
		attribute.Int64("amount", req.Amount),
		attribute.String("currency", currency),
	)

	params := &payment.CreateParams{
		Amount: money.NewAmount(req.Amount, currency),
		Confirmation: payment.Confirmation{
			Type:      payment.ConfirmationTypeRedirect,
			ReturnURL: returnURL,
		},
		Capture:     true,
		Description: description,
		Metadata:    payment.MergeMetadata(req.Metadata, req.CustomerID, req.Email),
	}

	p, err := s.gateway.CreatePayment(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, span, err, msgCreateFailed)
	}

	resp, err := toPaymentResponse(p)
	if err != nil {
		return nil, s.fail(ctx, span, err, msgCreateFailed)
	}

	span.SetAttributes(attribute.String("payment_id", resp.PaymentID))
	s.logger.Info(ctx, "Payment created", map[string]interface{}{
		"payment_id": resp.PaymentID,
		"status":     resp.Status,
	})
	return resp, nil
}

// GetPayment 決済を照会
func (s *PaymentApplicationService) GetPayment(ctx context.Context, paymentID string) (*PaymentDetailResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.GetPayment")
	defer span.End()

	span.SetAttributes(attribute.String("payment_id", paymentID))

	p, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, s.fail(ctx, span, err, msgRetrieveFailed)
	}

	resp, err := toPaymentResponse(p)
	if err != nil {
		return nil, s.fail(ctx, span, err, msgRetrieveFailed)
	}

	return &PaymentDetailResponse{
		PaymentResponse: *resp,
		Paid:            p.Paid,
		CapturedAt:      p.CapturedAt,
	}, nil
}

// CancelPayment 決済をキャンセル
func (s *PaymentApplicationService) CancelPayment(ctx context.Context, paymentID string) (*CancelPaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.CancelPayment")
	defer span.End()

	span.SetAttributes(attribute.String("payment_id", paymentID))

	p, err := s.gateway.CancelPayment(ctx, paymentID)
	if err != nil {
		return nil, s.fail(ctx, span, err, msgCancelFailed)
	}

	status := payment.MapStatus(p.Status)
	s.logger.Info(ctx, "Payment cancelled", map[string]interface{}{
		"payment_id": p.ID,
		"status":     status.String(),
	})

	return &CancelPaymentResponse{
		PaymentID: p.ID,
		Status:    status.String(),
		Cancelled: true,
	}, nil
}

// fail エラーをスパンとログに記録し、統合フォーマットの操作エラーに変換
func (s *PaymentApplicationService) fail(ctx context.Context, span trace.Span, err error, message string) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())

	opErr := payment.NewOperationError(err, message)
	s.logger.Error(ctx, message, err, map[string]interface{}{
		"status_code": opErr.StatusCode,
		"code":        opErr.Code,
	})
	return opErr
}

// toPaymentResponse YooKassaの決済を統合フォーマットに変換
func toPaymentResponse(p *payment.Payment) (*PaymentResponse, error) {
	amount, err := p.Amount.Minor()
	if err != nil {
		return nil, err
	}
	return &PaymentResponse{
		PaymentID:       p.ID,
		Status:          payment.MapStatus(p.Status).String(),
		Amount:          amount,
		Currency:        p.Amount.Currency,
		ConfirmationURL: p.ConfirmationURL(),
		CreatedAt:       p.CreatedAt,
		Metadata:        p.Metadata,
	}, nil
}
