package refund

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"yookassa-proxy/internal/domain/money"
	"yookassa-proxy/internal/domain/payment"
	"yookassa-proxy/internal/domain/refund"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

const msgCreateFailed = "Refund creation failed"

// RefundApplicationService 返金アプリケーションサービス
type RefundApplicationService struct {
	gateway            refund.Gateway
	defaultDescription string
	logger             *otelinfra.Logger
	tracer             trace.Tracer
}

// NewRefundApplicationService 新しいRefundApplicationServiceを作成
func NewRefundApplicationService(gateway refund.Gateway, defaultDescription string, logger *otelinfra.Logger) *RefundApplicationService {
	return &RefundApplicationService{
		gateway:            gateway,
		defaultDescription: defaultDescription,
		logger:             logger,
		tracer:             otelinfra.Tracer("refund-service"),
	}
}

// CreateRefund 返金を作成
// 通貨は常にYooKassaの基準通貨を使用する
func (s *RefundApplicationService) CreateRefund(ctx context.Context, req *CreateRefundRequest) (*RefundResponse, error) {
	ctx, span := s.tracer.Start(ctx, "RefundApplicationService.CreateRefund")
	defer span.End()

	span.SetAttributes(
		attribute.String("payment_id", req.PaymentID),
		attribute.Int64("amount", req.Amount),
	)

	description := req.Reason
	if description == "" {
		description = s.defaultDescription
	}

	r, err := s.gateway.CreateRefund(ctx, &refund.CreateParams{
		PaymentID:   req.PaymentID,
		Amount:      money.NewAmount(req.Amount, money.DefaultCurrency),
		Description: description,
	})
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	amount, err := r.Amount.Minor()
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	s.logger.Info(ctx, "Refund created", map[string]interface{}{
		"refund_id":  r.ID,
		"payment_id": r.PaymentID,
		"status":     r.Status,
	})

	return &RefundResponse{
		RefundID:  r.ID,
		PaymentID: r.PaymentID,
		Status:    r.Status,
		Amount:    amount,
		CreatedAt: r.CreatedAt,
	}, nil
}

func (s *RefundApplicationService) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())

	opErr := payment.NewOperationError(err, msgCreateFailed)
	s.logger.Error(ctx, msgCreateFailed, err, map[string]interface{}{
		"status_code": opErr.StatusCode,
		"code":        opErr.Code,
	})
	return opErr
}
