package handler

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"yookassa-proxy/internal/domain/payment"
	"yookassa-proxy/internal/domain/refund"
	"yookassa-proxy/internal/domain/webhook"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

func testLogger() *otelinfra.Logger {
	return otelinfra.NewLogger(zap.NewNop())
}

// MockPaymentGateway モック決済ゲートウェイ
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreatePayment(ctx context.Context, params *payment.CreateParams) (*payment.Payment, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentGateway) GetPayment(ctx context.Context, paymentID string) (*payment.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentGateway) CancelPayment(ctx context.Context, paymentID string) (*payment.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

// MockRefundGateway モック返金ゲートウェイ
type MockRefundGateway struct {
	mock.Mock
}

func (m *MockRefundGateway) CreateRefund(ctx context.Context, params *refund.CreateParams) (*refund.Refund, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.Refund), args.Error(1)
}

// recordingSink 転送内容を記録するテスト用転送先
type recordingSink struct {
	mu     sync.Mutex
	events []*webhook.NormalizedEvent
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Forward(ctx context.Context, event *webhook.NormalizedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) received() []*webhook.NormalizedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*webhook.NormalizedEvent(nil), s.events...)
}
