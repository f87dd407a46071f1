package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"yookassa-proxy/internal/domain/payment"
	"yookassa-proxy/internal/domain/webhook"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

// recordingSink 転送内容を記録するテスト用転送先
type recordingSink struct {
	mu     sync.Mutex
	name   string
	err    error
	events []*webhook.NormalizedEvent
}

func (s *recordingSink) Name() string {
	return s.name
}

func (s *recordingSink) Forward(ctx context.Context, event *webhook.NormalizedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) received() []*webhook.NormalizedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*webhook.NormalizedEvent(nil), s.events...)
}

func newTestService(t *testing.T, logger *zap.Logger, sinks ...webhook.Sink) *WebhookApplicationService {
	t.Helper()
	otel.SetMeterProvider(noop.NewMeterProvider())
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)
	return NewWebhookApplicationService(sinks, otelinfra.NewLogger(logger), metrics)
}

func drain(t *testing.T, s *WebhookApplicationService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Drain(ctx))
}

func TestWebhookApplicationService_Handle(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantForward *webhook.NormalizedEvent
	}{
		{
			name: "正常系: payment.succeededを転送",
			body: `{"type":"notification","event":"payment.succeeded","object":{"id":"pay_1","status":"succeeded","paid":true}}`,
			wantForward: &webhook.NormalizedEvent{
				EventType: webhook.EventPaymentSucceeded,
				PaymentID: "pay_1",
				Status:    payment.StatusSucceeded,
				Data:      json.RawMessage(`{"id":"pay_1","status":"succeeded","paid":true}`),
			},
		},
		{
			name: "正常系: payment.canceledはcancelledとして転送",
			body: `{"event":"payment.canceled","object":{"id":"pay_2","status":"canceled"}}`,
			wantForward: &webhook.NormalizedEvent{
				EventType: webhook.EventPaymentCanceled,
				PaymentID: "pay_2",
				Status:    payment.StatusCancelled,
				Data:      json.RawMessage(`{"id":"pay_2","status":"canceled"}`),
			},
		},
		{
			name: "正常系: refund.succeededを転送",
			body: `{"event":"refund.succeeded","object":{"id":"ref_1","status":"succeeded","payment_id":"pay_1"}}`,
			wantForward: &webhook.NormalizedEvent{
				EventType: webhook.EventRefundSucceeded,
				PaymentID: "ref_1",
				Status:    payment.StatusSucceeded,
				Data:      json.RawMessage(`{"id":"ref_1","status":"succeeded","payment_id":"pay_1"}`),
			},
		},
		{
			name: "正常系: 対象外のイベントは転送しない",
			body: `{"event":"payment.waiting_for_capture","object":{"id":"pay_3","status":"waiting_for_capture"}}`,
		},
		{
			name: "正常系: 解析できない本文も受信扱い",
			body: `not json`,
		},
		{
			name: "正常系: 空の本文も受信扱い",
			body: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{name: "test"}
			service := newTestService(t, zap.NewNop(), sink)

			resp := service.Handle(context.Background(), []byte(tt.body))
			assert.True(t, resp.Received)

			drain(t, service)
			events := sink.received()
			if tt.wantForward == nil {
				assert.Empty(t, events)
				return
			}
			require.Len(t, events, 1)
			assert.Equal(t, tt.wantForward.EventType, events[0].EventType)
			assert.Equal(t, tt.wantForward.PaymentID, events[0].PaymentID)
			assert.Equal(t, tt.wantForward.Status, events[0].Status)
			assert.JSONEq(t, string(tt.wantForward.Data), string(events[0].Data))
		})
	}
}

func TestWebhookApplicationService_Handle_ForwardFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	failing := &recordingSink{name: "http", err: errors.New("connection refused")}
	healthy := &recordingSink{name: "kafka"}
	service := newTestService(t, zap.New(core), failing, healthy)

	resp := service.Handle(context.Background(), []byte(`{"event":"payment.succeeded","object":{"id":"pay_1","status":"succeeded"}}`))
	assert.True(t, resp.Received)

	drain(t, service)

	// 失敗した転送先があっても他の転送先には転送される
	assert.Len(t, failing.received(), 1)
	assert.Len(t, healthy.received(), 1)

	failures := logs.FilterMessage("Webhook forward failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, "http", failures[0].ContextMap()["sink"])
}

func TestWebhookApplicationService_Handle_CancelledRequest(t *testing.T) {
	sink := &recordingSink{name: "test"}
	service := newTestService(t, zap.NewNop(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	service.Handle(ctx, []byte(`{"event":"payment.succeeded","object":{"id":"pay_1","status":"succeeded"}}`))
	cancel()

	drain(t, service)
	assert.Len(t, sink.received(), 1)
}

func TestWebhookApplicationService_Handle_NoSinks(t *testing.T) {
	service := newTestService(t, zap.NewNop())

	resp := service.Handle(context.Background(), []byte(`{"event":"payment.succeeded","object":{"id":"pay_1"}}`))
	assert.True(t, resp.Received)
	drain(t, service)
}

func TestWebhookApplicationService_Drain_Timeout(t *testing.T) {
	block := make(chan struct{})
	sink := &blockingSink{release: block}
	service := newTestService(t, zap.NewNop(), sink)

	service.Handle(context.Background(), []byte(`{"event":"payment.succeeded","object":{"id":"pay_1"}}`))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, service.Drain(ctx), context.DeadlineExceeded)

	close(block)
	drain(t, service)
}

// blockingSink releaseが閉じられるまで転送を止める
type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) Name() string { return "blocking" }

func (s *blockingSink) Forward(ctx context.Context, event *webhook.NormalizedEvent) error {
	<-s.release
	return nil
}
