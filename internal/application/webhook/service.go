package webhook

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"yookassa-proxy/internal/domain/webhook"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

// WebhookApplicationService YooKassa通知の受信・転送サービス
type WebhookApplicationService struct {
	sinks   []webhook.Sink
	logger  *otelinfra.Logger
	metrics *otelinfra.Metrics
	tracer  trace.Tracer
	wg      sync.WaitGroup
}

// NewWebhookApplicationService 新しいWebhookApplicationServiceを作成
func NewWebhookApplicationService(
	sinks []webhook.Sink,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *WebhookApplicationService {
	return &WebhookApplicationService{
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
		tracer:  otelinfra.Tracer("webhook-service"),
	}
}

// Handle 通知を受信し、転送対象であれば非同期で転送する
// 転送の失敗はログに記録するのみで呼び出し元には返さない
func (s *WebhookApplicationService) Handle(ctx context.Context, body []byte) *WebhookResponse {
	ctx, span := s.tracer.Start(ctx, "WebhookApplicationService.Handle")
	defer span.End()

	event := webhook.ParseEvent(body)
	forwardable := event.Event.Forwardable()

	span.SetAttributes(
		attribute.String("webhook.event_type", event.Event.String()),
		attribute.Bool("webhook.forwardable", forwardable),
	)

	s.logger.Info(ctx, "Webhook received", map[string]interface{}{
		"event_type": event.Event.String(),
		"object_id":  event.ObjectID(),
	})
	s.metrics.RecordWebhookReceived(ctx, event.Event.String(), forwardable)

	if !forwardable {
		s.logger.Debug(ctx, "Webhook event not forwarded", map[string]interface{}{
			"event_type": event.Event.String(),
		})
		return &WebhookResponse{Received: true}
	}

	s.dispatch(ctx, event.Normalize())
	return &WebhookResponse{Received: true}
}

// dispatch 転送先ごとに転送する（リクエストのキャンセルとは切り離す）
func (s *WebhookApplicationService) dispatch(ctx context.Context, event *webhook.NormalizedEvent) {
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for _, sink := range s.sinks {
			err := sink.Forward(ctx, event)
			s.metrics.RecordWebhookForward(ctx, sink.Name(), err == nil)
			if err != nil {
				s.logger.Error(ctx, "Webhook forward failed", err, map[string]interface{}{
					"sink":       sink.Name(),
					"event_type": event.EventType.String(),
					"payment_id": event.PaymentID,
				})
				continue
			}
			s.logger.Debug(ctx, "Webhook forwarded", map[string]interface{}{
				"sink":       sink.Name(),
				"event_type": event.EventType.String(),
				"payment_id": event.PaymentID,
			})
		}
	}()
}

// Drain 実行中の転送の完了を待つ
func (s *WebhookApplicationService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
