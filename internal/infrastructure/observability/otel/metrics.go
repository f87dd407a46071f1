package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー数
	ErrorCount metric.Int64Counter

	// YooKassa呼び出し数（操作・結果別）
	ProviderCallCount metric.Int64Counter

	// 受信したWebhook数
	WebhookReceivedCount metric.Int64Counter

	// Webhook転送数（転送先・結果別）
	WebhookForwardCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := Meter(meterName)

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	providerCallCount, err := meter.Int64Counter(
		"provider_calls_total",
		metric.WithDescription("Total number of YooKassa API calls"),
	)
	if err != nil {
		return nil, err
	}

	webhookReceivedCount, err := meter.Int64Counter(
		"webhooks_received_total",
		metric.WithDescription("Total number of received YooKassa notifications"),
	)
	if err != nil {
		return nil, err
	}

	webhookForwardCount, err := meter.Int64Counter(
		"webhook_forwards_total",
		metric.WithDescription("Total number of webhook forward attempts"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:         requestCount,
		ResponseTime:         responseTime,
		ErrorCount:           errorCount,
		ProviderCallCount:    providerCallCount,
		WebhookReceivedCount: webhookReceivedCount,
		WebhookForwardCount:  webhookForwardCount,
	}, nil
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}

// RecordProviderCall YooKassa呼び出し結果を記録
func (m *Metrics) RecordProviderCall(ctx context.Context, operation string, success bool) {
	m.ProviderCallCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("outcome", outcome(success)),
		),
	)
}

// RecordWebhookReceived 受信したWebhookを記録
func (m *Metrics) RecordWebhookReceived(ctx context.Context, eventType string, forwardable bool) {
	m.WebhookReceivedCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("event_type", eventType),
			attribute.Bool("forwardable", forwardable),
		),
	)
}

// RecordWebhookForward Webhook転送結果を記録
func (m *Metrics) RecordWebhookForward(ctx context.Context, sink string, success bool) {
	m.WebhookForwardCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("sink", sink),
			attribute.String("outcome", outcome(success)),
		),
	)
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
