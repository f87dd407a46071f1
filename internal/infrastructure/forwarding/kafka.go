package forwarding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"yookassa-proxy/internal/domain/webhook"
	"yookassa-proxy/internal/infrastructure/config"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

// messageWriter kafka.Writerのうち利用する操作
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 正規化した通知をKafkaトピックへ発行する
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	tracer trace.Tracer
}

var _ webhook.Sink = (*KafkaPublisher)(nil)

// NewKafkaPublisher 新しいKafkaPublisherを作成
func NewKafkaPublisher(cfg *config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.WebhookTopic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(writer, cfg.WebhookTopic)
}

func newKafkaPublisher(writer messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		tracer: otelinfra.Tracer("kafka/producer"),
	}
}

// Name 転送先名を返す
func (p *KafkaPublisher) Name() string {
	return "kafka"
}

// Forward 通知を発行する（キーは決済IDで同一決済の順序を保つ）
func (p *KafkaPublisher) Forward(ctx context.Context, event *webhook.NormalizedEvent) error {
	ctx, span := p.tracer.Start(ctx, "publish "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", p.topic),
			attribute.String("messaging.kafka.message.key", event.PaymentID),
		),
	)
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to serialize webhook: %w", err)
	}

	headers := make([]kafka.Header, 0, 2)
	otel.GetTextMapPropagator().Inject(ctx, &headerCarrier{headers: &headers})
	headers = append(headers, kafka.Header{Key: "event_type", Value: []byte(event.EventType)})

	msg := kafka.Message{
		Key:     []byte(event.PaymentID),
		Value:   data,
		Time:    time.Now(),
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to publish webhook: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "")
	return nil
}

// Close ライターを閉じる
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// headerCarrier Kafkaヘッダーへのトレースコンテキスト伝播
type headerCarrier struct {
	headers *[]kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, len(*c.headers))
	for i, h := range *c.headers {
		keys[i] = h.Key
	}
	return keys
}
