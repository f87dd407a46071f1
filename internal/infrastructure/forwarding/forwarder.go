package forwarding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"yookassa-proxy/internal/domain/webhook"
	"yookassa-proxy/internal/infrastructure/config"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

// tokenTTL 転送時に付与するトークンの有効期間
const tokenTTL = 5 * time.Minute

// HTTPForwarder 統合プラットフォームのWebhookエンドポイントへ転送する
type HTTPForwarder struct {
	url        string
	secret     []byte
	issuer     string
	httpClient *http.Client
	logger     *otelinfra.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

var _ webhook.Sink = (*HTTPForwarder)(nil)

// NewHTTPForwarder 新しいHTTPForwarderを作成
// URLが空の場合、Forwardは警告ログのみで何もしない
func NewHTTPForwarder(cfg *config.HyperswitchConfig, httpClient *http.Client, logger *otelinfra.Logger) *HTTPForwarder {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	var secret []byte
	if cfg.WebhookSecret != "" {
		secret = []byte(cfg.WebhookSecret)
	}
	return &HTTPForwarder{
		url:        cfg.WebhookURL,
		secret:     secret,
		issuer:     config.ServiceName,
		httpClient: httpClient,
		logger:     logger,
		tracer:     otelinfra.Tracer("webhook-forwarder"),
		now:        time.Now,
	}
}

// Name 転送先名を返す
func (f *HTTPForwarder) Name() string {
	return "http"
}

// Forward 通知をPOSTで転送する
func (f *HTTPForwarder) Forward(ctx context.Context, event *webhook.NormalizedEvent) error {
	if f.url == "" {
		f.logger.Warn(ctx, "HYPERSWITCH_WEBHOOK_URL not configured, skipping forward", map[string]interface{}{
			"event_type": event.EventType.String(),
		})
		return nil
	}

	ctx, span := f.tracer.Start(ctx, "Webhook forward",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("webhook.event_type", event.EventType.String()),
			attribute.String("webhook.payment_id", event.PaymentID),
		),
	)
	defer span.End()

	if err := f.post(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	span.SetStatus(otelcodes.Ok, "")
	return nil
}

func (f *HTTPForwarder) post(ctx context.Context, event *webhook.NormalizedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode webhook: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.secret != nil {
		token, err := f.sign(event)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to forward webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// sign 転送元を証明するHS256トークンを作成
func (f *HTTPForwarder) sign(event *webhook.NormalizedEvent) (string, error) {
	now := f.now()
	claims := jwt.RegisteredClaims{
		Issuer:    f.issuer,
		Subject:   event.PaymentID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign webhook token: %w", err)
	}
	return token, nil
}
