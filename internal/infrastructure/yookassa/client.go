package yookassa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"yookassa-proxy/internal/domain/payment"
	"yookassa-proxy/internal/domain/refund"
	"yookassa-proxy/internal/infrastructure/config"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

// HeaderIdempotenceKey YooKassaの冪等キーヘッダー
const HeaderIdempotenceKey = "Idempotence-Key"

const (
	operationCreatePayment = "create_payment"
	operationGetPayment    = "get_payment"
	operationCancelPayment = "cancel_payment"
	operationCreateRefund  = "create_refund"
)

// Client YooKassa REST APIクライアント
type Client struct {
	baseURL           string
	shopID            string
	secretKey         string
	httpClient        *http.Client
	tracer            trace.Tracer
	metrics           *otelinfra.Metrics
	latency           *prometheus.HistogramVec
	newIdempotenceKey func() string
}

var (
	_ payment.Gateway = (*Client)(nil)
	_ refund.Gateway  = (*Client)(nil)
)

// Option クライアントのオプション
type Option func(*Client)

// WithHTTPClient HTTPクライアントを差し替える
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMetrics OpenTelemetryメトリクスを記録する
func WithMetrics(metrics *otelinfra.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithLatencyHistogram Prometheusのレイテンシヒストグラムを記録する
func WithLatencyHistogram(latency *prometheus.HistogramVec) Option {
	return func(c *Client) {
		c.latency = latency
	}
}

// WithIdempotenceKeyFunc 冪等キーの生成関数を差し替える
func WithIdempotenceKeyFunc(fn func() string) Option {
	return func(c *Client) {
		c.newIdempotenceKey = fn
	}
}

// NewClient 新しいClientを作成
func NewClient(cfg *config.YooKassaConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:           cfg.APIURL,
		shopID:            cfg.ShopID,
		secretKey:         cfg.SecretKey,
		httpClient:        &http.Client{Timeout: cfg.Timeout},
		tracer:            otelinfra.Tracer("yookassa-client"),
		newIdempotenceKey: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePayment 決済を作成
func (c *Client) CreatePayment(ctx context.Context, params *payment.CreateParams) (*payment.Payment, error) {
	var p payment.Payment
	if err := c.do(ctx, operationCreatePayment, http.MethodPost, "/payments", params, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPayment 決済を取得
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*payment.Payment, error) {
	var p payment.Payment
	path := "/payments/" + url.PathEscape(paymentID)
	if err := c.do(ctx, operationGetPayment, http.MethodGet, path, nil, &p, false); err != nil {
		return nil, err
	}
	return &p, nil
}

// CancelPayment 決済をキャンセル
func (c *Client) CancelPayment(ctx context.Context, paymentID string) (*payment.Payment, error) {
	var p payment.Payment
	path := "/payments/" + url.PathEscape(paymentID) + "/cancel"
	if err := c.do(ctx, operationCancelPayment, http.MethodPost, path, struct{}{}, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateRefund 返金を作成
func (c *Client) CreateRefund(ctx context.Context, params *refund.CreateParams) (*refund.Refund, error) {
	var r refund.Refund
	if err := c.do(ctx, operationCreateRefund, http.MethodPost, "/refunds", params, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

// apiError YooKassaのエラーレスポンス
type apiError struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Parameter   string `json:"parameter"`
}

// do リクエストを送信し、レスポンスをoutにデコードする
// mutatingがtrueの場合は呼び出し毎に新しい冪等キーを付与する
func (c *Client) do(ctx context.Context, operation, method, path string, body, out interface{}, mutating bool) error {
	ctx, span := c.tracer.Start(ctx, "YooKassa "+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("yookassa.operation", operation),
		),
	)
	defer span.End()

	start := time.Now()
	statusCode, err := c.send(ctx, span, method, path, body, out, mutating)
	c.observe(ctx, operation, statusCode, time.Since(start), err == nil)

	span.SetAttributes(attribute.Int("http.status_code", statusCode))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	span.SetStatus(otelcodes.Ok, "")
	return nil
}

func (c *Client) send(ctx context.Context, span trace.Span, method, path string, body, out interface{}, mutating bool) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.shopID, c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutating {
		key := c.newIdempotenceKey()
		req.Header.Set(HeaderIdempotenceKey, key)
		span.SetAttributes(attribute.String("yookassa.idempotence_key", key))
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &payment.GatewayError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// ステータスコードは受信済みのため、そのまま返す
		return resp.StatusCode, &payment.GatewayError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		// エラー本文がJSONでない場合はステータスコードのみ返す
		_ = json.Unmarshal(respBody, &apiErr)
		return resp.StatusCode, &payment.GatewayError{
			StatusCode:  resp.StatusCode,
			Code:        apiErr.Code,
			Description: apiErr.Description,
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, &payment.GatewayError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return resp.StatusCode, nil
}

func (c *Client) observe(ctx context.Context, operation string, statusCode int, elapsed time.Duration, success bool) {
	if c.metrics != nil {
		c.metrics.RecordProviderCall(ctx, operation, success)
	}
	if c.latency != nil {
		status := "error"
		if statusCode != 0 {
			status = strconv.Itoa(statusCode)
		}
		c.latency.WithLabelValues(operation, status).Observe(elapsed.Seconds())
	}
}
