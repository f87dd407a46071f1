package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	paymentapp "yookassa-proxy/internal/application/payment"
	refundapp "yookassa-proxy/internal/application/refund"
	webhookapp "yookassa-proxy/internal/application/webhook"
	"yookassa-proxy/internal/infrastructure/config"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
	"yookassa-proxy/internal/presentation/rest/handler"
	restmiddleware "yookassa-proxy/internal/presentation/rest/middleware"
)

// Router REST APIルーター
type Router struct {
	echo           *echo.Echo
	healthHandler  *handler.HealthHandler
	paymentHandler *handler.PaymentHandler
	refundHandler  *handler.RefundHandler
	webhookHandler *handler.WebhookHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	gatherer prometheus.Gatherer,
	paymentService *paymentapp.PaymentApplicationService,
	refundService *refundapp.RefundApplicationService,
	webhookService *webhookapp.WebhookApplicationService,
) (*Router, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// クライアントIPの取得（Webhookの送信元制限で使用）
	extractor, err := restmiddleware.NewIPExtractor(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("failed to configure trusted proxies: %w", err)
	}
	e.IPExtractor = extractor

	setupMiddleware(e, logger, metrics)

	r := &Router{
		echo:           e,
		healthHandler:  handler.NewHealthHandler(config.ServiceName),
		paymentHandler: handler.NewPaymentHandler(paymentService),
		refundHandler:  handler.NewRefundHandler(refundService),
		webhookHandler: handler.NewWebhookHandler(webhookService),
	}

	if err := r.setupRoutes(cfg, logger, gatherer); err != nil {
		return nil, err
	}

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return r, nil
}

// setupMiddleware ミドルウェアを設定
// エラーハンドリングを最も内側に置き、ログ・メトリクス・トレースが変換後のステータスを参照できるようにする
func setupMiddleware(e *echo.Echo, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(restmiddleware.SecurityHeadersMiddleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, restmiddleware.HeaderAPIKey},
	}))
	e.Use(restmiddleware.TracingMiddleware())
	e.Use(restmiddleware.LoggingMiddleware(logger))
	e.Use(restmiddleware.MetricsMiddleware(metrics))
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func (r *Router) setupRoutes(cfg *config.Config, logger *otelinfra.Logger, gatherer prometheus.Gatherer) error {
	e := r.echo

	// 認証不要のエンドポイント
	e.GET("/health", r.healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// 統合プラットフォームからの呼び出し（APIキー設定時のみ認証）
	apiKey := restmiddleware.APIKeyMiddleware(cfg.Hyperswitch.APIKey, logger)
	e.POST("/payments", r.paymentHandler.CreatePayment, apiKey)
	e.GET("/payments/:payment_id", r.paymentHandler.GetPayment, apiKey)
	e.POST("/payments/:payment_id/cancel", r.paymentHandler.CancelPayment, apiKey)
	e.POST("/refunds", r.refundHandler.CreateRefund, apiKey)

	// YooKassaからの通知（送信元IP制限あり）
	allowlist, err := restmiddleware.IPAllowlistMiddleware(cfg.YooKassa.WebhookAllowedIPs, logger)
	if err != nil {
		return fmt.Errorf("failed to configure webhook allowlist: %w", err)
	}
	e.POST("/webhooks", r.webhookHandler.HandleWebhook, allowlist)

	return nil
}

// ServeHTTP http.Handlerとしてリクエストを処理
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.echo.ServeHTTP(w, req)
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown 処理中のリクエストを待ってサーバーを停止
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
