package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	paymentapp "yookassa-proxy/internal/application/payment"
	refundapp "yookassa-proxy/internal/application/refund"
	webhookapp "yookassa-proxy/internal/application/webhook"
	"yookassa-proxy/internal/domain/webhook"
	"yookassa-proxy/internal/infrastructure/config"
	"yookassa-proxy/internal/infrastructure/forwarding"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
	"yookassa-proxy/internal/infrastructure/yookassa"
	grpcserver "yookassa-proxy/internal/presentation/grpc"
	"yookassa-proxy/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// ロガーの初期化
	base, err := otelinfra.NewZap(cfg.OpenTelemetry.ServiceName, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := otelinfra.NewLogger(base)
	defer func() { _ = logger.Sync() }()

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer shutdownWithTimeout(logger, "tracer", tracerShutdown)

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer shutdownWithTimeout(logger, "meter", meterShutdown)

	metrics, err := otelinfra.NewMetrics(config.ServiceName)
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// Prometheusレジストリ（/metricsで公開）
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// YooKassaクライアントの初期化
	client := yookassa.NewClient(
		&cfg.YooKassa,
		yookassa.WithHTTPClient(&http.Client{Timeout: cfg.YooKassa.Timeout}),
		yookassa.WithMetrics(metrics),
		yookassa.WithLatencyHistogram(yookassa.NewLatencyHistogram(registry)),
	)

	// Webhook転送先の初期化
	sinks := []webhook.Sink{
		forwarding.NewHTTPForwarder(&cfg.Hyperswitch, &http.Client{Timeout: cfg.Hyperswitch.Timeout}, logger),
	}
	var publisher *forwarding.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = forwarding.NewKafkaPublisher(&cfg.Kafka)
		sinks = append(sinks, publisher)
	}

	// アプリケーションサービスの初期化
	paymentAppService := paymentapp.NewPaymentApplicationService(client, &cfg.Payment, logger)
	refundAppService := refundapp.NewRefundApplicationService(client, cfg.Payment.RefundDescription, logger)
	webhookAppService := webhookapp.NewWebhookApplicationService(sinks, logger, metrics)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(
		cfg,
		logger,
		metrics,
		registry,
		paymentAppService,
		refundAppService,
		webhookAppService,
	)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// gRPCサーバー（ヘルスチェック）の初期化
	var grpcSrv *grpcserver.Server
	if cfg.Server.GRPCEnabled {
		grpcSrv, err = grpcserver.NewServer(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to create gRPC server: %v", err)
		}
	}

	ctx := context.Background()
	address := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info(ctx, "YooKassa proxy starting", map[string]interface{}{
		"port":         cfg.Server.Port,
		"shop_id":      cfg.YooKassa.MaskedShopID(),
		"environment":  cfg.Environment,
		"api_url":      cfg.YooKassa.APIURL,
		"grpc_enabled": cfg.Server.GRPCEnabled,
		"kafka":        publisher != nil,
	})

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// REST APIサーバーを別ゴルーチンで起動
	go func() {
		if err := router.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "REST API server error", err, nil)
		}
	}()

	// gRPCサーバーを別ゴルーチンで起動
	if grpcSrv != nil {
		go func() {
			if err := grpcSrv.Start(); err != nil {
				logger.Error(ctx, "gRPC server error", err, nil)
			}
		}()
	}

	// シグナルを待機
	<-quit
	logger.Info(ctx, "Shutting down servers", nil)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// 新規リクエストの受付を停止
	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Error shutting down REST API server", err, nil)
	}

	if grpcSrv != nil {
		if err := grpcSrv.Stop(shutdownCtx); err != nil {
			logger.Error(ctx, "Error shutting down gRPC server", err, nil)
		}
	}

	// 転送中のWebhookを待つ
	if err := webhookAppService.Drain(shutdownCtx); err != nil {
		logger.Error(ctx, "Pending webhook forwards were abandoned", err, nil)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error(ctx, "Error closing Kafka publisher", err, nil)
		}
	}

	logger.Info(ctx, "Servers stopped", nil)
}

// shutdownWithTimeout プロバイダーを時間制限付きで停止
func shutdownWithTimeout(logger *otelinfra.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error(ctx, "Failed to shutdown "+name, err, nil)
	}
}
