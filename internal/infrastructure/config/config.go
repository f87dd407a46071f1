package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServiceName サービス名（ヘルスチェック・ログ・トレースで共通）
const ServiceName = "yookassa-proxy"

// Config アプリケーション全体の設定
type Config struct {
	Server        ServerConfig
	YooKassa      YooKassaConfig
	Hyperswitch   HyperswitchConfig
	Payment       PaymentConfig
	Kafka         KafkaConfig
	OpenTelemetry OpenTelemetryConfig
	Environment   string
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port int
	// TrustedProxies X-Forwarded-Forを信頼する直前のプロキシ（空の場合は接続元IPのみ使用）
	TrustedProxies []string
	GRPCEnabled    bool
	GRPCPort       int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// YooKassaConfig YooKassa API設定
type YooKassaConfig struct {
	APIURL    string
	ShopID    string
	SecretKey string
	// Timeout 0の場合はタイムアウトなし
	Timeout time.Duration
	// WebhookAllowedIPs 空の場合は全て許可
	WebhookAllowedIPs []string
}

// HyperswitchConfig 統合プラットフォーム側の設定
type HyperswitchConfig struct {
	WebhookURL    string
	WebhookSecret string
	APIKey        string
	// Timeout 転送のタイムアウト（0の場合はタイムアウトなし）
	Timeout time.Duration
}

// PaymentConfig 決済作成・返金時のデフォルト値
type PaymentConfig struct {
	DefaultReturnURL   string
	PaymentDescription string
	RefundDescription  string
}

// KafkaConfig Kafka設定
type KafkaConfig struct {
	Brokers      []string
	WebhookTopic string
}

// OpenTelemetryConfig OpenTelemetry設定
type OpenTelemetryConfig struct {
	Enabled         bool
	ServiceName     string
	ServiceVersion  string
	OTLPEndpoint    string
	OTLPInsecure    bool
	TraceExporter   string // "otlp", "stdout"
	MetricsExporter string // "otlp", "stdout"
}

// Load 設定を読み込む
func Load() (*Config, error) {
	// .envファイルを読み込む（存在しない場合は無視）
	_ = godotenv.Load()

	port := getEnvAsInt("PORT", 8888)

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:           port,
			TrustedProxies: getEnvAsSlice("TRUSTED_PROXIES"),
			GRPCEnabled:    getEnvAsBool("GRPC_ENABLED", false),
			GRPCPort:       getEnvAsInt("GRPC_PORT", port+1),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		YooKassa: YooKassaConfig{
			APIURL:            strings.TrimRight(getEnv("YOOKASSA_API_URL", "https://api.yookassa.ru/v3"), "/"),
			ShopID:            getEnv("YOOKASSA_SHOP_ID", ""),
			SecretKey:         getEnv("YOOKASSA_SECRET_KEY", ""),
			Timeout:           getEnvAsDuration("YOOKASSA_TIMEOUT", 0),
			WebhookAllowedIPs: getEnvAsSlice("YOOKASSA_WEBHOOK_ALLOWED_IPS"),
		},
		Hyperswitch: HyperswitchConfig{
			WebhookURL:    getEnv("HYPERSWITCH_WEBHOOK_URL", ""),
			WebhookSecret: getEnv("HYPERSWITCH_WEBHOOK_SECRET", ""),
			APIKey:        getEnv("PROXY_API_KEY", ""),
			Timeout:       getEnvAsDuration("HYPERSWITCH_TIMEOUT", 0),
		},
		Payment: PaymentConfig{
			DefaultReturnURL:   getEnv("DEFAULT_RETURN_URL", ""),
			PaymentDescription: getEnv("PAYMENT_DESCRIPTION", "Payment via Hyperswitch"),
			RefundDescription:  getEnv("REFUND_DESCRIPTION", "Refund via Hyperswitch"),
		},
		Kafka: KafkaConfig{
			Brokers:      getEnvAsSlice("KAFKA_BROKERS"),
			WebhookTopic: getEnv("KAFKA_WEBHOOK_TOPIC", "hyperswitch.webhooks"),
		},
		OpenTelemetry: OpenTelemetryConfig{
			Enabled:         getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:     getEnv("OTEL_SERVICE_NAME", ServiceName),
			ServiceVersion:  getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			OTLPInsecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			TraceExporter:   getEnv("OTEL_TRACES_EXPORTER", "otlp"),
			MetricsExporter: getEnv("OTEL_METRICS_EXPORTER", "otlp"),
		},
	}

	// 必須設定の検証
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate 設定の検証
func (c *Config) validate() error {
	if c.YooKassa.ShopID == "" {
		return fmt.Errorf("YOOKASSA_SHOP_ID is required")
	}
	if c.YooKassa.SecretKey == "" {
		return fmt.Errorf("YOOKASSA_SECRET_KEY is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("PORT must be positive: %d", c.Server.Port)
	}
	if c.Server.GRPCEnabled && c.Server.GRPCPort == c.Server.Port {
		return fmt.Errorf("GRPC_PORT must differ from PORT")
	}
	return nil
}

// MaskedShopID ログ出力用に末尾4文字以外を伏せたショップIDを返す
func (c *YooKassaConfig) MaskedShopID() string {
	if c.ShopID == "" {
		return "NOT SET"
	}
	if len(c.ShopID) <= 4 {
		return "***" + c.ShopID
	}
	return "***" + c.ShopID[len(c.ShopID)-4:]
}

// IsDevelopment 開発環境かどうかを返す
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 環境変数を整数として取得
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool 環境変数を真偽値として取得
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration 環境変数を時間として取得
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice カンマ区切りの環境変数をスライスとして取得
func getEnvAsSlice(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
