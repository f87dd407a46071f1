package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

// MetricsMiddleware メトリクス記録ミドルウェア
func MetricsMiddleware(metrics *otelinfra.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			ctx := c.Request().Context()
			method := c.Request().Method

			metrics.RecordRequest(ctx, method, c.Path())

			err := next(c)

			metrics.RecordResponseTime(ctx, method, c.Path(), time.Since(start).Seconds())

			// エラーハンドラーで書き込まれたステータス、または未処理のHTTPエラーから判定
			statusCode := c.Response().Status
			var httpErr *echo.HTTPError
			if err != nil && !c.Response().Committed {
				statusCode = http.StatusInternalServerError
				if errors.As(err, &httpErr) {
					statusCode = httpErr.Code
				}
			}
			if errorType := errorClass(statusCode); errorType != "" {
				metrics.RecordError(ctx, errorType)
			}

			return err
		}
	}
}

// errorClass ステータスコードからエラー種別を返す（エラーでなければ空）
func errorClass(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "server_error"
	case statusCode >= 400:
		return "client_error"
	default:
		return ""
	}
}
