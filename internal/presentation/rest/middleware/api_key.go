package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

// HeaderAPIKey 統合プラットフォームが付与するAPIキーヘッダー
const HeaderAPIKey = "X-API-Key"

// APIKeyMiddleware APIキー認証ミドルウェア
// apiKeyが空の場合は認証を行わない
func APIKeyMiddleware(apiKey string, logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if apiKey == "" {
			return next
		}
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			key := c.Request().Header.Get(HeaderAPIKey)
			if key == "" {
				logger.Warn(ctx, "Missing X-API-Key header", map[string]interface{}{
					"path": c.Request().URL.Path,
				})
				return c.JSON(http.StatusUnauthorized, NewErrorResponse("Missing X-API-Key header", "unauthorized"))
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				logger.Warn(ctx, "Invalid API key", map[string]interface{}{
					"path": c.Request().URL.Path,
				})
				return c.JSON(http.StatusUnauthorized, NewErrorResponse("Invalid API key", "unauthorized"))
			}

			return next(c)
		}
	}
}
