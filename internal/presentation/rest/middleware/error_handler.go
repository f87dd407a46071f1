package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"yookassa-proxy/internal/domain/payment"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

// ErrorResponse 統合フォーマットのエラーレスポンス
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody エラー内容
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// NewErrorResponse エラーレスポンスを作成
func NewErrorResponse(message, code string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Message: message, Code: code}}
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			return handleError(c, err, logger)
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	// プロバイダー呼び出しの失敗（ステータスコードをそのまま返す）
	var opErr *payment.OperationError
	if errors.As(err, &opErr) {
		logger.Warn(ctx, "Provider operation failed", map[string]interface{}{
			"status_code": opErr.StatusCode,
			"code":        opErr.Code,
			"error":       err.Error(),
		})
		return c.JSON(opErr.StatusCode, NewErrorResponse(opErr.Message, opErr.Code))
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message, ok := httpErr.Message.(string)
		if !ok {
			message = fmt.Sprint(httpErr.Message)
			if httpErr.Message == nil {
				message = http.StatusText(httpErr.Code)
			}
		}
		return c.JSON(httpErr.Code, NewErrorResponse(message, payment.DefaultErrorCode))
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("An unexpected error occurred", payment.DefaultErrorCode))
}
