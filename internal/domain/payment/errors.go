package payment

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorCode プロバイダーがコードを返さなかった場合のエラーコード
const DefaultErrorCode = "UNKNOWN_ERROR"

// GatewayError プロバイダー呼び出しの失敗
// StatusCodeはHTTP応答を受け取れなかった場合0になる
type GatewayError struct {
	StatusCode  int
	Code        string
	Description string
	Err         error
}

// Error エラーメッセージを返す
func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider request failed: %v", e.Err)
	}
	return fmt.Sprintf("provider returned %d: %s (%s)", e.StatusCode, e.Description, e.Code)
}

// Unwrap 元のエラーを返す
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// OperationError 統合フォーマットで返却する操作エラー
type OperationError struct {
	StatusCode int
	Message    string
	Code       string
	Err        error
}

// NewOperationError プロバイダーエラーを統合フォーマットの操作エラーに変換
// プロバイダーが値を返さなかった項目はデフォルト値で補う
func NewOperationError(err error, defaultMessage string) *OperationError {
	opErr := &OperationError{
		StatusCode: http.StatusInternalServerError,
		Message:    defaultMessage,
		Code:       DefaultErrorCode,
		Err:        err,
	}

	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		if gwErr.StatusCode != 0 {
			opErr.StatusCode = gwErr.StatusCode
		}
		if gwErr.Description != "" {
			opErr.Message = gwErr.Description
		}
		if gwErr.Code != "" {
			opErr.Code = gwErr.Code
		}
	}

	return opErr
}

// Error エラーメッセージを返す
func (e *OperationError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Message, e.Code, e.Err)
}

// Unwrap 元のエラーを返す
func (e *OperationError) Unwrap() error {
	return e.Err
}
