package payment

import "context"

// Gateway 決済プロバイダーの決済APIインターフェース
type Gateway interface {
	// CreatePayment 決済を作成（呼び出し毎に新しい冪等キーを付与）
	CreatePayment(ctx context.Context, params *CreateParams) (*Payment, error)

	// GetPayment 決済を取得
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)

	// CancelPayment 決済をキャンセル（呼び出し毎に新しい冪等キーを付与）
	CancelPayment(ctx context.Context, paymentID string) (*Payment, error)
}
