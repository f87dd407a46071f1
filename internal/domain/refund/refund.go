package refund

import (
	"context"

	"yookassa-proxy/internal/domain/money"
)

// Refund YooKassaの返金オブジェクト
// Statusはプロバイダーの値をそのまま保持する
type Refund struct {
	ID        string       `json:"id"`
	PaymentID string       `json:"payment_id"`
	Status    string       `json:"status"`
	Amount    money.Amount `json:"amount"`
	CreatedAt string       `json:"created_at"`
}

// CreateParams YooKassaへの返金作成リクエスト
type CreateParams struct {
	PaymentID   string       `json:"payment_id"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
}

// Gateway 決済プロバイダーの返金APIインターフェース
type Gateway interface {
	// CreateRefund 返金を作成（呼び出し毎に新しい冪等キーを付与）
	CreateRefund(ctx context.Context, params *CreateParams) (*Refund, error)
}
