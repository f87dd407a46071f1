package refund

// CreateRefundRequest 返金作成リクエスト（金額は最小単位）
type CreateRefundRequest struct {
	PaymentID string
	Amount    int64
	Reason    string
}

// RefundResponse 返金レスポンス
// Statusはプロバイダーの値をそのまま返す
type RefundResponse struct {
	RefundID  string
	PaymentID string
	Status    string
	Amount    int64
	CreatedAt string
}
