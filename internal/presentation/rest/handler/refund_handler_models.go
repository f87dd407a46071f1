package handler

// CreateRefundRequest 返金作成リクエスト
// @Description 統合フォーマットの返金作成リクエスト（金額は最小単位）
type CreateRefundRequest struct {
	PaymentID string `json:"payment_id" example:"2d8a1c3f-000f-5000-9000-1b68e7b15f3f"`
	Amount    int64  `json:"amount" example:"5000"`
	Reason    string `json:"reason,omitempty" example:"requested_by_customer"`
}

// RefundResponse 返金レスポンス
// @Description 返金結果（statusはYooKassaの値をそのまま返す）
type RefundResponse struct {
	RefundID  string `json:"refund_id" example:"2d8a1c40-0015-5000-9000-1c2b5a3e1a2b"`
	PaymentID string `json:"payment_id" example:"2d8a1c3f-000f-5000-9000-1b68e7b15f3f"`
	Status    string `json:"status" example:"succeeded"`
	Amount    int64  `json:"amount" example:"5000"`
	CreatedAt string `json:"created_at" example:"2024-01-02T00:00:00.000Z"`
}
