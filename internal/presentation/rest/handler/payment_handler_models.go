package handler

// CreatePaymentRequest 決済作成リクエスト
// @Description 統合フォーマットの決済作成リクエスト（金額は最小単位）
type CreatePaymentRequest struct {
	Amount      int64                  `json:"amount" example:"10000"`
	Currency    string                 `json:"currency,omitempty" example:"RUB"`
	Description string                 `json:"description,omitempty" example:"Order #42"`
	CustomerID  string                 `json:"customer_id,omitempty" example:"cus_1"`
	Email       string                 `json:"email,omitempty" example:"customer@example.com"`
	ReturnURL   string                 `json:"return_url,omitempty" example:"https://shop.example.com/return"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// PaymentResponse 決済レスポンス
// @Description 統合フォーマットの決済
type PaymentResponse struct {
	PaymentID       string                 `json:"payment_id" example:"2d8a1c3f-000f-5000-9000-1b68e7b15f3f"`
	Status          string                 `json:"status" example:"processing"`
	Amount          int64                  `json:"amount" example:"10000"`
	Currency        string                 `json:"currency" example:"RUB"`
	ConfirmationURL string                 `json:"confirmation_url,omitempty" example:"https://yoomoney.ru/checkout/payments/v2/contract?orderId=2d8a1c3f"`
	CreatedAt       string                 `json:"created_at" example:"2024-01-01T00:00:00.000Z"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// PaymentDetailResponse 決済照会レスポンス
// @Description 統合フォーマットの決済（支払い状況付き）
type PaymentDetailResponse struct {
	PaymentResponse
	Paid       bool   `json:"paid" example:"true"`
	CapturedAt string `json:"captured_at,omitempty" example:"2024-01-01T00:05:00.000Z"`
}

// CancelPaymentResponse 決済キャンセルレスポンス
// @Description 決済キャンセル結果
type CancelPaymentResponse struct {
	PaymentID string `json:"payment_id" example:"2d8a1c3f-000f-5000-9000-1b68e7b15f3f"`
	Status    string `json:"status" example:"cancelled"`
	Cancelled bool   `json:"cancelled" example:"true"`
}
