package payment

// CreatePaymentRequest 決済作成リクエスト（金額は最小単位）
type CreatePaymentRequest struct {
	Amount      int64
	Currency    string
	Description string
	CustomerID  string
	Email       string
	ReturnURL   string
	Metadata    map[string]interface{}
}

// PaymentResponse 決済レスポンス
type PaymentResponse struct {
	PaymentID       string
	Status          string
	Amount          int64
	Currency        string
	ConfirmationURL string
	CreatedAt       string
	Metadata        map[string]interface{}
}

// PaymentDetailResponse 決済照会レスポンス
type PaymentDetailResponse struct {
	PaymentResponse
	Paid       bool
	CapturedAt string
}

// CancelPaymentResponse 決済キャンセルレスポンス
type CancelPaymentResponse struct {
	PaymentID string
	Status    string
	Cancelled bool
}
