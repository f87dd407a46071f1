package payment

import (
	"yookassa-proxy/internal/domain/money"
)

// ConfirmationTypeRedirect リダイレクト型の支払い確認
const ConfirmationTypeRedirect = "redirect"

// Payment YooKassaの決済オブジェクト
type Payment struct {
	ID           string                 `json:"id"`
	Status       ProviderStatus         `json:"status"`
	Amount       money.Amount           `json:"amount"`
	Confirmation *Confirmation          `json:"confirmation,omitempty"`
	CreatedAt    string                 `json:"created_at"`
	CapturedAt   string                 `json:"captured_at,omitempty"`
	Paid         bool                   `json:"paid"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// ConfirmationURL 支払い確認URLを返す（存在しない場合は空文字）
func (p *Payment) ConfirmationURL() string {
	if p.Confirmation == nil {
		return ""
	}
	return p.Confirmation.ConfirmationURL
}

// Confirmation 支払い確認情報
type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// CreateParams YooKassaへの決済作成リクエスト
type CreateParams struct {
	Amount       money.Amount           `json:"amount"`
	Confirmation Confirmation           `json:"confirmation"`
	Capture      bool                   `json:"capture"`
	Description  string                 `json:"description"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// MergeMetadata 呼び出し元のメタデータに顧客IDとメールアドレスを注入する
// 空の値は同名のキーを削除する（元のメタデータは変更しない）
func MergeMetadata(metadata map[string]interface{}, customerID, email string) map[string]interface{} {
	merged := make(map[string]interface{}, len(metadata)+2)
	for k, v := range metadata {
		merged[k] = v
	}
	setOrDelete(merged, "customer_id", customerID)
	setOrDelete(merged, "email", email)
	return merged
}

func setOrDelete(m map[string]interface{}, key, value string) {
	if value == "" {
		delete(m, key)
		return
	}
	m[key] = value
}
