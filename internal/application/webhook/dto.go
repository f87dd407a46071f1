package webhook

// WebhookResponse 通知受信レスポンス
// 転送結果に関わらずReceivedは常にtrue
type WebhookResponse struct {
	Received bool
}
