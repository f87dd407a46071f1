package payment

// Status 統合フォーマット側の決済ステータス
type Status string

const (
	StatusProcessing      Status = "processing"
	StatusRequiresCapture Status = "requires_capture"
	StatusSucceeded       Status = "succeeded"
	StatusCancelled       Status = "cancelled"
)

// String 文字列表現を返す
func (s Status) String() string {
	return string(s)
}

// ProviderStatus YooKassa側の決済ステータス
type ProviderStatus string

const (
	ProviderStatusPending           ProviderStatus = "pending"
	ProviderStatusWaitingForCapture ProviderStatus = "waiting_for_capture"
	ProviderStatusSucceeded         ProviderStatus = "succeeded"
	ProviderStatusCanceled          ProviderStatus = "canceled"
)

// String 文字列表現を返す
func (s ProviderStatus) String() string {
	return string(s)
}

var statusTable = map[ProviderStatus]Status{
	ProviderStatusPending:           StatusProcessing,
	ProviderStatusWaitingForCapture: StatusRequiresCapture,
	ProviderStatusSucceeded:         StatusSucceeded,
	ProviderStatusCanceled:          StatusCancelled,
}

// MapStatus YooKassaのステータスを統合フォーマットのステータスに変換
// 未知のステータスはエラーにせずprocessingとして扱う
func MapStatus(s ProviderStatus) Status {
	if mapped, ok := statusTable[s]; ok {
		return mapped
	}
	return StatusProcessing
}
