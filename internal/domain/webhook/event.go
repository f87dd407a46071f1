package webhook

import (
	"encoding/json"

	"yookassa-proxy/internal/domain/payment"
)

// EventType YooKassaの通知イベント種別
type EventType string

const (
	EventPaymentSucceeded EventType = "payment.succeeded"
	EventPaymentCanceled  EventType = "payment.canceled"
	EventRefundSucceeded  EventType = "refund.succeeded"
)

// String 文字列表現を返す
func (t EventType) String() string {
	return string(t)
}

// Forwardable 統合プラットフォームへ転送する種別かどうかを返す
func (t EventType) Forwardable() bool {
	switch t {
	case EventPaymentSucceeded, EventPaymentCanceled, EventRefundSucceeded:
		return true
	default:
		return false
	}
}

// Event YooKassaから受信した通知
// Objectは転送時にそのまま渡すため未加工のまま保持する
type Event struct {
	Type   string          `json:"type,omitempty"`
	Event  EventType       `json:"event"`
	Object json.RawMessage `json:"object,omitempty"`
}

// objectRef 通知オブジェクトから参照する項目
type objectRef struct {
	ID     string                 `json:"id"`
	Status payment.ProviderStatus `json:"status"`
}

// ParseEvent 通知本文を解析する
// 形式を検証しないため、解析できない本文は空のイベントとして扱う
func ParseEvent(body []byte) *Event {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return &Event{}
	}
	return &event
}

// Normalize 統合フォーマットの通知に変換
func (e *Event) Normalize() *NormalizedEvent {
	var ref objectRef
	if len(e.Object) > 0 {
		// オブジェクトの形式が想定外でもID・ステータスが空のまま転送する
		_ = json.Unmarshal(e.Object, &ref)
	}

	data := e.Object
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	return &NormalizedEvent{
		EventType: e.Event,
		PaymentID: ref.ID,
		Status:    payment.MapStatus(ref.Status),
		Data:      data,
	}
}

// ObjectID 通知オブジェクトのIDを返す
func (e *Event) ObjectID() string {
	var ref objectRef
	_ = json.Unmarshal(e.Object, &ref)
	return ref.ID
}

// NormalizedEvent 統合プラットフォームへ転送する通知
type NormalizedEvent struct {
	EventType EventType       `json:"event_type"`
	PaymentID string          `json:"payment_id"`
	Status    payment.Status  `json:"status"`
	Data      json.RawMessage `json:"data"`
}
