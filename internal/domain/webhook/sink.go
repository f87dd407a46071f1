package webhook

import "context"

// Sink 正規化した通知の転送先
type Sink interface {
	// Name ログ・メトリクス用の転送先名
	Name() string

	// Forward 通知を転送する
	Forward(ctx context.Context, event *NormalizedEvent) error
}
