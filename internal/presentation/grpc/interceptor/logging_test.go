package interceptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name        string
		handlerErr  error
		wantMessage string
		wantCode    string
	}{
		{
			name:        "正常系: 成功したリクエスト",
			wantMessage: "gRPC request completed",
			wantCode:    "OK",
		},
		{
			name:        "異常系: 失敗したリクエスト",
			handlerErr:  status.Error(codes.NotFound, "unknown service"),
			wantMessage: "gRPC request failed",
			wantCode:    "NotFound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			interceptor := LoggingInterceptor(otelinfra.NewLogger(zap.New(core)))

			info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
			resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return "resp", tt.handlerErr
			})

			assert.Equal(t, "resp", resp)
			assert.Equal(t, tt.handlerErr, err)

			entries := logs.FilterMessage(tt.wantMessage).All()
			require.Len(t, entries, 1)
			assert.Equal(t, "/grpc.health.v1.Health/Check", entries[0].ContextMap()["method"])
			assert.Equal(t, tt.wantCode, entries[0].ContextMap()["code"])
		})
	}
}
