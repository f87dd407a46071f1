package forwarding

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yookassa-proxy/internal/domain/payment"
	"yookassa-proxy/internal/domain/webhook"
	"yookassa-proxy/internal/infrastructure/config"
	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

func testEvent() *webhook.NormalizedEvent {
	return &webhook.NormalizedEvent{
		EventType: webhook.EventPaymentSucceeded,
		PaymentID: "pay_1",
		Status:    payment.StatusSucceeded,
		Data:      json.RawMessage(`{"id":"pay_1","status":"succeeded","paid":true}`),
	}
}

func testLogger() *otelinfra.Logger {
	return otelinfra.NewLogger(zap.NewNop())
}

func TestHTTPForwarder_Forward(t *testing.T) {
	var gotBody []byte
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	forwarder := NewHTTPForwarder(&config.HyperswitchConfig{WebhookURL: server.URL}, server.Client(), testLogger())

	err := forwarder.Forward(context.Background(), testEvent())
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
	assert.JSONEq(t, `{
		"event_type": "payment.succeeded",
		"payment_id": "pay_1",
		"status": "succeeded",
		"data": {"id":"pay_1","status":"succeeded","paid":true}
	}`, string(gotBody))
}

func TestHTTPForwarder_Forward_URLNotConfigured(t *testing.T) {
	forwarder := NewHTTPForwarder(&config.HyperswitchConfig{}, nil, testLogger())

	err := forwarder.Forward(context.Background(), testEvent())
	assert.NoError(t, err)
}

func TestHTTPForwarder_Forward_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	forwarder := NewHTTPForwarder(&config.HyperswitchConfig{WebhookURL: server.URL}, server.Client(), testLogger())

	err := forwarder.Forward(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPForwarder_Forward_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	forwarder := NewHTTPForwarder(&config.HyperswitchConfig{WebhookURL: url}, nil, testLogger())

	err := forwarder.Forward(context.Background(), testEvent())
	assert.Error(t, err)
}

func TestHTTPForwarder_Forward_SignedToken(t *testing.T) {
	const secret = "forward-secret"
	var calls atomic.Int32
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	forwarder := NewHTTPForwarder(&config.HyperswitchConfig{
		WebhookURL:    server.URL,
		WebhookSecret: secret,
	}, server.Client(), testLogger())
	fixed := time.Now()
	forwarder.now = func() time.Time { return fixed }

	require.NoError(t, forwarder.Forward(context.Background(), testEvent()))
	assert.Equal(t, int32(1), calls.Load())

	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(gotAuth, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, config.ServiceName, claims.Issuer)
	assert.Equal(t, "pay_1", claims.Subject)
	assert.Equal(t, fixed.Add(tokenTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestHTTPForwarder_Name(t *testing.T) {
	forwarder := NewHTTPForwarder(&config.HyperswitchConfig{}, nil, testLogger())
	assert.Equal(t, "http", forwarder.Name())
}
