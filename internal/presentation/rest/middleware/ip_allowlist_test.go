package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPAllowlistMiddleware(t *testing.T) {
	yookassaRanges := []string{"185.71.76.0/27", "77.75.156.11", "2a02:5180::/32"}

	tests := []struct {
		name           string
		allowed        []string
		trustedProxies []string
		remoteAddr     string
		forwardedFor   string
		realIP         string
		expectedStatus int
	}{
		{
			name:           "正常系: 許可リスト未設定",
			remoteAddr:     "192.168.1.1:1234",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "正常系: CIDR範囲内",
			allowed:        yookassaRanges,
			remoteAddr:     "185.71.76.17:443",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "正常系: 単一IPに一致",
			allowed:        yookassaRanges,
			remoteAddr:     "77.75.156.11:443",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "正常系: IPv6のCIDR範囲内",
			allowed:        yookassaRanges,
			remoteAddr:     "[2a02:5180::1]:443",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "正常系: 信頼するプロキシ経由のX-Forwarded-Forを使用",
			allowed:        yookassaRanges,
			trustedProxies: []string{"10.0.0.0/8"},
			remoteAddr:     "10.0.0.1:1234",
			forwardedFor:   "185.71.76.1",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: 信頼しない接続元のX-Forwarded-Forは無視",
			allowed:        yookassaRanges,
			remoteAddr:     "192.0.2.1:1234",
			forwardedFor:   "185.71.76.1",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: 信頼しない接続元のX-Real-IPは無視",
			allowed:        yookassaRanges,
			remoteAddr:     "192.0.2.1:1234",
			realIP:         "77.75.156.11",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: プライベートIPからでも信頼リスト外なら無視",
			allowed:        yookassaRanges,
			trustedProxies: []string{"172.16.0.1"},
			remoteAddr:     "10.0.0.1:1234",
			forwardedFor:   "185.71.76.1",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: 信頼するプロキシの前段で偽装された値は使わない",
			allowed:        yookassaRanges,
			trustedProxies: []string{"10.0.0.0/8"},
			remoteAddr:     "10.0.0.1:1234",
			forwardedFor:   "185.71.76.1, 192.0.2.1",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: CIDR範囲外",
			allowed:        yookassaRanges,
			remoteAddr:     "185.71.76.32:443",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: 前方一致だけでは許可しない",
			allowed:        []string{"10.0.0.1"},
			remoteAddr:     "10.0.0.11:1234",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			extractor, err := NewIPExtractor(tt.trustedProxies)
			require.NoError(t, err)
			e.IPExtractor = extractor

			middlewareFunc, err := IPAllowlistMiddleware(tt.allowed, testLogger())
			require.NoError(t, err)
			handler := middlewareFunc(func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]bool{"received": true})
			})

			req := httptest.NewRequest(http.MethodPost, "/webhooks", nil)
			if tt.remoteAddr != "" {
				req.RemoteAddr = tt.remoteAddr
			}
			if tt.forwardedFor != "" {
				req.Header.Set(echo.HeaderXForwardedFor, tt.forwardedFor)
			}
			if tt.realIP != "" {
				req.Header.Set(echo.HeaderXRealIP, tt.realIP)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, handler(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestIPAllowlistMiddleware_InvalidEntry(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
	}{
		{name: "異常系: 不正なCIDR", allowed: []string{"185.71.76.0/99"}},
		{name: "異常系: 不正なIP", allowed: []string{"not-an-ip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IPAllowlistMiddleware(tt.allowed, testLogger())
			assert.Error(t, err)
		})
	}
}

func TestNewIPExtractor_InvalidEntry(t *testing.T) {
	_, err := NewIPExtractor([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}
