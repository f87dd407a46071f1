package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	otelinfra "yookassa-proxy/internal/infrastructure/observability/otel"
)

// NewIPExtractor クライアントIPの取得方法を作成
// trustedProxiesが空の場合は接続元IPのみを使い、ヘッダーは参照しない。
// 設定されている場合は、信頼するプロキシから届いたX-Forwarded-Forのみを参照する
func NewIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	networks, err := parseNetworks(trustedProxies)
	if err != nil {
		return nil, err
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, network := range networks {
		options = append(options, echo.TrustIPRange(network))
	}
	return echo.ExtractIPFromXFFHeader(options...), nil
}

// IPAllowlistMiddleware 送信元IPアドレスの制限ミドルウェア
// allowedが空の場合は全て許可する。要素はCIDR表記または単一のIPアドレス
// クライアントIPはc.RealIP()から取得するため、EchoのIPExtractorを設定しておくこと
func IPAllowlistMiddleware(allowed []string, logger *otelinfra.Logger) (echo.MiddlewareFunc, error) {
	networks, err := parseNetworks(allowed)
	if err != nil {
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if len(networks) == 0 {
			return next
		}
		return func(c echo.Context) error {
			clientIP := c.RealIP()
			if !isIPAllowed(clientIP, networks) {
				logger.Warn(c.Request().Context(), "IP address not allowed", map[string]interface{}{
					"ip":   clientIP,
					"path": c.Request().URL.Path,
				})
				return c.JSON(http.StatusForbidden, NewErrorResponse("IP address not allowed", "forbidden"))
			}
			return next(c)
		}
	}, nil
}

// parseNetworks 許可リストをネットワークに変換
func parseNetworks(allowed []string) ([]*net.IPNet, error) {
	networks := make([]*net.IPNet, 0, len(allowed))
	for _, entry := range allowed {
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid IP address in allowlist: %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			networks = append(networks, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR in allowlist: %w", err)
		}
		networks = append(networks, network)
	}
	return networks, nil
}

// isIPAllowed IPアドレスが許可リストに含まれているかチェック
func isIPAllowed(ip string, networks []*net.IPNet) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range networks {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}
