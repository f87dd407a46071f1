package yookassa

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewLatencyHistogram YooKassa呼び出しのレイテンシヒストグラムを登録
func NewLatencyHistogram(reg prometheus.Registerer) *prometheus.HistogramVec {
	return promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yookassa_request_duration_seconds",
			Help:    "Latency of YooKassa API calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)
}
