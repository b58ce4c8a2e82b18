package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約操作の総数（operation: create/pay/cancel/refund/reschedule, status: success/rejected/failed）
	BookingOperationsTotal *prometheus.CounterVec

	// 決済ゲートウェイ呼び出しの総数（operation: authorize/refund, status: success/declined/fraud/error）
	GatewayCallsTotal *prometheus.CounterVec

	// 決済ゲートウェイ呼び出しのレイテンシ（operation）
	GatewayCallDuration *prometheus.HistogramVec

	// 座席操作の総数（operation: reserve/release, result: ok/exhausted/double_release）
	SeatOperationsTotal *prometheus.CounterVec

	// 補償処理の失敗数（手動リコンシリエーションが必要な状態を示す）
	CompensationFailuresTotal prometheus.Counter
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_operations_total",
				Help: "Total number of booking coordinator operations",
			},
			[]string{"operation", "status"},
		),
		GatewayCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_gateway_calls_total",
				Help: "Total number of payment gateway calls",
			},
			[]string{"operation", "status"},
		),
		GatewayCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_gateway_call_duration_seconds",
				Help:    "Payment gateway call latency in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),
		SeatOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_operations_total",
				Help: "Total number of seat reserve/release operations",
			},
			[]string{"operation", "result"},
		),
		CompensationFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "compensation_failures_total",
				Help: "Number of failed compensations requiring manual reconciliation",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingOperationsTotal,
		m.GatewayCallsTotal,
		m.GatewayCallDuration,
		m.SeatOperationsTotal,
		m.CompensationFailuresTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
