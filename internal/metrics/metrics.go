// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	authFailure    prometheus.Counter
	extractSuccess prometheus.Counter
	extractFail    prometheus.Counter
	extractLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minuteman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		authFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minuteman_auth_failure_total",
			Help: "認証失敗（401）の合計数",
		}),
		extractSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minuteman_extract_success_total",
			Help: "アクションアイテム抽出成功の合計数",
		}),
		extractFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minuteman_extract_fail_total",
			Help: "アクションアイテム抽出失敗の合計数",
		}),
		extractLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minuteman_extract_latency_seconds",
			Help:    "アクションアイテム抽出のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.authFailure,
		c.extractSuccess,
		c.extractFail,
		c.extractLatency,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
// 401の場合は認証失敗カウンタも加算する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	if statusCode == http.StatusUnauthorized {
		c.authFailure.Inc()
	}
}

// RecordExtraction は抽出の結果とレイテンシを記録する。
func (c *Collector) RecordExtraction(success bool, duration time.Duration) {
	if success {
		c.extractSuccess.Inc()
	} else {
		c.extractFail.Inc()
	}
	c.extractLatency.Observe(duration.Seconds())
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// Middleware はレスポンスのステータスコードをCollectorに記録するミドルウェアを返す。
func Middleware(c *Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			next.ServeHTTP(rec, r)
			c.RecordHTTPStatus(rec.statusCode)
		})
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
