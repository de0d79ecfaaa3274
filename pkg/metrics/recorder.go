package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shouni/gemini-personalize-kit/pkg/domain"
)

// DefaultNamespace はメトリクス名の既定の接頭辞です。
const DefaultNamespace = "personalize"

// PrometheusRecorder はパーソナライズの結果を Prometheus に記録します。
// generator.Recorder を満たします。
type PrometheusRecorder struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder は reg にメトリクスを登録するのだ。
// reg が nil なら prometheus.DefaultRegisterer を使います。
// 同じ namespace で二度登録すると promauto が panic する点に注意。
func NewPrometheusRecorder(namespace string, reg prometheus.Registerer) *PrometheusRecorder {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of personalization requests by outcome",
			},
			[]string{"model", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Personalization request duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"model"},
		),
	}
}

// RecordPersonalization は1回分の結果を記録します。
// outcome は "success" か ErrorKind の文字列表現です。
func (r *PrometheusRecorder) RecordPersonalization(model domain.ModelSelector, outcome string, elapsed time.Duration) {
	r.requestsTotal.WithLabelValues(model.String(), outcome).Inc()
	r.requestDuration.WithLabelValues(model.String()).Observe(elapsed.Seconds())
}
