package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shouni/gemini-personalize-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder("test", reg)

	rec.RecordPersonalization(domain.Standard, "success", 2*time.Second)
	rec.RecordPersonalization(domain.Standard, "success", time.Second)
	rec.RecordPersonalization(domain.Premium, domain.QuotaExhausted.String(), 300*time.Millisecond)

	t.Run("モデルと結果ごとに数えられる", func(t *testing.T) {
		assert.Equal(t, 2.0, testutil.ToFloat64(rec.requestsTotal.WithLabelValues("standard", "success")))
		assert.Equal(t, 1.0, testutil.ToFloat64(rec.requestsTotal.WithLabelValues("premium", "QUOTA_LIMIT_ZERO")))
	})

	t.Run("所要時間はモデルごとのヒストグラム", func(t *testing.T) {
		assert.Equal(t, 2, testutil.CollectAndCount(rec.requestDuration))
	})

	t.Run("同じレジストリへの二重登録は panic する", func(t *testing.T) {
		assert.Panics(t, func() { NewPrometheusRecorder("test", reg) })
	})
}
