package cookiemiddleware

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics := &NoopMetrics{}

	metrics.IncCounter("test_counter", map[string]string{"tag": "value"})
	metrics.ObserveHistogram("test_histogram", 1.5, map[string]string{"tag": "value"})
	metrics.SetGauge("test_gauge", 2.5, map[string]string{"tag": "value"})
}

func TestPrometheusMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)

	promMetrics, ok := metrics.(*PrometheusMetrics)
	require.True(t, ok)

	t.Run("IncCounter", func(t *testing.T) {
		tags := map[string]string{"variable": "secure_cookie", "result": "valid"}

		metrics.IncCounter("test_counter", tags)
		metrics.IncCounter("test_counter", tags)

		counter, ok := promMetrics.counters["test_counter"]
		require.True(t, ok, "Counter should be registered")

		metric := &dto.Metric{}
		err := counter.With(prometheus.Labels(tags)).Write(metric)
		require.NoError(t, err)
		assert.Equal(t, float64(2), metric.GetCounter().GetValue())
	})

	t.Run("ObserveHistogram", func(t *testing.T) {
		tags := map[string]string{"variable": "secure_cookie"}

		metrics.ObserveHistogram("test_histogram", 0.0002, tags)

		_, ok := promMetrics.histograms["test_histogram"]
		require.True(t, ok, "Histogram should be registered")

		families, err := registry.Gather()
		require.NoError(t, err)
		var found bool
		for _, f := range families {
			if f.GetName() == "test_histogram" {
				found = true
				require.Len(t, f.GetMetric(), 1)
				assert.Equal(t, uint64(1), f.GetMetric()[0].GetHistogram().GetSampleCount())
			}
		}
		assert.True(t, found, "Histogram should be gathered")
	})

	t.Run("SetGauge", func(t *testing.T) {
		tags := map[string]string{"location": "/"}

		metrics.SetGauge("test_gauge", 4.5, tags)

		gauge, ok := promMetrics.gauges["test_gauge"]
		require.True(t, ok, "Gauge should be registered")

		metric := &dto.Metric{}
		err := gauge.With(prometheus.Labels(tags)).Write(metric)
		require.NoError(t, err)
		assert.Equal(t, 4.5, metric.GetGauge().GetValue())
	})
}

func TestKeys(t *testing.T) {
	result := keys(map[string]string{
		"variable": "secure_cookie",
		"result":   "valid",
		"location": "/",
	})

	assert.Equal(t, []string{"location", "result", "variable"}, result)
}
