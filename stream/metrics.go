package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	samples      prometheus.Counter
	rejected     prometheus.Counter
	medians      prometheus.Counter
	lastMedian   prometheus.Gauge
	windowSize   prometheus.Gauge
	pushDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		samples: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "moving_median_samples_total",
			Help: "Total number of samples received by the stream.",
		}),
		rejected: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "moving_median_samples_rejected_total",
			Help: "Total number of samples rejected because they were not finite.",
		}),
		medians: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "moving_median_medians_total",
			Help: "Total number of medians emitted.",
		}),
		lastMedian: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "moving_median_last_median",
			Help: "Most recently emitted median.",
		}),
		windowSize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "moving_median_window_size",
			Help: "Configured window size.",
		}),
		pushDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "moving_median_push_duration_seconds",
			Help:    "Time spent inserting one sample and computing the median.",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
	}
}
