package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejected     *prometheus.CounterVec
	StoreErrors  prometheus.Counter
	FallbackMode prometheus.Gauge
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whoami_ratelimit_rejected_total",
			Help: "Requests rejected by the write rate limiter, by class",
		}, []string{"class"}),
		StoreErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "whoami_ratelimit_store_errors_total",
			Help: "Rate limit checks that failed against the primary store",
		}),
		FallbackMode: f.NewGauge(prometheus.GaugeOpts{
			Name: "whoami_ratelimit_fallback",
			Help: "1 while rate limiting runs on the in-memory fallback",
		}),
	}
}

func (m *Metrics) IncrementRejected(class string) {
	m.Rejected.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementStoreErrors() {
	m.StoreErrors.Inc()
}

func (m *Metrics) SetFallback(on bool) {
	if on {
		m.FallbackMode.Set(1)
		return
	}
	m.FallbackMode.Set(0)
}
