package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the name registry.
type Metrics struct {
	NamesMinted        *prometheus.CounterVec
	NamesBurned        prometheus.Counter
	NamesTransferred   *prometheus.CounterVec
	PathsCascaded      prometheus.Counter
	FeesCollected      *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
	OperationsRejected *prometheus.CounterVec
	OutboxPublished    prometheus.Counter
	OutboxFailures     prometheus.Counter
	BrokerCircuitOpen  prometheus.Gauge
}

// New registers the registry metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg. Tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		NamesMinted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whoami_names_minted_total",
			Help: "Names minted, by kind",
		}, []string{"kind"}),
		NamesBurned: f.NewCounter(prometheus.CounterOpts{
			Name: "whoami_names_burned_total",
			Help: "Names burned by their owner or an approved spender",
		}),
		NamesTransferred: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whoami_names_transferred_total",
			Help: "Names that changed owner, by operation",
		}, []string{"operation"}),
		PathsCascaded: f.NewCounter(prometheus.CounterOpts{
			Name: "whoami_paths_cascade_deleted_total",
			Help: "Paths destroyed because their root changed owner or was burned",
		}),
		FeesCollected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whoami_mint_fees_total",
			Help: "Mint fees settled, in base units, by destination",
		}, []string{"destination"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "whoami_operation_duration_seconds",
			Help:    "Duration of registry operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		OperationsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whoami_operations_rejected_total",
			Help: "Registry operations that failed, by operation and error code",
		}, []string{"operation", "code"}),
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "whoami_outbox_published_total",
			Help: "Settlement messages relayed to the broker",
		}),
		OutboxFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "whoami_outbox_publish_failures_total",
			Help: "Outbox batches that failed to publish and stayed pending",
		}),
		BrokerCircuitOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "whoami_broker_circuit_open",
			Help: "1 while the broker circuit breaker is open",
		}),
	}
}

func (m *Metrics) IncrementMinted(kind string) {
	m.NamesMinted.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementBurned() {
	m.NamesBurned.Inc()
}

func (m *Metrics) IncrementTransferred(operation string) {
	m.NamesTransferred.WithLabelValues(operation).Inc()
}

func (m *Metrics) AddPathsCascaded(n int) {
	m.PathsCascaded.Add(float64(n))
}

// AddFees records a settled fee split.
func (m *Metrics) AddFees(toAdmin, toBurn uint64) {
	m.FeesCollected.WithLabelValues("admin").Add(float64(toAdmin))
	m.FeesCollected.WithLabelValues("burn").Add(float64(toBurn))
}

// ObserveOperation records the duration of an operation started at start.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementRejected(operation, code string) {
	m.OperationsRejected.WithLabelValues(operation, code).Inc()
}

func (m *Metrics) AddPublished(n int) {
	m.OutboxPublished.Add(float64(n))
}

func (m *Metrics) IncrementPublishFailures() {
	m.OutboxFailures.Inc()
}

// SetCircuitOpen mirrors the broker breaker state.
func (m *Metrics) SetCircuitOpen(open bool) {
	if open {
		m.BrokerCircuitOpen.Set(1)
		return
	}
	m.BrokerCircuitOpen.Set(0)
}
