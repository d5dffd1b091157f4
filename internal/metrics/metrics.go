// Package metrics exposes Prometheus collectors for seeding, generation and
// publishing.
package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "transfraud"

// Publish results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Scheduler tick outcomes
const (
	TickSkipped   = "skipped"
	TickPublished = "published"
	TickFailed    = "failed"
	TickSelfHeal  = "self_heal"
)

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	mu         sync.Mutex
	registered bool
	registerer prometheus.Registerer

	generatedTotal  prometheus.Counter
	publishTotal    *prometheus.CounterVec
	selfHealTotal   prometheus.Counter
	ticksTotal      *prometheus.CounterVec
	seededCustomers prometheus.Gauge
	seededCards     prometheus.Gauge
}

// New creates the collectors. They are not registered until Register is called.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		registerer: registerer,
		generatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_generated_total",
			Help:      "Total number of synthesized transactions",
		}),
		publishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Bus acknowledgements of published transactions by result",
		}, []string{"result"}),
		selfHealTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "self_heal_total",
			Help:      "Number of reinitializations triggered by an empty active card pool",
		}),
		ticksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_ticks_total",
			Help:      "Scheduler ticks by outcome",
		}, []string{"outcome"}),
		seededCustomers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seeded_customers",
			Help:      "Customers present after the last initialization",
		}),
		seededCards: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seeded_cards",
			Help:      "Cards present after the last initialization",
		}),
	}
}

// Register registers the collectors. Safe to call multiple times.
func (m *Metrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	collectors := []prometheus.Collector{
		m.generatedTotal,
		m.publishTotal,
		m.selfHealTotal,
		m.ticksTotal,
		m.seededCustomers,
		m.seededCards,
	}
	for _, c := range collectors {
		if err := m.registerer.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}

	m.registered = true
	return nil
}

// TransactionGenerated counts one synthesized transaction
func (m *Metrics) TransactionGenerated() {
	if m == nil {
		return
	}
	m.generatedTotal.Inc()
}

// PublishCompleted counts bus acknowledgements
func (m *Metrics) PublishCompleted(result string, n int) {
	if m == nil {
		return
	}
	m.publishTotal.WithLabelValues(result).Add(float64(n))
}

// SelfHealed counts one self-healing reinitialization
func (m *Metrics) SelfHealed() {
	if m == nil {
		return
	}
	m.selfHealTotal.Inc()
}

// Tick counts one scheduler tick
func (m *Metrics) Tick(outcome string) {
	if m == nil {
		return
	}
	m.ticksTotal.WithLabelValues(outcome).Inc()
}

// Seeded records the dataset size after initialization
func (m *Metrics) Seeded(customers, cards int64) {
	if m == nil {
		return
	}
	m.seededCustomers.Set(float64(customers))
	m.seededCards.Set(float64(cards))
}
