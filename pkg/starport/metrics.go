package starport

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the registry's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	ports            prometheus.Gauge
	instancesCreated prometheus.Counter
	instancesDropped prometheus.Counter
	moves            prometheus.Counter
	handoffs         prometheus.Counter
	staleUpdates     prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ports: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "starport",
			Name:      "ports",
			Help:      "Ports with a live instance.",
		}),
		instancesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "starport",
			Name:      "instances_created_total",
			Help:      "Real instances created for a port.",
		}),
		instancesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "starport",
			Name:      "instances_destroyed_total",
			Help:      "Real instances torn down after their port stayed unreferenced for a tick.",
		}),
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "starport",
			Name:      "moves_total",
			Help:      "Pending teardowns cancelled by a re-registration.",
		}),
		handoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "starport",
			Name:      "handoffs_total",
			Help:      "Active anchor hand-offs to a surviving proxy.",
		}),
		staleUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "starport",
			Name:      "stale_updates_total",
			Help:      "Updates ignored because the handle was no longer registered.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ports, m.instancesCreated, m.instancesDropped, m.moves, m.handoffs, m.staleUpdates)
	}
	return m
}

func (m *Metrics) setPorts(n int) {
	if m != nil {
		m.ports.Set(float64(n))
	}
}

func (m *Metrics) created() {
	if m != nil {
		m.instancesCreated.Inc()
	}
}

func (m *Metrics) destroyed() {
	if m != nil {
		m.instancesDropped.Inc()
	}
}

func (m *Metrics) moved() {
	if m != nil {
		m.moves.Inc()
	}
}

func (m *Metrics) handedOff() {
	if m != nil {
		m.handoffs.Inc()
	}
}

func (m *Metrics) stale() {
	if m != nil {
		m.staleUpdates.Inc()
	}
}
