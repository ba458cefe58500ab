package chain

import "github.com/prometheus/client_golang/prometheus"

// metricsSet is the small collection of counters a ValidatorContext
// increments while probing. The teacher has no metrics of its own; this
// follows the ambient observability convention of wiring a concrete
// prometheus registry behind a handful of counters, as blocky does.
type metricsSet struct {
	queriesTotal     *prometheus.CounterVec
	timeoutsTotal    prometheus.Counter
	chainOutcomes    *prometheus.CounterVec
}

func newMetricsSet(reg prometheus.Registerer) *metricsSet {
	m := &metricsSet{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dnssecprobe",
			Name:      "queries_total",
			Help:      "Number of DNS queries issued by the transport, by protocol.",
		}, []string{"protocol"}),
		timeoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dnssecprobe",
			Name:      "timeouts_total",
			Help:      "Number of queries that timed out on both UDP and TCP.",
		}),
		chainOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dnssecprobe",
			Name:      "chain_outcomes_total",
			Help:      "Number of ValidateChain calls, by resulting validation state.",
		}, []string{"state"}),
	}

	if reg != nil {
		reg.MustRegister(m.queriesTotal, m.timeoutsTotal, m.chainOutcomes)
	}

	return m
}

func (m *metricsSet) observeQuery(protocol string) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(protocol).Inc()
}

func (m *metricsSet) observeTimeout() {
	if m == nil {
		return
	}
	m.timeoutsTotal.Inc()
}

func (m *metricsSet) observeChainOutcome(state ValidationState) {
	if m == nil {
		return
	}
	m.chainOutcomes.WithLabelValues(string(state)).Inc()
}
