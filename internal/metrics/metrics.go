// Package metrics exports stripper outcomes as Prometheus counters.
package metrics

import (
	"github.com/aleister1102/urlstripper/internal/stripper"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "urlstripper"

	OutcomeChanged     = "changed"
	OutcomeUnchanged   = "unchanged"
	OutcomeUnparseable = "unparseable"
)

// Collector implements stripper.Observer.
type Collector struct {
	urlsProcessed    *prometheus.CounterVec
	paramsRemoved    prometheus.Counter
	fragmentsCleared prometheus.Counter
}

var _ stripper.Observer = (*Collector)(nil)

// NewCollector creates the counters. They are not registered yet.
func NewCollector() *Collector {
	return &Collector{
		urlsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "urls_processed_total",
			Help:      "The number of URLs looked at by the rewriter, by outcome",
		}, []string{"outcome"}),
		paramsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "params_removed_total",
			Help:      "The number of query parameters removed",
		}),
		fragmentsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_cleared_total",
			Help:      "The number of fragments cleared",
		}),
	}
}

// Register adds the counters to reg and initialises every outcome label so
// that the series exist before the first URL is seen.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.urlsProcessed, c.paramsRemoved, c.fragmentsCleared} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	for _, outcome := range []string{OutcomeChanged, OutcomeUnchanged, OutcomeUnparseable} {
		c.urlsProcessed.WithLabelValues(outcome).Add(0)
	}
	return nil
}

// ObserveURL records one rewriter outcome.
func (c *Collector) ObserveURL(res stripper.Result) {
	switch {
	case res.Unparseable:
		c.urlsProcessed.WithLabelValues(OutcomeUnparseable).Inc()
	case res.Changed:
		c.urlsProcessed.WithLabelValues(OutcomeChanged).Inc()
	default:
		c.urlsProcessed.WithLabelValues(OutcomeUnchanged).Inc()
	}
	if n := len(res.Removed); n > 0 {
		c.paramsRemoved.Add(float64(n))
	}
	if res.FragmentCleared {
		c.fragmentsCleared.Inc()
	}
}
