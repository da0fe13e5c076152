// Package metrics exports SOS1 engine events as Prometheus metrics.
//
// A Collector implements sos1.Hooks; pass it with sos1.WithHooks and
// register it once on a prometheus.Registerer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/sos1/sos1"
)

// Label names.
const (
	ResultLabel = "result"
	KindLabel   = "kind"
	SourceLabel = "source"
)

// Collector holds one engine's metrics.
type Collector struct {
	graphNodes   prometheus.Gauge
	graphEdges   prometheus.Gauge
	graphEnabled prometheus.Gauge

	presolveRounds     *prometheus.CounterVec
	presolveReductions *prometheus.CounterVec
	propagations       *prometheus.CounterVec
	fixings            prometheus.Counter
	branchings         prometheus.Counter
	children           prometheus.Counter
	cuts               *prometheus.CounterVec
}

var _ sos1.Hooks = (*Collector)(nil)

// NewCollector creates the metrics under namespace (may be empty).
func NewCollector(namespace string) *Collector {
	return &Collector{
		graphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conflict_graph_nodes",
			Help:      "Number of nodes of the current conflict graph",
		}),
		graphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conflict_graph_edges",
			Help:      "Number of undirected edges of the current conflict graph",
		}),
		graphEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conflict_graph_enabled",
			Help:      "1 when graph propagation and separation are enabled, 0 otherwise",
		}),
		presolveRounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presolve_rounds_total",
			Help:      "Presolve rounds by result",
		}, []string{ResultLabel}),
		presolveReductions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presolve_reductions_total",
			Help:      "Presolve reductions by kind",
		}, []string{KindLabel}),
		propagations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "propagations_total",
			Help:      "Propagation calls by result",
		}, []string{ResultLabel}),
		fixings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "propagation_fixings_total",
			Help:      "Bound changes made by propagation",
		}),
		branchings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "branchings_total",
			Help:      "Branchings on SOS1 constraints",
		}),
		children: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "branch_children_total",
			Help:      "Child nodes created by SOS1 branching",
		}),
		cuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bound_cuts_total",
			Help:      "Accepted bound cuts by source",
		}, []string{SourceLabel}),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.graphNodes, c.graphEdges, c.graphEnabled,
		c.presolveRounds, c.presolveReductions,
		c.propagations, c.fixings,
		c.branchings, c.children,
		c.cuts,
	}
}

// Register registers every metric on reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range c.collectors() {
		if err := reg.Register(m); err != nil {
			return err
		}
	}

	return nil
}

// OnGraphBuilt implements sos1.Hooks.
func (c *Collector) OnGraphBuilt(nodes, edges int, enabled bool) {
	c.graphNodes.Set(float64(nodes))
	c.graphEdges.Set(float64(edges))
	if enabled {
		c.graphEnabled.Set(1)
	} else {
		c.graphEnabled.Set(0)
	}
}

// OnPresolve implements sos1.Hooks.
func (c *Collector) OnPresolve(res sos1.Result, st sos1.PresolveStats) {
	c.presolveRounds.WithLabelValues(res.String()).Inc()
	c.presolveReductions.WithLabelValues("removed_vars").Add(float64(st.RemovedVars))
	c.presolveReductions.WithLabelValues("fixed_vars").Add(float64(st.FixedVars))
	c.presolveReductions.WithLabelValues("zero_fixings").Add(float64(st.ZeroFixings))
	c.presolveReductions.WithLabelValues("deleted").Add(float64(st.Deleted))
}

// OnPropagate implements sos1.Hooks.
func (c *Collector) OnPropagate(res sos1.Result, changes int) {
	c.propagations.WithLabelValues(res.String()).Inc()
	c.fixings.Add(float64(changes))
}

// OnBranch implements sos1.Hooks.
func (c *Collector) OnBranch(_ string, children int) {
	c.branchings.Inc()
	c.children.Add(float64(children))
}

// OnSeparate implements sos1.Hooks.
func (c *Collector) OnSeparate(source string, cuts int) {
	c.cuts.WithLabelValues(source).Add(float64(cuts))
}
