package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace is the Prometheus namespace for all netbox-fixjson metrics.
	Namespace = "netbox_fixjson"
)

// Registry is the custom Prometheus registry for the tool. Using a custom
// registry avoids polluting the global default and gives full control over
// which collectors are active.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// RepairMetrics holds the counters for one repair run.
type RepairMetrics struct {
	Evaluated      prometheus.Counter
	Candidates     prometheus.Counter
	Updated        prometheus.Counter
	NotUpdated     prometheus.Counter
	UnwrapFailures *prometheus.CounterVec
}

// NewRepairMetrics creates and registers the repair counters on reg.
func NewRepairMetrics(reg prometheus.Registerer) *RepairMetrics {
	m := &RepairMetrics{
		Evaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "repair",
			Name:      "records_evaluated_total",
			Help:      "Records inspected during classification.",
		}),
		Candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "repair",
			Name:      "candidates_total",
			Help:      "Records whose custom field failed type classification.",
		}),
		Updated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "repair",
			Name:      "records_updated_total",
			Help:      "Records fixed (or hypothetically fixed in dry-run mode).",
		}),
		NotUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "repair",
			Name:      "records_not_updated_total",
			Help:      "Records that could not be fixed.",
		}),
		UnwrapFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "repair",
			Name:      "unwrap_failures_total",
			Help:      "Unwrap failures by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.Evaluated, m.Candidates, m.Updated, m.NotUpdated, m.UnwrapFailures)

	return m
}
