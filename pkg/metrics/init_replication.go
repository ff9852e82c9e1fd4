package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initReplicationMetrics() {
	r.ReplicationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cablegraph_replications_total",
			Help: "Total number of template-scoped edit replications",
		},
		[]string{"operation", "status"},
	)

	r.ReplicationFanout = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cablegraph_replication_fanout",
			Help:    "Number of instances each replicated edit was applied to",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		},
	)

	r.ReplicationSkippedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cablegraph_replication_skipped_instances_total",
			Help: "Total number of structurally diverged instances skipped during replication",
		},
	)

	r.ReplicationRejectedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cablegraph_replication_rejected_total",
			Help: "Total number of replications rejected as instance-scoped",
		},
	)
}

func (r *Registry) initClipboardMetrics() {
	r.ClipboardCopiesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cablegraph_clipboard_copies_total",
			Help: "Total number of clipboard captures",
		},
		[]string{"mode", "status"},
	)

	r.ClipboardPastesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cablegraph_clipboard_pastes_total",
			Help: "Total number of clipboard pastes",
		},
		[]string{"mode", "status"},
	)

	r.ClipboardShelvesPasted = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cablegraph_clipboard_shelves_pasted_total",
			Help: "Total number of shelves created by paste operations",
		},
	)
}

func (r *Registry) initLayoutMetrics() {
	r.LayoutAssignmentsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cablegraph_layout_assignments_total",
			Help: "Total number of physical-layout assignment runs",
		},
		[]string{"status"},
	)

	r.LayoutShelvesAssigned = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cablegraph_layout_shelves_assigned_total",
			Help: "Total number of shelves given physical coordinates",
		},
	)

	r.LayoutShelvesUnassigned = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cablegraph_layout_shelves_unassigned_total",
			Help: "Total number of shelves left without coordinates after capacity overflow",
		},
	)
}
