package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTopologyMetrics() {
	r.TopologyNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cablegraph_topology_nodes_total",
			Help: "Total number of nodes in the inventory",
		},
	)

	r.TopologyShelvesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cablegraph_topology_shelves_total",
			Help: "Total number of shelves in the inventory",
		},
	)

	r.TopologyConnectionsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cablegraph_topology_connections_total",
			Help: "Total number of cable connections",
		},
	)

	r.TopologyOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cablegraph_topology_operations_total",
			Help: "Total number of topology operations",
		},
		[]string{"operation", "status"},
	)

	r.TopologyOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cablegraph_topology_operation_duration_seconds",
			Help:    "Topology operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"operation"},
	)
}

func (r *Registry) initModeMetrics() {
	r.ModeSwitchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cablegraph_mode_switches_total",
			Help: "Total number of view-mode switches",
		},
		[]string{"target", "status"},
	)

	r.ModeSwitchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cablegraph_mode_switch_duration_seconds",
			Help:    "Mode switch duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.ModeShelvesMoved = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cablegraph_mode_shelves_moved_total",
			Help: "Total number of shelves reparented by mode switches",
		},
	)
}
