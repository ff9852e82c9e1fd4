package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Topology Metrics
	TopologyNodesTotal        prometheus.Gauge
	TopologyShelvesTotal      prometheus.Gauge
	TopologyConnectionsTotal  prometheus.Gauge
	TopologyOperationsTotal   *prometheus.CounterVec
	TopologyOperationDuration *prometheus.HistogramVec

	// Mode Synchronizer Metrics
	ModeSwitchesTotal  *prometheus.CounterVec
	ModeSwitchDuration prometheus.Histogram
	ModeShelvesMoved   prometheus.Counter

	// Pattern Replication Metrics
	ReplicationsTotal        *prometheus.CounterVec
	ReplicationFanout        prometheus.Histogram
	ReplicationSkippedTotal  prometheus.Counter
	ReplicationRejectedTotal prometheus.Counter

	// Clipboard Metrics
	ClipboardCopiesTotal   *prometheus.CounterVec
	ClipboardPastesTotal   *prometheus.CounterVec
	ClipboardShelvesPasted prometheus.Counter

	// Layout Metrics
	LayoutAssignmentsTotal  *prometheus.CounterVec
	LayoutShelvesAssigned   prometheus.Counter
	LayoutShelvesUnassigned prometheus.Counter

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initTopologyMetrics()
	r.initModeMetrics()
	r.initReplicationMetrics()
	r.initClipboardMetrics()
	r.initLayoutMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
