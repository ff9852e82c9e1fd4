package metrics

import (
	"time"
)

// RecordOperation records a topology operation with its duration
func (r *Registry) RecordOperation(operation, status string, duration time.Duration) {
	r.TopologyOperationsTotal.WithLabelValues(operation, status).Inc()
	r.TopologyOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordModeSwitch records a view-mode switch
func (r *Registry) RecordModeSwitch(target, status string, duration time.Duration, shelvesMoved int) {
	r.ModeSwitchesTotal.WithLabelValues(target, status).Inc()
	r.ModeSwitchDuration.Observe(duration.Seconds())
	r.ModeShelvesMoved.Add(float64(shelvesMoved))
}

// RecordReplication records a template-scoped edit fan-out
func (r *Registry) RecordReplication(operation, status string, applied, skipped int) {
	r.ReplicationsTotal.WithLabelValues(operation, status).Inc()
	if status == "success" {
		r.ReplicationFanout.Observe(float64(applied))
	}
	r.ReplicationSkippedTotal.Add(float64(skipped))
}

// RecordReplicationRejected records a replication rejected as instance-scoped
func (r *Registry) RecordReplicationRejected() {
	r.ReplicationRejectedTotal.Inc()
}

// RecordCopy records a clipboard capture
func (r *Registry) RecordCopy(mode, status string) {
	r.ClipboardCopiesTotal.WithLabelValues(mode, status).Inc()
}

// RecordPaste records a clipboard paste
func (r *Registry) RecordPaste(mode, status string, shelves int) {
	r.ClipboardPastesTotal.WithLabelValues(mode, status).Inc()
	r.ClipboardShelvesPasted.Add(float64(shelves))
}

// RecordLayoutAssignment records a physical-layout assignment run
func (r *Registry) RecordLayoutAssignment(status string, assigned, unassigned int) {
	r.LayoutAssignmentsTotal.WithLabelValues(status).Inc()
	r.LayoutShelvesAssigned.Add(float64(assigned))
	r.LayoutShelvesUnassigned.Add(float64(unassigned))
}

// UpdateTopologyCounts updates the inventory size gauges
func (r *Registry) UpdateTopologyCounts(nodes, shelves, connections int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TopologyNodesTotal.Set(float64(nodes))
	r.TopologyShelvesTotal.Set(float64(shelves))
	r.TopologyConnectionsTotal.Set(float64(connections))
}
