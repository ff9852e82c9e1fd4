package clipboard

import (
	"time"

	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/modes"
)

// PortRef addresses a port by the position of its shelf within the
// captured shelf list plus the tray/port numbers. It survives paste
// because it never references concrete ids.
type PortRef struct {
	ShelfIndex int
	Tray       int
	Port       int
}

// LocationConnection is a captured connection between two port refs.
type LocationConnection struct {
	Source PortRef
	Target PortRef
	Cable  inventory.CableSpec
}

// TrayEntry captures the port complement of one tray.
type TrayEntry struct {
	Number int
	Ports  []int
}

// ShelfEntry captures the descriptive fields of one shelf, never its
// ids.
type ShelfEntry struct {
	Label    string
	Hostname string
	Loc      inventory.Location
	Trays    []TrayEntry
}

// LocationClipboard holds a selection captured in location mode:
// shelves sorted ascending by (hall, aisle, rackNum, shelfU, hostIndex,
// id) and the connections internal to the selection.
type LocationClipboard struct {
	// Granularity is the coarsest kind present in the original
	// selection (hall, aisle, rack, or shelf); paste uses it to decide
	// which coordinate fields the destination overrides.
	Granularity inventory.NodeKind
	Shelves     []ShelfEntry
	Connections []LocationConnection
}

// NodeEntry is one captured node in a hierarchy clipboard. Entries are
// ordered parent-before-child; ParentIndex points into the entry list,
// -1 marking a selection root parented at the paste destination.
type NodeEntry struct {
	ParentIndex int
	// Node carries kind, label, and kind-specific data with ID and
	// ParentID zeroed.
	Node inventory.Node
}

// IndexConnection is a captured connection between two node entries.
// Template carries the original connection's scope tag; paste keeps it
// only when the capture includes a matching instance container.
type IndexConnection struct {
	SourceIndex int
	TargetIndex int
	Cable       inventory.CableSpec
	Template    string
}

// HierarchyClipboard holds a selection captured in hierarchy mode.
type HierarchyClipboard struct {
	Nodes       []NodeEntry
	Connections []IndexConnection
}

// Snapshot is the mode-tagged clipboard content.
type Snapshot struct {
	ID      string
	Mode    modes.Mode
	TakenAt time.Time

	Location  *LocationClipboard
	Hierarchy *HierarchyClipboard
}

// Empty reports whether the snapshot captured nothing.
func (s *Snapshot) Empty() bool {
	if s == nil {
		return true
	}
	if s.Location != nil {
		return len(s.Location.Shelves) == 0
	}
	if s.Hierarchy != nil {
		return len(s.Hierarchy.Nodes) == 0
	}
	return true
}

// Destination resolves where pasted content lands.
type Destination struct {
	Mode modes.Mode

	// ParentID is the target container for hierarchy paste.
	ParentID inventory.NodeID

	// Anchor rack coordinates for location paste. Depending on the
	// captured granularity only a prefix of these is used.
	Hall    string
	Aisle   string
	RackNum int
}

// PasteReport summarizes what a paste created.
type PasteReport struct {
	ShelvesCreated     int
	NodesCreated       int
	ConnectionsCreated int
	CreatedRoots       []inventory.NodeID
}
