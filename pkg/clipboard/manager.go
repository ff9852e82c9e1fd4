// Package clipboard captures mode-aware sub-selections of the topology
// and materializes them elsewhere with fresh identities, remapping the
// connections internal to the selection.
package clipboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/logging"
	"github.com/cablegraph/cablegraph/pkg/modes"
)

// Manager owns the single clipboard slot.
type Manager struct {
	store *inventory.Store
	sync  *modes.Synchronizer
	log   logging.Logger
	snap  *Snapshot
}

// NewManager creates a clipboard manager bound to a store and its mode
// synchronizer.
func NewManager(store *inventory.Store, sync *modes.Synchronizer, log logging.Logger) *Manager {
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &Manager{
		store: store,
		sync:  sync,
		log:   log.With(logging.Component("clipboard")),
	}
}

// HasClipboard reports whether a non-empty snapshot is held.
func (m *Manager) HasClipboard() bool {
	return !m.snap.Empty()
}

// Snapshot returns the held snapshot, or nil.
func (m *Manager) Snapshot() *Snapshot {
	return m.snap
}

// Copy captures the selection under the given mode. On any validation
// failure the previous clipboard content is kept untouched.
func (m *Manager) Copy(selection []inventory.NodeID, mode modes.Mode) error {
	const op = "Copy"
	if len(selection) == 0 {
		return inventory.ValidationError(op, "selection is empty")
	}

	var snap *Snapshot
	switch mode {
	case modes.Location:
		lc, err := m.copyLocation(selection)
		if err != nil {
			return err
		}
		snap = &Snapshot{Location: lc}
	case modes.Hierarchy:
		hc, err := m.copyHierarchy(selection)
		if err != nil {
			return err
		}
		snap = &Snapshot{Hierarchy: hc}
	default:
		return inventory.ValidationError(op, fmt.Sprintf("unknown mode %d", mode))
	}

	snap.ID = uuid.NewString()
	snap.Mode = mode
	snap.TakenAt = time.Now()
	m.snap = snap

	m.log.Info("selection captured",
		logging.String("snapshot", snap.ID),
		logging.Mode(mode.String()),
		logging.Count(len(selection)))
	return nil
}

// copyLocation expands the selection to shelves, sorts them, and
// captures descriptive fields plus internal connections.
func (m *Manager) copyLocation(selection []inventory.NodeID) (*LocationClipboard, error) {
	const op = "Copy"

	granularity := inventory.KindShelf
	shelfSet := make(map[inventory.NodeID]bool)
	for _, id := range selection {
		n, err := m.store.GetNode(id)
		if err != nil {
			return nil, err
		}
		switch n.Kind {
		case inventory.KindHall, inventory.KindAisle, inventory.KindRack, inventory.KindShelf:
		default:
			return nil, inventory.NewError(op).Node(id).
				Context(n.Kind.String() + " cannot be copied in location mode").
				Cause(inventory.ErrValidation).Err()
		}
		if n.Kind < granularity {
			granularity = n.Kind
		}
		for _, shelf := range m.store.DescendantShelves(id) {
			shelfSet[shelf] = true
		}
	}
	if len(shelfSet) == 0 {
		return nil, inventory.ValidationError(op, "selection holds no shelves")
	}

	shelves := make([]*inventory.Node, 0, len(shelfSet))
	for id := range shelfSet {
		n, err := m.store.GetNode(id)
		if err != nil {
			return nil, err
		}
		if n.Shelf.Loc == nil {
			return nil, inventory.NewError(op).Node(id).
				Context("shelf has no physical location").
				Cause(inventory.ErrValidation).Err()
		}
		shelves = append(shelves, n)
	}
	// Stable ascending order; the id tie-break keeps the capture
	// deterministic even for shelves sharing a slot.
	sort.SliceStable(shelves, func(i, j int) bool {
		a, b := shelves[i].Shelf.Loc, shelves[j].Shelf.Loc
		if a.Hall != b.Hall {
			return a.Hall < b.Hall
		}
		if a.Aisle != b.Aisle {
			return a.Aisle < b.Aisle
		}
		if a.RackNum != b.RackNum {
			return a.RackNum < b.RackNum
		}
		if a.ShelfU != b.ShelfU {
			return a.ShelfU < b.ShelfU
		}
		if shelves[i].Shelf.HostIndex != shelves[j].Shelf.HostIndex {
			return shelves[i].Shelf.HostIndex < shelves[j].Shelf.HostIndex
		}
		return shelves[i].ID < shelves[j].ID
	})

	clip := &LocationClipboard{Granularity: granularity}
	portRefs := make(map[inventory.NodeID]PortRef)
	portSet := make(map[inventory.NodeID]bool)

	for idx, shelf := range shelves {
		entry := ShelfEntry{
			Label:    shelf.Label,
			Hostname: shelf.Shelf.Hostname,
			Loc:      *shelf.Shelf.Loc,
		}
		for _, trayID := range m.store.ChildrenOf(shelf.ID) {
			tray, err := m.store.GetNode(trayID)
			if err != nil || tray.Kind != inventory.KindTray {
				continue
			}
			te := TrayEntry{Number: tray.Tray.Number}
			for _, portID := range m.store.ChildrenOf(trayID) {
				port, err := m.store.GetNode(portID)
				if err != nil || port.Kind != inventory.KindPort {
					continue
				}
				te.Ports = append(te.Ports, port.Port.Number)
				portRefs[portID] = PortRef{ShelfIndex: idx, Tray: tray.Tray.Number, Port: port.Port.Number}
				portSet[portID] = true
			}
			entry.Trays = append(entry.Trays, te)
		}
		clip.Shelves = append(clip.Shelves, entry)
	}

	for _, conn := range m.store.ConnectionsWithin(portSet) {
		clip.Connections = append(clip.Connections, LocationConnection{
			Source: portRefs[conn.SourcePortID],
			Target: portRefs[conn.TargetPortID],
			Cable: inventory.CableSpec{
				Type:   conn.CableType,
				Length: conn.CableLength,
				Color:  conn.Color,
			},
		})
	}
	return clip, nil
}

// copyHierarchy captures selected containers and shelves with their
// subtrees, parents before children, dropping selections already
// covered by a selected ancestor.
func (m *Manager) copyHierarchy(selection []inventory.NodeID) (*HierarchyClipboard, error) {
	const op = "Copy"

	selected := make(map[inventory.NodeID]bool)
	for _, id := range selection {
		n, err := m.store.GetNode(id)
		if err != nil {
			return nil, err
		}
		if n.Kind != inventory.KindGraph && n.Kind != inventory.KindShelf {
			return nil, inventory.NewError(op).Node(id).
				Context(n.Kind.String() + " cannot be copied in hierarchy mode").
				Cause(inventory.ErrValidation).Err()
		}
		selected[id] = true
	}

	// Keep only roots: nodes with no selected ancestor.
	var roots []inventory.NodeID
	seen := make(map[inventory.NodeID]bool)
	for _, id := range selection {
		if seen[id] {
			continue
		}
		seen[id] = true
		covered := false
		for _, anc := range m.store.Ancestors(id) {
			if selected[anc] {
				covered = true
				break
			}
		}
		if !covered {
			roots = append(roots, id)
		}
	}

	clip := &HierarchyClipboard{}
	index := make(map[inventory.NodeID]int)
	portSet := make(map[inventory.NodeID]bool)

	var capture func(id inventory.NodeID, parentIndex int) error
	capture = func(id inventory.NodeID, parentIndex int) error {
		n, err := m.store.GetNode(id)
		if err != nil {
			return err
		}
		entry := n.Clone()
		entry.ID = 0
		entry.ParentID = 0
		clip.Nodes = append(clip.Nodes, NodeEntry{ParentIndex: parentIndex, Node: *entry})
		myIndex := len(clip.Nodes) - 1
		index[id] = myIndex
		if n.Kind == inventory.KindPort {
			portSet[id] = true
		}
		for _, kid := range m.store.ChildrenOf(id) {
			if err := capture(kid, myIndex); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range roots {
		if err := capture(root, -1); err != nil {
			return nil, err
		}
	}

	for _, conn := range m.store.ConnectionsWithin(portSet) {
		clip.Connections = append(clip.Connections, IndexConnection{
			SourceIndex: index[conn.SourcePortID],
			TargetIndex: index[conn.TargetPortID],
			Cable: inventory.CableSpec{
				Type:   conn.CableType,
				Length: conn.CableLength,
				Color:  conn.Color,
			},
			Template: conn.TemplateName,
		})
	}
	return clip, nil
}
