package clipboard

import (
	"fmt"

	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/logging"
	"github.com/cablegraph/cablegraph/pkg/modes"
)

// Paste materializes the held snapshot at the destination. Every node
// gets a fresh id and every shelf a fresh host index; captured port
// references are remapped to the new concrete ids before any connection
// is created. Destination resolution happens in full before the first
// node is created, so an invalid destination leaves the store untouched.
func (m *Manager) Paste(dest Destination) (*PasteReport, error) {
	const op = "Paste"
	if m.snap.Empty() {
		return nil, inventory.ValidationError(op, "clipboard is empty")
	}
	if dest.Mode != m.snap.Mode {
		return nil, inventory.ValidationError(op, fmt.Sprintf(
			"clipboard captured in %s mode, destination is %s", m.snap.Mode, dest.Mode))
	}
	if m.sync != nil && m.sync.Mode() != dest.Mode {
		return nil, inventory.ValidationError(op, fmt.Sprintf(
			"destination mode %s but %s mode is live", dest.Mode, m.sync.Mode()))
	}

	var (
		report *PasteReport
		err    error
	)
	if dest.Mode == modes.Location {
		report, err = m.pasteLocation(dest)
	} else {
		report, err = m.pasteHierarchy(dest)
	}
	if err != nil {
		return nil, err
	}

	m.log.Info("clipboard pasted",
		logging.String("snapshot", m.snap.ID),
		logging.Mode(dest.Mode.String()),
		logging.Int("shelves", report.ShelvesCreated),
		logging.Int("connections", report.ConnectionsCreated))
	return report, nil
}

// targetLocation computes where one captured shelf lands. Coordinate
// fields at and above the captured granularity come from the
// destination; fields below keep their captured values.
func targetLocation(granularity inventory.NodeKind, captured inventory.Location, dest Destination) inventory.Location {
	loc := captured
	switch granularity {
	case inventory.KindHall:
		loc.Hall = dest.Hall
	case inventory.KindAisle:
		loc.Hall = dest.Hall
		loc.Aisle = dest.Aisle
	default: // rack or shelf granularity binds to the destination rack
		loc.Hall = dest.Hall
		loc.Aisle = dest.Aisle
		loc.RackNum = dest.RackNum
	}
	return loc
}

func (m *Manager) pasteLocation(dest Destination) (*PasteReport, error) {
	const op = "Paste"
	clip := m.snap.Location

	// Resolve every target slot before creating anything.
	targets := make([]inventory.Location, len(clip.Shelves))
	used := make(map[inventory.Location]bool)
	for i, entry := range clip.Shelves {
		loc := targetLocation(clip.Granularity, entry.Loc, dest)
		if used[loc] {
			return nil, inventory.ValidationError(op, fmt.Sprintf(
				"two shelves map to slot %s/%s/rack%d/u%d", loc.Hall, loc.Aisle, loc.RackNum, loc.ShelfU))
		}
		used[loc] = true
		targets[i] = loc
	}
	for _, shelfID := range m.store.Shelves() {
		n, err := m.store.GetNode(shelfID)
		if err != nil {
			return nil, err
		}
		if n.Shelf.Loc != nil && used[*n.Shelf.Loc] {
			return nil, inventory.NewError(op).Node(shelfID).
				Context("target slot already occupied").
				Cause(inventory.ErrValidation).Err()
		}
	}
	// Captured connection refs must stay inside the captured complement.
	for _, conn := range clip.Connections {
		for _, ref := range []PortRef{conn.Source, conn.Target} {
			if ref.ShelfIndex < 0 || ref.ShelfIndex >= len(clip.Shelves) {
				return nil, inventory.ValidationError(op, "connection references a shelf outside the capture")
			}
		}
	}

	report := &PasteReport{}
	newShelves := make([]inventory.NodeID, len(clip.Shelves))
	for i, entry := range clip.Shelves {
		rackID, err := m.ensureRack(targets[i].RackKey())
		if err != nil {
			return nil, err
		}
		shelf, err := m.store.CreateNodeLike(rackID, &inventory.Node{
			Kind:  inventory.KindShelf,
			Label: entry.Label,
			Shelf: &inventory.ShelfData{Hostname: entry.Hostname},
		})
		if err != nil {
			return nil, err
		}
		report.NodesCreated++
		for _, te := range entry.Trays {
			tray, err := m.store.CreateNodeLike(shelf.ID, &inventory.Node{
				Kind:  inventory.KindTray,
				Label: fmt.Sprintf("%s/tray%d", entry.Label, te.Number),
				Tray:  &inventory.TrayData{Number: te.Number},
			})
			if err != nil {
				return nil, err
			}
			report.NodesCreated++
			for _, pn := range te.Ports {
				if _, err := m.store.CreateNodeLike(tray.ID, &inventory.Node{
					Kind:  inventory.KindPort,
					Label: fmt.Sprintf("%s/tray%d/port%d", entry.Label, te.Number, pn),
					Port:  &inventory.PortData{Number: pn},
				}); err != nil {
					return nil, err
				}
				report.NodesCreated++
			}
		}
		if err := m.store.SetShelfLocation(shelf.ID, targets[i]); err != nil {
			return nil, err
		}
		newShelves[i] = shelf.ID
		report.ShelvesCreated++
		report.CreatedRoots = append(report.CreatedRoots, shelf.ID)
	}

	for _, conn := range clip.Connections {
		src, ok := m.store.FindPort(newShelves[conn.Source.ShelfIndex], conn.Source.Tray, conn.Source.Port)
		if !ok {
			return nil, inventory.ValidationError(op, "captured connection references a missing port")
		}
		dst, ok := m.store.FindPort(newShelves[conn.Target.ShelfIndex], conn.Target.Tray, conn.Target.Port)
		if !ok {
			return nil, inventory.ValidationError(op, "captured connection references a missing port")
		}
		if _, err := m.store.CreateConnection(src, dst, conn.Cable, ""); err != nil {
			return nil, err
		}
		report.ConnectionsCreated++
	}
	return report, nil
}

// ensureRack finds the rack node with the given coordinates, creating
// the hall/aisle/rack chain when missing.
func (m *Manager) ensureRack(key inventory.RackKey) (inventory.NodeID, error) {
	for _, rackID := range m.store.NodesByKind(inventory.KindRack) {
		n, err := m.store.GetNode(rackID)
		if err != nil {
			continue
		}
		if n.Rack.Hall == key.Hall && n.Rack.Aisle == key.Aisle && n.Rack.Num == key.Num {
			return rackID, nil
		}
	}

	var hallID inventory.NodeID
	for _, id := range m.store.NodesByKind(inventory.KindHall) {
		n, err := m.store.GetNode(id)
		if err != nil {
			continue
		}
		if n.Hall.Name == key.Hall {
			hallID = id
			break
		}
	}
	if hallID == 0 {
		h, err := m.store.CreateHall(m.store.RootID(), key.Hall)
		if err != nil {
			return 0, err
		}
		hallID = h.ID
	}

	var aisleID inventory.NodeID
	for _, id := range m.store.ChildrenOf(hallID) {
		n, err := m.store.GetNode(id)
		if err != nil || n.Kind != inventory.KindAisle {
			continue
		}
		if n.Aisle.Name == key.Aisle {
			aisleID = id
			break
		}
	}
	if aisleID == 0 {
		a, err := m.store.CreateAisle(hallID, key.Hall, key.Aisle)
		if err != nil {
			return 0, err
		}
		aisleID = a.ID
	}

	r, err := m.store.CreateRack(aisleID, key)
	if err != nil {
		return 0, err
	}
	return r.ID, nil
}

func (m *Manager) pasteHierarchy(dest Destination) (*PasteReport, error) {
	const op = "Paste"
	clip := m.snap.Hierarchy

	parent, err := m.store.GetNode(dest.ParentID)
	if err != nil {
		return nil, err
	}
	if parent.Kind != inventory.KindGraph {
		return nil, inventory.NewError(op).Node(dest.ParentID).
			Context("paste destination must be a container").
			Cause(inventory.ErrValidation).Err()
	}
	for _, conn := range clip.Connections {
		for _, idx := range []int{conn.SourceIndex, conn.TargetIndex} {
			if idx < 0 || idx >= len(clip.Nodes) {
				return nil, inventory.ValidationError(op, "connection references a node outside the capture")
			}
			if clip.Nodes[idx].Node.Kind != inventory.KindPort {
				return nil, inventory.ValidationError(op, "connection endpoint is not a port")
			}
		}
	}

	report := &PasteReport{}
	created := make([]inventory.NodeID, len(clip.Nodes))
	for i, entry := range clip.Nodes {
		parentID := dest.ParentID
		if entry.ParentIndex >= 0 {
			parentID = created[entry.ParentIndex]
		}
		proto := entry.Node
		n, err := m.store.CreateNodeLike(parentID, &proto)
		if err != nil {
			return nil, err
		}
		created[i] = n.ID
		report.NodesCreated++
		if n.Kind == inventory.KindShelf {
			report.ShelvesCreated++
		}
		if entry.ParentIndex < 0 {
			report.CreatedRoots = append(report.CreatedRoots, n.ID)
		}
	}

	for _, conn := range clip.Connections {
		if _, err := m.store.CreateConnection(
			created[conn.SourceIndex], created[conn.TargetIndex], conn.Cable, clip.instanceScope(conn)); err != nil {
			return nil, err
		}
		report.ConnectionsCreated++
	}
	return report, nil
}

// instanceScope reports the template tag a pasted connection keeps. The
// capture preserved the original tag; it stays valid only when both
// endpoints sit under one captured container that is an instance of
// that template, so the pasted copy is itself a live replica. Anything
// else pastes as a concrete cable.
func (clip *HierarchyClipboard) instanceScope(conn IndexConnection) string {
	if conn.Template == "" {
		return ""
	}
	srcAnc := make(map[int]bool)
	for i := clip.Nodes[conn.SourceIndex].ParentIndex; i >= 0; i = clip.Nodes[i].ParentIndex {
		srcAnc[i] = true
	}
	for i := clip.Nodes[conn.TargetIndex].ParentIndex; i >= 0; i = clip.Nodes[i].ParentIndex {
		if !srcAnc[i] {
			continue
		}
		n := clip.Nodes[i].Node
		if n.Kind == inventory.KindGraph && n.Graph != nil && n.Graph.TemplateName == conn.Template {
			return conn.Template
		}
	}
	return ""
}
