package descriptor

import (
	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/modes"
)

// Snapshot regenerates a descriptor document equivalent to the current
// store contents. Nodes are written in preorder so Apply always sees
// parents first. The root container itself is implicit and not written.
func Snapshot(store *inventory.Store, mode modes.Mode) (*Document, error) {
	doc := &Document{Mode: mode.String()}

	for _, t := range store.Templates() {
		ts := TemplateSpec{Name: t.Name}
		for _, c := range t.Children {
			ts.Children = append(ts.Children, TemplateChildSpec{
				Name:         c.Name,
				Kind:         c.Kind.String(),
				RefTemplate:  c.RefTemplate,
				Trays:        c.Trays,
				PortsPerTray: c.PortsPerTray,
			})
		}
		for _, tc := range t.Connections {
			ts.Connections = append(ts.Connections, TemplateConnSpec{
				Source:      pathToSpec(tc.Source),
				Target:      pathToSpec(tc.Target),
				CableType:   tc.Cable.Type,
				CableLength: tc.Cable.Length,
				Color:       tc.Cable.Color,
			})
		}
		doc.Templates = append(doc.Templates, ts)
	}

	root := store.RootID()
	var walk func(id inventory.NodeID) error
	walk = func(id inventory.NodeID) error {
		for _, kid := range store.ChildrenOf(id) {
			n, err := store.GetNode(kid)
			if err != nil {
				return err
			}
			ns := nodeToSpec(n, root)
			doc.Nodes = append(doc.Nodes, ns)
			if err := walk(kid); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	for _, c := range store.Connections() {
		doc.Connections = append(doc.Connections, ConnSpec{
			Source:      uint64(c.SourcePortID),
			Target:      uint64(c.TargetPortID),
			CableType:   c.CableType,
			CableLength: c.CableLength,
			Color:       c.Color,
			Template:    c.TemplateName,
		})
	}
	return doc, nil
}

func nodeToSpec(n *inventory.Node, root inventory.NodeID) NodeSpec {
	ns := NodeSpec{
		ID:    uint64(n.ID),
		Kind:  n.Kind.String(),
		Label: n.Label,
	}
	if n.ParentID != root {
		ns.Parent = uint64(n.ParentID)
	}
	switch n.Kind {
	case inventory.KindShelf:
		ns.Hostname = n.Shelf.Hostname
		ns.HostIndex = n.Shelf.HostIndex
		ns.Template = n.Shelf.TemplateName
		ns.ChildName = n.Shelf.ChildName
		specSetLocation(&ns, n.Shelf.Loc)
	case inventory.KindTray:
		ns.Number = n.Tray.Number
		specSetLocation(&ns, n.Tray.Loc)
	case inventory.KindPort:
		ns.Number = n.Port.Number
		specSetLocation(&ns, n.Port.Loc)
	case inventory.KindGraph:
		ns.Template = n.Graph.TemplateName
		ns.ChildName = n.Graph.ChildName
	case inventory.KindRack:
		ns.RackHall = n.Rack.Hall
		ns.RackAisle = n.Rack.Aisle
		ns.RackNo = n.Rack.Num
	case inventory.KindAisle:
		ns.RackHall = n.Aisle.Hall
	}
	return ns
}

func specSetLocation(ns *NodeSpec, loc *inventory.Location) {
	if loc == nil {
		return
	}
	hall, aisle, rack, unit := loc.Hall, loc.Aisle, loc.RackNum, loc.ShelfU
	ns.Hall = &hall
	ns.Aisle = &aisle
	ns.RackNum = &rack
	ns.ShelfU = &unit
}
