package descriptor

import (
	"fmt"

	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/modes"
)

// Apply rebuilds the in-memory state from a document into an empty
// store and returns the mode the document was saved in. Node specs are
// expected parent-before-child; host indices are restored so the global
// counter can never hand one of them out again.
func Apply(doc *Document, store *inventory.Store) (modes.Mode, error) {
	mode, ok := modes.ParseMode(doc.Mode)
	if !ok {
		return 0, fmt.Errorf("apply descriptor: unknown mode %q", doc.Mode)
	}

	for _, ts := range doc.Templates {
		t := &inventory.Template{Name: ts.Name}
		for _, cs := range ts.Children {
			kind := inventory.ChildLeaf
			if cs.Kind == "graph" {
				kind = inventory.ChildGraph
			}
			t.Children = append(t.Children, inventory.TemplateChild{
				Name:         cs.Name,
				Kind:         kind,
				RefTemplate:  cs.RefTemplate,
				Trays:        cs.Trays,
				PortsPerTray: cs.PortsPerTray,
			})
		}
		for _, conn := range ts.Connections {
			t.Connections = append(t.Connections, inventory.TemplateConnection{
				Source: specToPath(conn.Source),
				Target: specToPath(conn.Target),
				Cable: inventory.CableSpec{
					Type:   conn.CableType,
					Length: conn.CableLength,
					Color:  conn.Color,
				},
			})
		}
		if err := store.PutTemplate(t); err != nil {
			return 0, fmt.Errorf("apply descriptor: %w", err)
		}
	}

	ids := make(map[uint64]inventory.NodeID, len(doc.Nodes))
	for _, ns := range doc.Nodes {
		parent := store.RootID()
		if ns.Parent != 0 {
			mapped, ok := ids[ns.Parent]
			if !ok {
				return 0, fmt.Errorf("apply descriptor: node %d references unknown parent %d", ns.ID, ns.Parent)
			}
			parent = mapped
		}
		proto, err := specToNode(ns)
		if err != nil {
			return 0, fmt.Errorf("apply descriptor: %w", err)
		}
		n, err := store.CreateNodeLike(parent, proto)
		if err != nil {
			return 0, fmt.Errorf("apply descriptor: node %d: %w", ns.ID, err)
		}
		if n.Kind == inventory.KindShelf && ns.HostIndex != 0 {
			if err := store.RestoreHostIndex(n.ID, ns.HostIndex); err != nil {
				return 0, err
			}
		}
		ids[ns.ID] = n.ID
	}

	for _, cs := range doc.Connections {
		src, ok := ids[cs.Source]
		if !ok {
			return 0, fmt.Errorf("apply descriptor: connection references unknown node %d", cs.Source)
		}
		dst, ok := ids[cs.Target]
		if !ok {
			return 0, fmt.Errorf("apply descriptor: connection references unknown node %d", cs.Target)
		}
		cable := inventory.CableSpec{Type: cs.CableType, Length: cs.CableLength, Color: cs.Color}
		if _, err := store.CreateConnection(src, dst, cable, cs.Template); err != nil {
			return 0, fmt.Errorf("apply descriptor: %w", err)
		}
	}
	return mode, nil
}

func specToNode(ns NodeSpec) (*inventory.Node, error) {
	kind, ok := inventory.ParseKind(ns.Kind)
	if !ok {
		return nil, fmt.Errorf("node %d: unknown kind %q", ns.ID, ns.Kind)
	}
	n := &inventory.Node{Kind: kind, Label: ns.Label}
	loc := specLocation(ns)
	switch kind {
	case inventory.KindShelf:
		n.Shelf = &inventory.ShelfData{
			Hostname:     ns.Hostname,
			Loc:          loc,
			TemplateName: ns.Template,
			ChildName:    ns.ChildName,
		}
	case inventory.KindTray:
		n.Tray = &inventory.TrayData{Number: ns.Number, Loc: loc}
	case inventory.KindPort:
		n.Port = &inventory.PortData{Number: ns.Number, Loc: loc}
	case inventory.KindGraph:
		n.Graph = &inventory.GraphData{TemplateName: ns.Template, ChildName: ns.ChildName}
	case inventory.KindRack:
		n.Rack = &inventory.RackData{Hall: ns.RackHall, Aisle: ns.RackAisle, Num: ns.RackNo}
	case inventory.KindAisle:
		n.Aisle = &inventory.AisleData{Hall: ns.RackHall, Name: ns.Label}
	case inventory.KindHall:
		n.Hall = &inventory.HallData{Name: ns.Label}
	}
	return n, nil
}

func specLocation(ns NodeSpec) *inventory.Location {
	if ns.Hall == nil && ns.Aisle == nil && ns.RackNum == nil && ns.ShelfU == nil {
		return nil
	}
	loc := inventory.Location{}
	if ns.Hall != nil {
		loc.Hall = *ns.Hall
	}
	if ns.Aisle != nil {
		loc.Aisle = *ns.Aisle
	}
	if ns.RackNum != nil {
		loc.RackNum = *ns.RackNum
	}
	if ns.ShelfU != nil {
		loc.ShelfU = *ns.ShelfU
	}
	return &loc
}
