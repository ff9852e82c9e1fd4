// Package placement enumerates the hierarchy levels at which a
// connection between two ports may be declared, and how many concrete
// connections each choice would instantiate.
package placement

import (
	"github.com/cablegraph/cablegraph/pkg/inventory"
)

// Candidate is one level a connection could be declared at.
type Candidate struct {
	// LevelNodeID is the container the declaration would live under.
	LevelNodeID inventory.NodeID
	// TemplateName of the container, if it is a template instance.
	TemplateName string
	// Depth is the candidate's index in the common-ancestor chain;
	// zero is the nearest common container.
	Depth int
	// InstanceCount is how many concrete connections declaring at this
	// level creates.
	InstanceCount int
	// TemplateScoped is true when the declaration replicates across
	// every live instance of TemplateName.
	TemplateScoped bool
}

// Resolve computes every candidate level for a connection between two
// ports, ordered nearest container first. Only the nearest common
// ancestor may be template-scoped: any container above it is not
// guaranteed to be one of several siblings, so declaring there yields
// exactly one connection. Resolve never mutates the store.
func Resolve(st *inventory.Store, portA, portB inventory.NodeID) ([]Candidate, error) {
	for _, id := range []inventory.NodeID{portA, portB} {
		n, err := st.GetNode(id)
		if err != nil {
			return nil, err
		}
		if n.Kind != inventory.KindPort {
			return nil, inventory.NewError("Resolve").Node(id).Cause(inventory.ErrNotAPort).Err()
		}
	}

	shelfA, err := st.OwningShelf(portA)
	if err != nil {
		return nil, err
	}
	shelfB, err := st.OwningShelf(portB)
	if err != nil {
		return nil, err
	}

	chainA := graphAncestors(st, shelfA)
	chainB := graphAncestors(st, shelfB)

	inB := make(map[inventory.NodeID]bool, len(chainB))
	for _, id := range chainB {
		inB[id] = true
	}

	var out []Candidate
	for _, id := range chainA {
		if !inB[id] {
			continue
		}
		n, err := st.GetNode(id)
		if err != nil {
			return nil, err
		}
		c := Candidate{
			LevelNodeID:   id,
			TemplateName:  n.Graph.TemplateName,
			Depth:         len(out),
			InstanceCount: 1,
		}
		if len(out) == 0 && c.TemplateName != "" {
			c.TemplateScoped = true
			c.InstanceCount = len(st.GraphsByTemplate(c.TemplateName))
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, inventory.ValidationError("Resolve", "ports share no container")
	}
	return out, nil
}

// graphAncestors returns the container chain above a shelf, nearest
// first.
func graphAncestors(st *inventory.Store, shelfID inventory.NodeID) []inventory.NodeID {
	var out []inventory.NodeID
	for _, anc := range st.Ancestors(shelfID) {
		n, err := st.GetNode(anc)
		if err != nil {
			continue
		}
		if n.Kind == inventory.KindGraph {
			out = append(out, anc)
		}
	}
	return out
}
