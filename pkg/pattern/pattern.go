package pattern

import (
	"errors"
	"fmt"

	"github.com/cablegraph/cablegraph/pkg/inventory"
)

// Sentinel errors for pattern operations
var (
	// ErrCrossTemplate marks an edit whose endpoints do not share one
	// nearest template instance; such an edit is instance-scoped by
	// definition and must not be replicated.
	ErrCrossTemplate = errors.New("edit is not scoped to a single template instance")
	// ErrNotInInstance marks a node with no template-instance ancestor.
	ErrNotInInstance = errors.New("node is not inside a template instance")
	// ErrNotTemplateScoped marks a connection without a template tag.
	ErrNotTemplateScoped = errors.New("connection is not template-scoped")
)

// NearestInstance walks up from a node to its closest template-instance
// ancestor: a container carrying a template name. The root container
// carries none, so a node hanging straight off the root has no instance.
func NearestInstance(st *inventory.Store, id inventory.NodeID) (root inventory.NodeID, templateName string, ok bool) {
	for _, anc := range st.Ancestors(id) {
		n, err := st.GetNode(anc)
		if err != nil {
			return 0, "", false
		}
		if n.Kind == inventory.KindGraph && n.Graph.TemplateName != "" {
			return anc, n.Graph.TemplateName, true
		}
	}
	return 0, "", false
}

// InstanceAncestor finds the closest ancestor container instantiated
// from the named template.
func InstanceAncestor(st *inventory.Store, id inventory.NodeID, templateName string) (inventory.NodeID, bool) {
	for _, anc := range st.Ancestors(id) {
		n, err := st.GetNode(anc)
		if err != nil {
			return 0, false
		}
		if n.Kind == inventory.KindGraph && n.Graph.TemplateName == templateName {
			return anc, true
		}
	}
	return 0, false
}

// Extract translates a concrete node inside one template instance into
// an instance-independent path: the child-name tokens from the instance
// root down to the node, plus the tray/port address when the node is a
// port. The result never references ids, so it resolves identically in
// every structurally matching instance.
func Extract(st *inventory.Store, id, instanceRoot inventory.NodeID) (inventory.PortPath, error) {
	var p inventory.PortPath

	cur, err := st.GetNode(id)
	if err != nil {
		return p, err
	}

	// Ports contribute a numeric tray/port address instead of tokens.
	if cur.Kind == inventory.KindPort {
		tray, err := st.GetNode(cur.ParentID)
		if err != nil {
			return p, err
		}
		p.Tray = tray.Tray.Number
		p.Port = cur.Port.Number
		shelfID, err := st.OwningShelf(id)
		if err != nil {
			return p, err
		}
		cur, err = st.GetNode(shelfID)
		if err != nil {
			return p, err
		}
	}

	var tokens []string
	for cur.ID != instanceRoot {
		var childName string
		switch cur.Kind {
		case inventory.KindShelf:
			childName = cur.Shelf.ChildName
		case inventory.KindGraph:
			childName = cur.Graph.ChildName
		}
		if childName == "" {
			return inventory.PortPath{}, fmt.Errorf(
				"extract pattern for node %d: %w", id, ErrNotInInstance)
		}
		tokens = append(tokens, childName)
		if cur.ParentID == 0 {
			return inventory.PortPath{}, fmt.Errorf(
				"extract pattern for node %d: instance root %d is not an ancestor", id, instanceRoot)
		}
		cur, err = st.GetNode(cur.ParentID)
		if err != nil {
			return inventory.PortPath{}, err
		}
	}

	// Tokens were collected bottom-up.
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	p.Tokens = tokens
	return p, nil
}

// Resolve follows a pattern from an instance root down to the concrete
// node, reporting false when any hop is missing. A miss is not an
// error: it means that instance has locally diverged from the template
// shape and the caller skips it.
func Resolve(st *inventory.Store, instanceRoot inventory.NodeID, p inventory.PortPath) (inventory.NodeID, bool) {
	return st.ResolvePortPath(instanceRoot, p)
}
