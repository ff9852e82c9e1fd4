package inventory

import (
	"fmt"
	"sort"

	"github.com/cablegraph/cablegraph/pkg/logging"
)

// canParent encodes which child kinds a container kind accepts.
func canParent(parent, child NodeKind) bool {
	switch parent {
	case KindGraph:
		return child == KindGraph || child == KindShelf || child == KindHall
	case KindHall:
		return child == KindAisle
	case KindAisle:
		return child == KindRack
	case KindRack:
		return child == KindShelf
	case KindShelf:
		return child == KindTray
	case KindTray:
		return child == KindPort
	default:
		return false
	}
}

func (s *Store) addChild(parent, child NodeID) {
	s.children[parent] = append(s.children[parent], child)
}

func (s *Store) removeChild(parent, child NodeID) {
	kids := s.children[parent]
	for i, id := range kids {
		if id == child {
			s.children[parent] = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}

// checkParent verifies the parent exists and accepts the child kind.
func (s *Store) checkParent(op string, parentID NodeID, childKind NodeKind) (*Node, error) {
	parent, ok := s.nodes[parentID]
	if !ok {
		return nil, NodeNotFoundError(op, parentID)
	}
	if !canParent(parent.Kind, childKind) {
		return nil, NewError(op).Node(parentID).
			Context(fmt.Sprintf("%s cannot hold %s", parent.Kind, childKind)).
			Cause(ErrNotAContainer).Err()
	}
	return parent, nil
}

// CreateShelf creates a shelf with the given tray/port complement under
// the given container. A fresh host index is allocated; it is never
// reused even after the shelf is deleted.
func (s *Store) CreateShelf(parentID NodeID, label, hostname string, trays, portsPerTray int) (*Node, error) {
	return s.createShelf(parentID, label, hostname, trays, portsPerTray, "", "")
}

func (s *Store) createShelf(parentID NodeID, label, hostname string, trays, portsPerTray int, templateName, childName string) (*Node, error) {
	const op = "CreateShelf"
	if _, err := s.checkParent(op, parentID, KindShelf); err != nil {
		return nil, err
	}
	if trays < 0 || portsPerTray < 0 {
		return nil, ValidationError(op, "negative tray or port count")
	}

	shelf := &Node{
		ID:       s.allocNodeID(),
		ParentID: parentID,
		Kind:     KindShelf,
		Label:    label,
		Shelf: &ShelfData{
			HostIndex:    s.NextHostIndex(),
			Hostname:     hostname,
			TemplateName: templateName,
			ChildName:    childName,
		},
	}
	s.nodes[shelf.ID] = shelf
	s.addChild(parentID, shelf.ID)
	s.shelfOrder = append(s.shelfOrder, shelf.ID)

	for t := 1; t <= trays; t++ {
		tray := &Node{
			ID:       s.allocNodeID(),
			ParentID: shelf.ID,
			Kind:     KindTray,
			Label:    fmt.Sprintf("%s/tray%d", label, t),
			Tray:     &TrayData{Number: t},
		}
		s.nodes[tray.ID] = tray
		s.addChild(shelf.ID, tray.ID)
		for p := 1; p <= portsPerTray; p++ {
			port := &Node{
				ID:       s.allocNodeID(),
				ParentID: tray.ID,
				Kind:     KindPort,
				Label:    fmt.Sprintf("%s/tray%d/port%d", label, t, p),
				Port:     &PortData{Number: p},
			}
			s.nodes[port.ID] = port
			s.addChild(tray.ID, port.ID)
		}
	}

	s.log.Debug("shelf created",
		logging.ShelfID(uint64(shelf.ID)),
		logging.Uint64("host_index", shelf.Shelf.HostIndex))
	return shelf.Clone(), nil
}

// CreateGraph creates a container node. templateName marks it as a live
// instance of that template; childName is its name inside the parent
// template, if any.
func (s *Store) CreateGraph(parentID NodeID, label, templateName, childName string) (*Node, error) {
	const op = "CreateGraph"
	if _, err := s.checkParent(op, parentID, KindGraph); err != nil {
		return nil, err
	}
	g := &Node{
		ID:       s.allocNodeID(),
		ParentID: parentID,
		Kind:     KindGraph,
		Label:    label,
		Graph:    &GraphData{TemplateName: templateName, ChildName: childName},
	}
	s.nodes[g.ID] = g
	s.addChild(parentID, g.ID)
	return g.Clone(), nil
}

// CreateHall creates a location-mode hall container.
func (s *Store) CreateHall(parentID NodeID, name string) (*Node, error) {
	const op = "CreateHall"
	if _, err := s.checkParent(op, parentID, KindHall); err != nil {
		return nil, err
	}
	h := &Node{
		ID:       s.allocNodeID(),
		ParentID: parentID,
		Kind:     KindHall,
		Label:    name,
		Hall:     &HallData{Name: name},
	}
	s.nodes[h.ID] = h
	s.addChild(parentID, h.ID)
	return h.Clone(), nil
}

// CreateAisle creates a location-mode aisle container.
func (s *Store) CreateAisle(parentID NodeID, hall, name string) (*Node, error) {
	const op = "CreateAisle"
	if _, err := s.checkParent(op, parentID, KindAisle); err != nil {
		return nil, err
	}
	a := &Node{
		ID:       s.allocNodeID(),
		ParentID: parentID,
		Kind:     KindAisle,
		Label:    name,
		Aisle:    &AisleData{Hall: hall, Name: name},
	}
	s.nodes[a.ID] = a
	s.addChild(parentID, a.ID)
	return a.Clone(), nil
}

// CreateRack creates a location-mode rack container.
func (s *Store) CreateRack(parentID NodeID, key RackKey) (*Node, error) {
	const op = "CreateRack"
	if _, err := s.checkParent(op, parentID, KindRack); err != nil {
		return nil, err
	}
	r := &Node{
		ID:       s.allocNodeID(),
		ParentID: parentID,
		Kind:     KindRack,
		Label:    fmt.Sprintf("rack%d", key.Num),
		Rack:     &RackData{Hall: key.Hall, Aisle: key.Aisle, Num: key.Num},
	}
	s.nodes[r.ID] = r
	s.addChild(parentID, r.ID)
	return r.Clone(), nil
}

// CreateNodeLike creates a fresh node of the same kind, label, and data
// as the prototype under the given parent. The id is newly allocated;
// shelves additionally receive a fresh host index. Used by paste and
// import paths that materialize captured node data.
func (s *Store) CreateNodeLike(parentID NodeID, proto *Node) (*Node, error) {
	const op = "CreateNodeLike"
	if _, err := s.checkParent(op, parentID, proto.Kind); err != nil {
		return nil, err
	}
	n := proto.Clone()
	n.ID = s.allocNodeID()
	n.ParentID = parentID
	if n.Kind == KindShelf {
		if n.Shelf == nil {
			return nil, ValidationError(op, "shelf prototype without shelf data")
		}
		n.Shelf.HostIndex = s.NextHostIndex()
	}
	s.nodes[n.ID] = n
	s.addChild(parentID, n.ID)
	if n.Kind == KindShelf {
		s.shelfOrder = append(s.shelfOrder, n.ID)
	}
	return n.Clone(), nil
}

// RestoreHostIndex overrides a shelf's host index during import and
// advances the global counter past it, so the restored index can never
// be handed out again.
func (s *Store) RestoreHostIndex(shelfID NodeID, index uint64) error {
	const op = "RestoreHostIndex"
	shelf, ok := s.nodes[shelfID]
	if !ok {
		return NodeNotFoundError(op, shelfID)
	}
	if shelf.Kind != KindShelf {
		return NewError(op).Node(shelfID).Context("not a shelf").Cause(ErrValidation).Err()
	}
	shelf.Shelf.HostIndex = index
	if index >= s.nextHostIndex {
		s.nextHostIndex = index + 1
	}
	return nil
}

// GetNode retrieves a node by id. The returned node is a copy.
func (s *Store) GetNode(id NodeID) (*Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, NodeNotFoundError("GetNode", id)
	}
	return n.Clone(), nil
}

// HasNode reports whether the node exists.
func (s *Store) HasNode(id NodeID) bool {
	_, ok := s.nodes[id]
	return ok
}

// ChildrenOf returns the ids of a node's children in insertion order.
func (s *Store) ChildrenOf(id NodeID) []NodeID {
	kids := s.children[id]
	out := make([]NodeID, len(kids))
	copy(out, kids)
	return out
}

// Ancestors returns the parent chain of a node, nearest first, up to
// and including the root.
func (s *Store) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	n, ok := s.nodes[id]
	if !ok {
		return nil
	}
	for n.ParentID != 0 {
		parent, ok := s.nodes[n.ParentID]
		if !ok {
			break
		}
		out = append(out, parent.ID)
		n = parent
	}
	return out
}

// IsAncestor reports whether a is on b's parent chain.
func (s *Store) IsAncestor(a, b NodeID) bool {
	for _, anc := range s.Ancestors(b) {
		if anc == a {
			return true
		}
	}
	return false
}

// Descendants returns the subtree below a node in preorder, excluding
// the node itself.
func (s *Store) Descendants(id NodeID) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(cur NodeID) {
		for _, kid := range s.children[cur] {
			out = append(out, kid)
			walk(kid)
		}
	}
	walk(id)
	return out
}

// DescendantShelves returns every shelf in the subtree rooted at id,
// including id itself when it is a shelf, in preorder.
func (s *Store) DescendantShelves(id NodeID) []NodeID {
	var out []NodeID
	if n, ok := s.nodes[id]; ok && n.Kind == KindShelf {
		out = append(out, id)
	}
	for _, d := range s.Descendants(id) {
		if s.nodes[d].Kind == KindShelf {
			out = append(out, d)
		}
	}
	return out
}

// Reparent moves a node under a new parent. The subtree below the node
// moves with it. Fails if the move would create a cycle or the new
// parent cannot hold the node's kind.
func (s *Store) Reparent(id, newParentID NodeID) error {
	const op = "Reparent"
	n, ok := s.nodes[id]
	if !ok {
		return NodeNotFoundError(op, id)
	}
	if id == s.rootID {
		return ValidationError(op, "cannot reparent the root")
	}
	if _, err := s.checkParent(op, newParentID, n.Kind); err != nil {
		return err
	}
	if id == newParentID || s.IsAncestor(id, newParentID) {
		return NewError(op).Node(id).Cause(ErrCycle).Err()
	}
	if n.ParentID == newParentID {
		return nil
	}

	s.detach(id)
	s.removeChild(n.ParentID, id)
	n.ParentID = newParentID
	s.addChild(newParentID, id)
	return nil
}

// DeleteNode removes a node and its whole subtree, along with every
// connection touching a port inside that subtree.
func (s *Store) DeleteNode(id NodeID) error {
	const op = "DeleteNode"
	n, ok := s.nodes[id]
	if !ok {
		return NodeNotFoundError(op, id)
	}
	if id == s.rootID {
		return ValidationError(op, "cannot delete the root")
	}

	doomed := append([]NodeID{id}, s.Descendants(id)...)
	for _, d := range doomed {
		s.detach(d)
	}
	for _, d := range doomed {
		for _, connID := range append([]ConnectionID(nil), s.connsByPort[d]...) {
			s.dropConnection(connID)
		}
	}
	s.removeChild(n.ParentID, id)
	for _, d := range doomed {
		delete(s.nodes, d)
		delete(s.children, d)
		delete(s.connsByPort, d)
	}
	s.compactShelfOrder()

	s.log.Debug("node deleted", logging.NodeID(uint64(id)), logging.Count(len(doomed)))
	return nil
}

func (s *Store) compactShelfOrder() {
	live := s.shelfOrder[:0]
	for _, id := range s.shelfOrder {
		if _, ok := s.nodes[id]; ok {
			live = append(live, id)
		}
	}
	s.shelfOrder = live
}

// Shelves returns every shelf id in creation order.
func (s *Store) Shelves() []NodeID {
	out := make([]NodeID, 0, len(s.shelfOrder))
	for _, id := range s.shelfOrder {
		if _, ok := s.nodes[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// NodesByKind returns every node of the given kind, ordered by id.
func (s *Store) NodesByKind(kind NodeKind) []NodeID {
	var out []NodeID
	for id, n := range s.nodes {
		if n.Kind == kind {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GraphsByTemplate returns every live container instantiated from the
// named template, ordered by id.
func (s *Store) GraphsByTemplate(name string) []NodeID {
	var out []NodeID
	for id, n := range s.nodes {
		if n.Kind == KindGraph && n.Graph.TemplateName == name {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OwningShelf walks up from a port or tray to its shelf.
func (s *Store) OwningShelf(id NodeID) (NodeID, error) {
	n, ok := s.nodes[id]
	if !ok {
		return 0, NodeNotFoundError("OwningShelf", id)
	}
	for n != nil {
		if n.Kind == KindShelf {
			return n.ID, nil
		}
		n = s.nodes[n.ParentID]
	}
	return 0, NewError("OwningShelf").Node(id).Context("no shelf ancestor").Cause(ErrNodeNotFound).Err()
}

// FindPort resolves a (tray, port) address inside a shelf.
func (s *Store) FindPort(shelfID NodeID, tray, port int) (NodeID, bool) {
	shelf, ok := s.nodes[shelfID]
	if !ok || shelf.Kind != KindShelf {
		return 0, false
	}
	for _, tid := range s.children[shelfID] {
		t := s.nodes[tid]
		if t.Kind != KindTray || t.Tray.Number != tray {
			continue
		}
		for _, pid := range s.children[tid] {
			p := s.nodes[pid]
			if p.Kind == KindPort && p.Port.Number == port {
				return pid, true
			}
		}
		return 0, false
	}
	return 0, false
}

// SetShelfLocation assigns physical coordinates to a shelf and mirrors
// them into its trays and ports.
func (s *Store) SetShelfLocation(shelfID NodeID, loc Location) error {
	const op = "SetShelfLocation"
	shelf, ok := s.nodes[shelfID]
	if !ok {
		return NodeNotFoundError(op, shelfID)
	}
	if shelf.Kind != KindShelf {
		return NewError(op).Node(shelfID).Context("not a shelf").Cause(ErrValidation).Err()
	}
	l := loc
	shelf.Shelf.Loc = &l
	for _, d := range s.Descendants(shelfID) {
		dn := s.nodes[d]
		dl := loc
		switch dn.Kind {
		case KindTray:
			dn.Tray.Loc = &dl
		case KindPort:
			dn.Port.Loc = &dl
		}
	}
	return nil
}

// SetHostname updates a shelf's hostname.
func (s *Store) SetHostname(shelfID NodeID, hostname string) error {
	const op = "SetHostname"
	shelf, ok := s.nodes[shelfID]
	if !ok {
		return NodeNotFoundError(op, shelfID)
	}
	if shelf.Kind != KindShelf {
		return NewError(op).Node(shelfID).Context("not a shelf").Cause(ErrValidation).Err()
	}
	shelf.Shelf.Hostname = hostname
	return nil
}
